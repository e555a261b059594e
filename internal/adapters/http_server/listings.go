package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"umrah_booking/internal/adapters/observability"
	"umrah_booking/internal/app"
	"umrah_booking/internal/domain"
)

// listingView adds the title resolved for the request language.
type listingView struct {
	domain.Listing
	DisplayTitle string `json:"display_title"`
}

func localize(ls []domain.Listing, lang string) []listingView {
	out := make([]listingView, len(ls))
	for i, l := range ls {
		out[i] = listingView{Listing: l, DisplayTitle: l.Title.Pick(lang)}
	}
	return out
}

func (h *Handlers) listListings(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	q := domain.ListingsQuery{Kind: kind, ProviderID: r.URL.Query().Get("provider_id"), Limit: limit}
	ls, err := h.Catalog.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	lang := selectLang(r)
	w.Header().Set("Content-Language", lang)
	writeCacheable(w, r, map[string]any{"items": localize(ls, lang)})
}

func (h *Handlers) getListing(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}
	l, err := h.Catalog.GetKind(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	lang := selectLang(r)
	w.Header().Set("Content-Language", lang)
	writeCacheable(w, r, listingView{Listing: l, DisplayTitle: l.Title.Pick(lang)})
}

func (h *Handlers) createListing(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}
	var in domain.Listing
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Kind = kind
	out, err := h.Catalog.Create(r.Context(), principalFrom(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/"+chi.URLParam(r, "kind")+"/"+out.ID)
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateListing(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}
	var patch domain.ListingPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	out, err := h.Catalog.Update(r.Context(), principalFrom(r.Context()), kind, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteListing(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}
	if err := h.Catalog.Delete(r.Context(), principalFrom(r.Context()), kind, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type searchResponse struct {
	app.SearchResult
	Items []listingView `json:"items"`
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}
	res, err := h.Search.Search(r.Context(), kind, r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveSearch(string(kind), res.Total, res.ActiveFilters)

	lang := selectLang(r)
	w.Header().Set("Content-Language", lang)
	writeCacheable(w, r, searchResponse{SearchResult: res, Items: localize(res.Items, lang)})
}

type compareRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handlers) compare(w http.ResponseWriter, r *http.Request) {
	var in compareRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if len(in.IDs) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "ids must not be empty")
		return
	}
	res, err := h.Search.Compare(r.Context(), in.IDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
