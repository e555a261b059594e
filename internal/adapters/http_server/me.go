package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"umrah_booking/internal/search"
)

type itemRequest struct {
	ID string `json:"id"`
}

func decodeItem(w http.ResponseWriter, r *http.Request) (string, bool) {
	var in itemRequest
	if !decodeJSON(w, r, &in) {
		return "", false
	}
	if in.ID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "id is required")
		return "", false
	}
	return in.ID, true
}

// ---- wishlist ----

func (h *Handlers) listWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.Wishlist.Items(r.Context(), principalFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// addWishlist only accepts ids of existing listings.
func (h *Handlers) addWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := decodeItem(w, r)
	if !ok {
		return
	}
	if _, err := h.Catalog.Get(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	added, err := h.Wishlist.Add(r.Context(), principalFrom(r.Context()).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "added": added})
}

func (h *Handlers) removeWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.Wishlist.Remove(r.Context(), principalFrom(r.Context()).UserID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) clearWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.Wishlist.Clear(r.Context(), principalFrom(r.Context()).UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- notifications ----

func (h *Handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	uid := principalFrom(r.Context()).UserID
	list, err := h.Notifications.List(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list, "unread": unread})
}

type readRequest struct {
	ID string `json:"id,omitempty"` // empty marks everything read
}

func (h *Handlers) readNotifications(w http.ResponseWriter, r *http.Request) {
	var in readRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &in) {
		return
	}
	uid := principalFrom(r.Context()).UserID
	if in.ID == "" {
		if err := h.Notifications.MarkAllRead(r.Context(), uid); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	found, err := h.Notifications.MarkRead(r.Context(), uid, in.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeProblem(w, http.StatusNotFound, "Not Found", "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- comparison ----

type comparisonView struct {
	Items   []listingView `json:"items"`
	Visible bool          `json:"visible"`
	Full    bool          `json:"full"`
	Max     int           `json:"max"`
}

func viewComparison(set *search.ComparisonSet, lang string) comparisonView {
	return comparisonView{Items: localize(set.Items(), lang), Visible: set.Visible(), Full: set.Full(), Max: search.MaxCompare}
}

func (h *Handlers) getComparison(w http.ResponseWriter, r *http.Request) {
	set, err := h.Compare.Load(r.Context(), principalFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewComparison(set, selectLang(r)))
}

// addComparison answers 409 when the set is full or already holds the listing.
func (h *Handlers) addComparison(w http.ResponseWriter, r *http.Request) {
	id, ok := decodeItem(w, r)
	if !ok {
		return
	}
	l, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	set, added, err := h.Compare.Add(r.Context(), principalFrom(r.Context()).UserID, l)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !added {
		detail := "listing is already in the comparison"
		if !set.Contains(id) {
			detail = "comparison is full"
		}
		writeProblem(w, http.StatusConflict, "Conflict", detail)
		return
	}
	writeJSON(w, http.StatusOK, viewComparison(set, selectLang(r)))
}

func (h *Handlers) removeComparison(w http.ResponseWriter, r *http.Request) {
	set, err := h.Compare.Remove(r.Context(), principalFrom(r.Context()).UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewComparison(set, selectLang(r)))
}

func (h *Handlers) toggleComparison(w http.ResponseWriter, r *http.Request) {
	set, err := h.Compare.ToggleVisibility(r.Context(), principalFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewComparison(set, selectLang(r)))
}

func (h *Handlers) clearComparison(w http.ResponseWriter, r *http.Request) {
	if err := h.Compare.Clear(r.Context(), principalFrom(r.Context()).UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
