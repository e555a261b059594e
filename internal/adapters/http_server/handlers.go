package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"umrah_booking/internal/app"
	"umrah_booking/internal/domain"
	"umrah_booking/internal/session"
)

const maxBody = 1 << 20

type Handlers struct {
	Catalog   *app.CatalogService
	Search    *app.SearchService
	Bookings  *app.BookingService
	Profiles  *app.ProfileService
	Dashboard *app.DashboardService

	Wishlist      *session.Wishlist
	Notifications *session.Notifications
	Compare       *session.Comparison
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/search/{kind}", h.search)
		r.Post("/compare", h.compare)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)

			r.Get("/bookings", h.listBookings)
			r.Post("/bookings", h.createBooking)
			r.Get("/bookings/{id}", h.getBooking)
			r.Patch("/bookings/{id}", h.updateBookingStatus)
			r.Delete("/bookings/{id}", h.deleteBooking)

			r.Get("/profiles", h.listProfiles)
			r.Post("/profiles", h.upsertProfile)
			r.Get("/profiles/{id}", h.getProfile)
			r.Delete("/profiles/{id}", h.deleteProfile)

			r.Get("/dashboard", h.dashboard)

			r.Route("/me", func(r chi.Router) {
				r.Get("/wishlist", h.listWishlist)
				r.Post("/wishlist", h.addWishlist)
				r.Delete("/wishlist", h.clearWishlist)
				r.Delete("/wishlist/{id}", h.removeWishlist)

				r.Get("/notifications", h.listNotifications)
				r.Post("/notifications/read", h.readNotifications)

				r.Get("/compare", h.getComparison)
				r.Post("/compare", h.addComparison)
				r.Delete("/compare", h.clearComparison)
				r.Delete("/compare/{id}", h.removeComparison)
				r.Post("/compare/toggle", h.toggleComparison)
			})
		})

		// Listing CRUD last so the static prefixes above win over {kind}.
		r.Get("/{kind}", h.listListings)
		r.Get("/{kind}/{id}", h.getListing)
		r.With(RequireUser).Post("/{kind}", h.createListing)
		r.With(RequireUser).Patch("/{kind}/{id}", h.updateListing)
		r.With(RequireUser).Delete("/{kind}/{id}", h.deleteListing)
	})
}

// selectLang picks "ar" or "en" from ?lang, then Accept-Language.
func selectLang(r *http.Request) string {
	v := r.URL.Query().Get("lang")
	if v == "" {
		v = r.Header.Get("Accept-Language")
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(v)), "ar") {
		return "ar"
	}
	return "en"
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain sentinels onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalid):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable serves v with a weak ETag, answering 304 when it matches If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return false
	}
	return true
}

// parseLimit reads ?limit (1..200); absent means no limit.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	ls := r.URL.Query().Get("limit")
	if ls == "" {
		return 0, true
	}
	l, err := strconv.Atoi(ls)
	if err != nil || l <= 0 || l > 200 {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
		return 0, false
	}
	return l, true
}

func parseKind(w http.ResponseWriter, r *http.Request) (domain.Kind, bool) {
	k, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
		return "", false
	}
	return k, true
}
