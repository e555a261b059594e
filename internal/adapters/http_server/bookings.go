package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"umrah_booking/internal/adapters/observability"
	"umrah_booking/internal/app"
	"umrah_booking/internal/domain"
)

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	out, err := h.Bookings.List(r.Context(), principalFrom(r.Context()), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, map[string]any{"items": out})
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var in app.NewBooking
	if !decodeJSON(w, r, &in) {
		return
	}
	b, err := h.Bookings.Create(r.Context(), principalFrom(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveBooking(string(b.Kind), string(b.Status))
	w.Header().Set("Location", "/v1/bookings/"+b.ID)
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.Get(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, b)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var in statusRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	to, err := domain.ParseBookingStatus(in.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.UpdateStatus(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "id"), to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveBooking(string(b.Kind), string(b.Status))
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Bookings.Delete(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveBooking("", "deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ---- profiles ----

func (h *Handlers) listProfiles(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	out, err := h.Profiles.List(r.Context(), principalFrom(r.Context()), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, map[string]any{"items": out})
}

func (h *Handlers) upsertProfile(w http.ResponseWriter, r *http.Request) {
	var in domain.Profile
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.Profiles.Upsert(r.Context(), principalFrom(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profiles.Get(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, p)
}

func (h *Handlers) deleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.Profiles.Delete(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dashboard.For(r.Context(), principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, d)
}
