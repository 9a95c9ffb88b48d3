package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ChargerControl/ChargerControl-sub000/internal/server/service"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

func (r *Router) handleBookingsByUser(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_BOOKING_DATA", "invalid user id")
		return
	}
	bookings, err := r.services.Bookings.ByUser(req.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (r *Router) handleCreateBooking(w http.ResponseWriter, req *http.Request) {
	var body models.BookingRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	booking, err := r.services.Bookings.Create(req.Context(), body, req.Header.Get("Idempotency-Key"))
	if err != nil {
		switch {
		case service.IsNoPort(err):
			// Legacy message text kept alongside the code: older clients
			// match on the phrase.
			writeError(w, http.StatusConflict, "NO_PORT_AVAILABLE", "no ports available")
		case service.IsNotFound(err):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "station not found")
		default:
			writeError(w, http.StatusBadRequest, "INVALID_BOOKING_DATA", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (r *Router) handleDeleteBooking(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_BOOKING_DATA", "invalid booking id")
		return
	}
	if err := r.services.Bookings.Cancel(req.Context(), id); err != nil {
		if service.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
