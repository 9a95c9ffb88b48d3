package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ChargerControl/ChargerControl-sub000/internal/server/service"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

type Router struct {
	services        *service.Services
	logger          *log.Logger
	maxRequestBytes int64
}

func NewRouter(services *service.Services, logger *log.Logger, maxRequestBytes int64) http.Handler {
	r := &Router{services: services, logger: logger, maxRequestBytes: maxRequestBytes}
	mux := chi.NewRouter()
	mux.Use(r.limitRequestBody)

	mux.Get("/health", r.handleHealth)

	// Both route families issue the same tokens; the operator app uses the
	// auth/ prefix, the end-user app the user/ prefix.
	mux.Post("/apiV1/user/register", r.handleRegister)
	mux.Post("/apiV1/user/login", r.handleLogin)
	mux.Post("/apiV1/auth/register", r.handleRegister)
	mux.Post("/apiV1/auth/login", r.handleLogin)

	mux.Post("/api/payment/process", r.handlePayment)

	mux.Group(func(pr chi.Router) {
		pr.Use(r.authMiddleware)

		pr.Get("/apiV1/user/all", r.handleListUsers)

		pr.Get("/apiV1/stations", r.handleListStations)
		pr.Post("/apiV1/stations", r.handleCreateStation)
		pr.Put("/apiV1/stations/{id}", r.handleUpdateStation)
		pr.Delete("/apiV1/stations/{id}", r.handleDeleteStation)

		pr.Get("/apiV1/chargingports/station/{stationID}", r.handlePortsByStation)
		pr.Get("/apiV1/chargingports/station/{stationID}/stats/energy", r.handleEnergyStats)
		pr.Get("/apiV1/chargingports/status/{status}", r.handlePortsByStatus)
		pr.Post("/apiV1/chargingports", r.handleCreatePort)
		pr.Delete("/apiV1/chargingports/{id}", r.handleDeletePort)

		pr.Get("/apiV1/cars/user/{userID}", r.handleCarsByUser)
		pr.Post("/apiV1/cars", r.handleCreateCar)
		pr.Delete("/apiV1/cars/{id}", r.handleDeleteCar)

		pr.Get("/apiV1/bookings/user/{userID}", r.handleBookingsByUser)
		pr.Post("/apiV1/bookings", r.handleCreateBooking)
		pr.Delete("/apiV1/bookings/{id}", r.handleDeleteBooking)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the typed error-code contract body.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.ErrorBody{Code: code, Message: message})
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
