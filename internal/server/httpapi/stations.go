package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ChargerControl/ChargerControl-sub000/internal/server/service"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

func pathID(req *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(req, name), 10, 64)
	return id, err == nil && id > 0
}

func (r *Router) handleListStations(w http.ResponseWriter, req *http.Request) {
	stations, err := r.services.Stations.List(req.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if stations == nil {
		stations = []models.Station{}
	}
	writeJSON(w, http.StatusOK, stations)
}

func (r *Router) handleCreateStation(w http.ResponseWriter, req *http.Request) {
	var body models.Station
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	st, err := r.services.Stations.Create(req.Context(), body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (r *Router) handleUpdateStation(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", "invalid station id")
		return
	}
	var body models.Station
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	body.ID = id
	st, err := r.services.Stations.Update(req.Context(), body)
	if err != nil {
		if service.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "station not found")
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_DATA", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (r *Router) handleDeleteStation(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", "invalid station id")
		return
	}
	if err := r.services.Stations.Delete(req.Context(), id); err != nil {
		if service.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "station not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Charging ports

func (r *Router) handlePortsByStation(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "stationID")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", "invalid station id")
		return
	}
	ports, err := r.services.Stations.PortsByStation(req.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if ports == nil {
		ports = []models.ChargingPort{}
	}
	writeJSON(w, http.StatusOK, ports)
}

func (r *Router) handlePortsByStatus(w http.ResponseWriter, req *http.Request) {
	status := models.PortStatus(chi.URLParam(req, "status"))
	ports, err := r.services.Stations.PortsByStatus(req.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if ports == nil {
		ports = []models.ChargingPort{}
	}
	writeJSON(w, http.StatusOK, ports)
}

func (r *Router) handleCreatePort(w http.ResponseWriter, req *http.Request) {
	var body models.ChargingPort
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	port, err := r.services.Stations.CreatePort(req.Context(), body)
	if err != nil {
		if service.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "station not found")
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_DATA", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, port)
}

func (r *Router) handleDeletePort(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", "invalid port id")
		return
	}
	if err := r.services.Stations.DeletePort(req.Context(), id); err != nil {
		if service.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "port not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) handleEnergyStats(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "stationID")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", "invalid station id")
		return
	}
	stats, err := r.services.Stations.EnergyStats(req.Context(), id)
	if err != nil {
		if service.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "station not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Cars

func (r *Router) handleCarsByUser(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", "invalid user id")
		return
	}
	cars, err := r.services.Stations.CarsByUser(req.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if cars == nil {
		cars = []models.Car{}
	}
	writeJSON(w, http.StatusOK, cars)
}

func (r *Router) handleCreateCar(w http.ResponseWriter, req *http.Request) {
	var body models.Car
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if body.UserID == 0 {
		body.UserID = getUserID(req.Context())
	}
	car, err := r.services.Stations.CreateCar(req.Context(), body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (r *Router) handleDeleteCar(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", "invalid car id")
		return
	}
	if err := r.services.Stations.DeleteCar(req.Context(), id); err != nil {
		if service.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "car not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
