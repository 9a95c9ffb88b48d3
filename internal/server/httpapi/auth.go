package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ChargerControl/ChargerControl-sub000/internal/server/service"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	var body registerRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", "email and password required")
		return
	}
	user, err := r.services.Auth.Register(req.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		if service.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "DUPLICATE_EMAIL", "email already registered")
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_DATA", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	token, err := r.services.Auth.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{JWT: token})
}

func (r *Router) handleListUsers(w http.ResponseWriter, req *http.Request) {
	users, err := r.services.Auth.Users(req.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (r *Router) handlePayment(w http.ResponseWriter, req *http.Request) {
	var body models.PaymentRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	resp, err := r.services.Payment.Process(req.Context(), body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	if !resp.Success {
		writeJSON(w, http.StatusPaymentRequired, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
