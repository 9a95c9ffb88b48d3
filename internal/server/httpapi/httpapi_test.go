package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChargerControl/ChargerControl-sub000/internal/server/config"
	"github.com/ChargerControl/ChargerControl-sub000/internal/server/repository/sqlite"
	"github.com/ChargerControl/ChargerControl-sub000/internal/server/service"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

func newTestServer(t *testing.T) http.Handler {
	return newTestServerWithLimit(t, 1<<20)
}

func newTestServerWithLimit(t *testing.T, maxRequestBytes int64) http.Handler {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?cache=shared&mode=rwc"
	repo, err := sqlite.New(dsn)
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	svcs := service.NewServices(repo, config.Config{JWTSecret: "test", MaxRequestBytes: maxRequestBytes})
	return NewRouter(svcs, nil, maxRequestBytes)
}

func doJSON(t *testing.T, ts http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewBuffer(b)
	} else {
		buf = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	return rr
}

// registerAndLogin creates a user and returns the auth header.
func registerAndLogin(t *testing.T, ts http.Handler, email string) map[string]string {
	t.Helper()
	rr := doJSON(t, ts, "POST", "/apiV1/user/register", map[string]string{"name": "Test", "email": email, "password": "pass"}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rr.Code, rr.Body.String())
	}
	rr = doJSON(t, ts, "POST", "/apiV1/user/login", map[string]string{"email": email, "password": "pass"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rr.Code, rr.Body.String())
	}
	var tok models.TokenResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &tok)
	if tok.JWT == "" {
		t.Fatalf("login returned no jwt: %s", rr.Body.String())
	}
	return map[string]string{"Authorization": "Bearer " + tok.JWT}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rr := doJSON(t, ts, "GET", "/health", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("health status: %d", rr.Code)
	}
}

func TestRequestBodyLimit(t *testing.T) {
	ts := newTestServerWithLimit(t, 64)
	rr := doJSON(t, ts, "POST", "/apiV1/user/register", map[string]string{
		"name": strings.Repeat("x", 256), "email": "u@example.com", "password": "pass",
	}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("oversized body: %d %s", rr.Code, rr.Body.String())
	}
	var eb models.ErrorBody
	_ = json.Unmarshal(rr.Body.Bytes(), &eb)
	if eb.Code != "INVALID_JSON" {
		t.Fatalf("error code: %q", eb.Code)
	}
}

func TestAuth(t *testing.T) {
	ts := newTestServer(t)
	authz := registerAndLogin(t, ts, "u@example.com")

	// Duplicate registration.
	rr := doJSON(t, ts, "POST", "/apiV1/user/register", map[string]string{"email": "u@example.com", "password": "pass"}, nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate register: %d %s", rr.Code, rr.Body.String())
	}
	var eb models.ErrorBody
	_ = json.Unmarshal(rr.Body.Bytes(), &eb)
	if eb.Code != "DUPLICATE_EMAIL" {
		t.Fatalf("error code: %q", eb.Code)
	}

	// Wrong password.
	rr = doJSON(t, ts, "POST", "/apiV1/user/login", map[string]string{"email": "u@example.com", "password": "nope"}, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", rr.Code)
	}

	// The auth/ alias issues tokens too.
	rr = doJSON(t, ts, "POST", "/apiV1/auth/login", map[string]string{"email": "u@example.com", "password": "pass"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("auth alias login: %d", rr.Code)
	}

	// Protected routes reject missing and garbage tokens.
	rr = doJSON(t, ts, "GET", "/apiV1/user/all", nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", rr.Code)
	}
	rr = doJSON(t, ts, "GET", "/apiV1/user/all", nil, map[string]string{"Authorization": "Bearer garbage"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: %d", rr.Code)
	}
	rr = doJSON(t, ts, "GET", "/apiV1/user/all", nil, authz)
	if rr.Code != http.StatusOK {
		t.Fatalf("user list: %d %s", rr.Code, rr.Body.String())
	}
}

func TestStationsPortsCars(t *testing.T) {
	ts := newTestServer(t)
	authz := registerAndLogin(t, ts, "ops@example.com")

	rr := doJSON(t, ts, "POST", "/apiV1/stations", models.Station{Name: "Central", Location: "Garage 1", PowerKW: 22}, authz)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create station: %d %s", rr.Code, rr.Body.String())
	}
	var station models.Station
	_ = json.Unmarshal(rr.Body.Bytes(), &station)
	if station.ID == 0 {
		t.Fatalf("station id missing: %s", rr.Body.String())
	}

	// Power must be positive.
	rr = doJSON(t, ts, "POST", "/apiV1/stations", models.Station{Name: "Bad"}, authz)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid station: %d", rr.Code)
	}

	station.PowerKW = 50
	rr = doJSON(t, ts, "PUT", "/apiV1/stations/1", station, authz)
	if rr.Code != http.StatusOK {
		t.Fatalf("update station: %d %s", rr.Code, rr.Body.String())
	}
	rr = doJSON(t, ts, "PUT", "/apiV1/stations/99", station, authz)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("update missing station: %d", rr.Code)
	}

	rr = doJSON(t, ts, "POST", "/apiV1/chargingports", models.ChargingPort{StationID: station.ID, Connector: "CCS2"}, authz)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create port: %d %s", rr.Code, rr.Body.String())
	}
	var port models.ChargingPort
	_ = json.Unmarshal(rr.Body.Bytes(), &port)
	if port.Status != models.PortAvailable {
		t.Fatalf("default port status: %q", port.Status)
	}

	rr = doJSON(t, ts, "GET", "/apiV1/chargingports/station/1", nil, authz)
	if rr.Code != http.StatusOK {
		t.Fatalf("ports by station: %d", rr.Code)
	}
	rr = doJSON(t, ts, "GET", "/apiV1/chargingports/status/AVAILABLE", nil, authz)
	if rr.Code != http.StatusOK {
		t.Fatalf("ports by status: %d", rr.Code)
	}

	rr = doJSON(t, ts, "POST", "/apiV1/cars", models.Car{Brand: "Tesla", Model: "3", Plate: "AB-12-CD"}, authz)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create car: %d %s", rr.Code, rr.Body.String())
	}
	var car models.Car
	_ = json.Unmarshal(rr.Body.Bytes(), &car)
	if car.UserID == 0 {
		t.Fatalf("car owner must default to the caller: %+v", car)
	}
	rr = doJSON(t, ts, "GET", "/apiV1/cars/user/1", nil, authz)
	if rr.Code != http.StatusOK {
		t.Fatalf("cars by user: %d", rr.Code)
	}
}

func bookingBody(key string) models.BookingRequest {
	return models.BookingRequest{
		UserID:    1,
		StationID: 1,
		CarID:     1,
		StartTime: "2026-03-01T10:00:00Z",
		Duration:  60,
		Payment:   models.PaymentInfo{TransactionID: key, Amount: 6.60, Status: "CAPTURED"},
	}
}

func TestBookings(t *testing.T) {
	ts := newTestServer(t)
	authz := registerAndLogin(t, ts, "driver@example.com")

	doJSON(t, ts, "POST", "/apiV1/stations", models.Station{Name: "Central", PowerKW: 22}, authz)
	doJSON(t, ts, "POST", "/apiV1/chargingports", models.ChargingPort{StationID: 1}, authz)
	doJSON(t, ts, "POST", "/apiV1/cars", models.Car{Brand: "Tesla", Plate: "X"}, authz)

	// Payment-first: a booking without a payment record is rejected.
	noPay := bookingBody("")
	noPay.Payment = models.PaymentInfo{}
	rr := doJSON(t, ts, "POST", "/apiV1/bookings", noPay, authz)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("booking without payment: %d %s", rr.Code, rr.Body.String())
	}
	var eb models.ErrorBody
	_ = json.Unmarshal(rr.Body.Bytes(), &eb)
	if eb.Code != "INVALID_BOOKING_DATA" {
		t.Fatalf("error code: %q", eb.Code)
	}

	rr = doJSON(t, ts, "POST", "/apiV1/bookings", bookingBody("tx1"), authz)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create booking: %d %s", rr.Code, rr.Body.String())
	}
	var booking models.Booking
	_ = json.Unmarshal(rr.Body.Bytes(), &booking)
	if booking.ID == 0 || booking.Status != "CONFIRMED" {
		t.Fatalf("booking: %+v", booking)
	}

	// Single port, overlapping slot: no capacity left.
	rr = doJSON(t, ts, "POST", "/apiV1/bookings", bookingBody("tx2"), authz)
	if rr.Code != http.StatusConflict {
		t.Fatalf("overlapping booking: %d %s", rr.Code, rr.Body.String())
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &eb)
	if eb.Code != "NO_PORT_AVAILABLE" || eb.Message != "no ports available" {
		t.Fatalf("conflict body: %+v", eb)
	}

	// A non-overlapping slot on the same port is fine.
	later := bookingBody("tx3")
	later.StartTime = "2026-03-01T12:00:00Z"
	rr = doJSON(t, ts, "POST", "/apiV1/bookings", later, authz)
	if rr.Code != http.StatusCreated {
		t.Fatalf("later booking: %d %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, ts, "GET", "/apiV1/bookings/user/1", nil, authz)
	if rr.Code != http.StatusOK {
		t.Fatalf("bookings by user: %d", rr.Code)
	}
	var list []models.Booking
	_ = json.Unmarshal(rr.Body.Bytes(), &list)
	if len(list) != 2 {
		t.Fatalf("bookings: %d", len(list))
	}

	rr = doJSON(t, ts, "DELETE", "/apiV1/bookings/1", nil, authz)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete booking: %d", rr.Code)
	}
	rr = doJSON(t, ts, "DELETE", "/apiV1/bookings/1", nil, authz)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("delete twice: %d", rr.Code)
	}
}

func TestBookings_IdempotencyReplay(t *testing.T) {
	ts := newTestServer(t)
	authz := registerAndLogin(t, ts, "driver@example.com")

	doJSON(t, ts, "POST", "/apiV1/stations", models.Station{Name: "Central", PowerKW: 22}, authz)
	doJSON(t, ts, "POST", "/apiV1/chargingports", models.ChargingPort{StationID: 1}, authz)

	hdr := map[string]string{"Authorization": authz["Authorization"], "Idempotency-Key": "attempt-1"}
	rr := doJSON(t, ts, "POST", "/apiV1/bookings", bookingBody("tx1"), hdr)
	if rr.Code != http.StatusCreated {
		t.Fatalf("first submit: %d %s", rr.Code, rr.Body.String())
	}
	var first models.Booking
	_ = json.Unmarshal(rr.Body.Bytes(), &first)

	// Same key replays the stored booking even though the slot is now full.
	rr = doJSON(t, ts, "POST", "/apiV1/bookings", bookingBody("tx1"), hdr)
	if rr.Code != http.StatusCreated {
		t.Fatalf("replay: %d %s", rr.Code, rr.Body.String())
	}
	var second models.Booking
	_ = json.Unmarshal(rr.Body.Bytes(), &second)
	if first.ID != second.ID {
		t.Fatalf("replay must return the original booking: %d vs %d", first.ID, second.ID)
	}
}

func TestEnergyStats(t *testing.T) {
	ts := newTestServer(t)
	authz := registerAndLogin(t, ts, "ops@example.com")

	doJSON(t, ts, "POST", "/apiV1/stations", models.Station{Name: "Central", PowerKW: 22}, authz)
	doJSON(t, ts, "POST", "/apiV1/chargingports", models.ChargingPort{StationID: 1}, authz)
	doJSON(t, ts, "POST", "/apiV1/bookings", bookingBody("tx1"), authz)

	rr := doJSON(t, ts, "GET", "/apiV1/chargingports/station/1/stats/energy", nil, authz)
	if rr.Code != http.StatusOK {
		t.Fatalf("energy stats: %d %s", rr.Code, rr.Body.String())
	}
	var stats models.StationEnergyStats
	_ = json.Unmarshal(rr.Body.Bytes(), &stats)
	if stats.Bookings != 1 || stats.TotalKWh != 22 {
		t.Fatalf("stats: %+v", stats)
	}

	rr = doJSON(t, ts, "GET", "/apiV1/chargingports/station/99/stats/energy", nil, authz)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing station stats: %d", rr.Code)
	}
}

func TestPaymentProcess(t *testing.T) {
	ts := newTestServer(t)

	rr := doJSON(t, ts, "POST", "/api/payment/process", models.PaymentRequest{
		Amount: 6.60, Currency: "EUR", CardNumber: "4242 4242 4242 4242", CVV: "123",
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("payment: %d %s", rr.Code, rr.Body.String())
	}
	var resp models.PaymentResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if !resp.Success || resp.TransactionID == "" || resp.Status != "CAPTURED" {
		t.Fatalf("payment response: %+v", resp)
	}
	if resp.PaymentMethod != "card ****4242" {
		t.Fatalf("payment method: %q", resp.PaymentMethod)
	}

	rr = doJSON(t, ts, "POST", "/api/payment/process", models.PaymentRequest{
		Amount: 6.60, CardNumber: "4000000000000002", CVV: "123",
	}, nil)
	if rr.Code != http.StatusPaymentRequired {
		t.Fatalf("decline status: %d", rr.Code)
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Success || resp.Status != "DECLINED" {
		t.Fatalf("decline response: %+v", resp)
	}
}
