package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

// Auth

type credentialsBody struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the user-app route family and falls back to the
// operator-app family when the former is absent on a deployment.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := credentialsBody{Email: email, Password: password}
	var out models.TokenResponse
	err := c.doJSON(ctx, request{Kind: KindAuth, Method: http.MethodPost, Path: "/apiV1/user/login", Body: body, Anonymous: true}, &out)
	var herr *HTTPError
	if errors.As(err, &herr) && herr.Status == http.StatusNotFound {
		err = c.doJSON(ctx, request{Kind: KindAuth, Method: http.MethodPost, Path: "/apiV1/auth/login", Body: body, Anonymous: true}, &out)
	}
	if err != nil {
		return "", err
	}
	if out.JWT == "" {
		return "", errors.New("login response missing jwt")
	}
	return out.JWT, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := credentialsBody{Name: name, Email: email, Password: password}
	err := c.doJSON(ctx, request{Kind: KindAuth, Method: http.MethodPost, Path: "/apiV1/user/register", Body: body, Anonymous: true}, nil)
	var herr *HTTPError
	if errors.As(err, &herr) && herr.Status == http.StatusNotFound {
		err = c.doJSON(ctx, request{Kind: KindAuth, Method: http.MethodPost, Path: "/apiV1/auth/register", Body: body, Anonymous: true}, nil)
	}
	return err
}

// Users

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := c.doJSON(ctx, request{Kind: KindUsers, Method: http.MethodGet, Path: "/apiV1/user/all"}, &out)
	return out, err
}

// Cars

func (c *Client) CarsByUser(ctx context.Context, userID int64) ([]models.Car, error) {
	var out []models.Car
	err := c.doJSON(ctx, request{Kind: KindCars, Method: http.MethodGet, Path: fmt.Sprintf("/apiV1/cars/user/%d", userID)}, &out)
	return out, err
}

func (c *Client) AddCar(ctx context.Context, car models.Car) (models.Car, error) {
	var out models.Car
	err := c.doJSON(ctx, request{Kind: KindCars, Method: http.MethodPost, Path: "/apiV1/cars", Body: car}, &out)
	return out, err
}

func (c *Client) DeleteCar(ctx context.Context, id int64) error {
	_, _, err := c.do(ctx, request{Kind: KindCars, Method: http.MethodDelete, Path: "/apiV1/cars", ResourceID: fmt.Sprint(id)})
	return err
}

// Stations

func (c *Client) Stations(ctx context.Context) ([]models.Station, error) {
	var out []models.Station
	err := c.doJSON(ctx, request{Kind: KindStations, Method: http.MethodGet, Path: "/apiV1/stations"}, &out)
	return out, err
}

func (c *Client) Station(ctx context.Context, id int64) (models.Station, error) {
	stations, err := c.Stations(ctx)
	if err != nil {
		return models.Station{}, err
	}
	for _, s := range stations {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Station{}, fmt.Errorf("station %d not found", id)
}

func (c *Client) CreateStation(ctx context.Context, s models.Station) (models.Station, error) {
	var out models.Station
	err := c.doJSON(ctx, request{Kind: KindStations, Method: http.MethodPost, Path: "/apiV1/stations", Body: s}, &out)
	return out, err
}

func (c *Client) UpdateStation(ctx context.Context, s models.Station) (models.Station, error) {
	var out models.Station
	err := c.doJSON(ctx, request{Kind: KindStations, Method: http.MethodPut, Path: "/apiV1/stations", ResourceID: fmt.Sprint(s.ID), Body: s}, &out)
	return out, err
}

func (c *Client) DeleteStation(ctx context.Context, id int64) error {
	_, _, err := c.do(ctx, request{Kind: KindStations, Method: http.MethodDelete, Path: "/apiV1/stations", ResourceID: fmt.Sprint(id)})
	return err
}

// Charging ports

func (c *Client) PortsByStation(ctx context.Context, stationID int64) ([]models.ChargingPort, error) {
	var out []models.ChargingPort
	err := c.doJSON(ctx, request{Kind: KindPorts, Method: http.MethodGet, Path: fmt.Sprintf("/apiV1/chargingports/station/%d", stationID)}, &out)
	return out, err
}

func (c *Client) PortsByStatus(ctx context.Context, status models.PortStatus) ([]models.ChargingPort, error) {
	var out []models.ChargingPort
	err := c.doJSON(ctx, request{Kind: KindPorts, Method: http.MethodGet, Path: "/apiV1/chargingports/status/" + string(status)}, &out)
	return out, err
}

func (c *Client) CreatePort(ctx context.Context, p models.ChargingPort) (models.ChargingPort, error) {
	var out models.ChargingPort
	err := c.doJSON(ctx, request{Kind: KindPorts, Method: http.MethodPost, Path: "/apiV1/chargingports", Body: p}, &out)
	return out, err
}

func (c *Client) DeletePort(ctx context.Context, id int64) error {
	_, _, err := c.do(ctx, request{Kind: KindPorts, Method: http.MethodDelete, Path: "/apiV1/chargingports", ResourceID: fmt.Sprint(id)})
	return err
}

func (c *Client) StationEnergyStats(ctx context.Context, stationID int64) (models.StationEnergyStats, error) {
	var out models.StationEnergyStats
	err := c.doJSON(ctx, request{Kind: KindPorts, Method: http.MethodGet, Path: fmt.Sprintf("/apiV1/chargingports/station/%d/stats/energy", stationID)}, &out)
	return out, err
}

// Bookings

func (c *Client) BookingsByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	var out []models.Booking
	err := c.doJSON(ctx, request{Kind: KindBookings, Method: http.MethodGet, Path: fmt.Sprintf("/apiV1/bookings/user/%d", userID)}, &out)
	return out, err
}

// CreateBooking submits a booking that already carries its payment
// authorization. The idempotency key makes a retry after an ambiguous
// response safe: the server replays the stored outcome for a repeated key.
func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest, idempotencyKey string) (models.Booking, error) {
	var out models.Booking
	err := c.doJSON(ctx, request{
		Kind:           KindBookings,
		Method:         http.MethodPost,
		Path:           "/apiV1/bookings",
		Body:           req,
		IdempotencyKey: idempotencyKey,
	}, &out)
	return out, err
}

func (c *Client) CancelBooking(ctx context.Context, id int64) error {
	_, _, err := c.do(ctx, request{Kind: KindBookings, Method: http.MethodDelete, Path: "/apiV1/bookings", ResourceID: fmt.Sprint(id)})
	return err
}
