package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Username  string    `json:"username,omitempty"`
	Sub       string    `json:"sub,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type TokenResponse struct {
	JWT string `json:"jwt"`
}

type Station struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	PowerKW     float64   `json:"power"`
	PricePerKWh float64   `json:"pricePerKwh,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type PortStatus string

const (
	PortAvailable    PortStatus = "AVAILABLE"
	PortOccupied     PortStatus = "OCCUPIED"
	PortOutOfService PortStatus = "OUT_OF_SERVICE"
)

type ChargingPort struct {
	ID        int64      `json:"id"`
	StationID int64      `json:"stationId"`
	Connector string     `json:"connector,omitempty"`
	Status    PortStatus `json:"status"`
}

type Car struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Brand  string `json:"brand"`
	Model  string `json:"model"`
	Plate  string `json:"plate"`
}

// PaymentInfo is the payment-authorization result carried on a booking.
type PaymentInfo struct {
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	Status        string  `json:"status"`
}

type Booking struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"userId"`
	StationID int64        `json:"stationId"`
	CarID     int64        `json:"carId"`
	StartTime time.Time    `json:"startTime"`
	Duration  int          `json:"duration"`
	Status    string       `json:"status,omitempty"`
	Payment   *PaymentInfo `json:"paymentInfo,omitempty"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
}

// BookingRequest is the wire body of POST /apiV1/bookings.
// StartTime is ISO-8601; Duration is in minutes.
type BookingRequest struct {
	UserID    int64       `json:"userId"`
	StartTime string      `json:"startTime"`
	StationID int64       `json:"stationId"`
	CarID     int64       `json:"carId"`
	Duration  int         `json:"duration"`
	Payment   PaymentInfo `json:"paymentInfo"`
}

type BookingDetails struct {
	StationID int64  `json:"stationId"`
	CarID     int64  `json:"carId"`
	StartTime string `json:"startTime"`
	Duration  int    `json:"duration"`
}

// PaymentRequest is the wire body of POST {paymentBase}/api/payment/process.
type PaymentRequest struct {
	Amount         float64        `json:"amount"`
	Currency       string         `json:"currency"`
	CardNumber     string         `json:"cardNumber"`
	ExpiryDate     string         `json:"expiryDate"`
	CVV            string         `json:"cvv"`
	CardholderName string         `json:"cardholderName"`
	Description    string         `json:"description"`
	BookingDetails BookingDetails `json:"bookingDetails"`
}

type PaymentResponse struct {
	Success       bool    `json:"success"`
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	Message       string  `json:"message,omitempty"`
}

// ErrorBody is the JSON error payload servers return. Code follows the typed
// error-code contract; Message and Err cover older replicas that only send text.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Err     string `json:"error,omitempty"`
}

type StationEnergyStats struct {
	StationID int64   `json:"stationId"`
	TotalKWh  float64 `json:"totalKwh"`
	Bookings  int64   `json:"bookings"`
}
