// Package booking implements the two-phase booking commit: a payment
// authorization must succeed before the reservation record is created.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ChargerControl/ChargerControl-sub000/internal/client/api"
	"github.com/ChargerControl/ChargerControl-sub000/internal/client/report"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

// State of one orchestration instance.
type State int

const (
	StateIdle State = iota
	StateResolvingIdentity
	StateAwaitingPayment
	StateSubmittingBooking
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolvingIdentity:
		return "resolving_identity"
	case StateAwaitingPayment:
		return "awaiting_payment"
	case StateSubmittingBooking:
		return "submitting_booking"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrPaymentCancelled is returned by a PaymentFunc when the user aborts the
// payment sub-flow. The sequence stops before any booking request is issued;
// nothing was committed, so there is no compensation to run.
var ErrPaymentCancelled = errors.New("payment cancelled")

// ErrBookingInProgress guards against a second attempt while one is in
// flight. Advisory only; true at-most-once semantics are server-side.
var ErrBookingInProgress = errors.New("a booking attempt is already in progress")

// PaymentFunc runs the payment sub-flow. The request arrives with amount,
// currency, description and booking details filled in; the implementation
// supplies card data and posts to the processor.
type PaymentFunc func(ctx context.Context, req models.PaymentRequest) (models.PaymentResponse, error)

// API is the slice of the client the orchestrator submits through.
type API interface {
	CreateBooking(ctx context.Context, req models.BookingRequest, idempotencyKey string) (models.Booking, error)
}

// IdentityResolver yields the acting user's internal id.
type IdentityResolver interface {
	Resolve(ctx context.Context) (int64, error)
}

// Params are the user-confirmed booking parameters.
type Params struct {
	Station     models.Station
	CarID       int64
	StartTime   time.Time
	DurationMin int
}

// Outcome is the surfaced result of a successful booking.
type Outcome struct {
	Booking      models.Booking
	Payment      models.PaymentInfo
	EstimatedKWh float64
	Price        float64
	EndTime      time.Time
}

type Orchestrator struct {
	api      API
	ids      IdentityResolver
	pay      PaymentFunc
	reporter report.Reporter

	ratePerKWh    float64
	minimumCharge float64
	currency      string

	mu    sync.Mutex
	state State
}

func New(a API, ids IdentityResolver, pay PaymentFunc, reporter report.Reporter) *Orchestrator {
	return &Orchestrator{
		api:           a,
		ids:           ids,
		pay:           pay,
		reporter:      reporter,
		ratePerKWh:    DefaultRatePerKWh,
		minimumCharge: DefaultMinimumCharge,
		currency:      "EUR",
	}
}

// SetPricing overrides the rate and minimum floor; zero values keep defaults.
func (o *Orchestrator) SetPricing(ratePerKWh, minimum float64) {
	if ratePerKWh > 0 {
		o.ratePerKWh = ratePerKWh
	}
	if minimum > 0 {
		o.minimumCharge = minimum
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// begin transitions Idle (or a terminal state, which re-arms) into
// ResolvingIdentity. A live attempt is not re-entered.
func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.state {
	case StateIdle, StateSucceeded, StateFailed:
		o.state = StateResolvingIdentity
		return nil
	}
	return ErrBookingInProgress
}

// Book drives one full attempt: identity, payment authorization, then the
// booking commit carrying the payment result. Payment failure or cancellation
// returns the machine to Idle and the whole attempt must be re-initiated;
// terminal states are never retried automatically.
func (o *Orchestrator) Book(ctx context.Context, p Params) (Outcome, error) {
	if err := o.begin(); err != nil {
		return Outcome{}, err
	}

	userID, err := o.ids.Resolve(ctx)
	if err != nil {
		o.setState(StateFailed)
		o.reporter.Report(report.Failure("Booking failed", Classify(err), 0, err.Error()))
		return Outcome{}, err
	}

	kwh := EstimateEnergyKWh(p.Station.PowerKW, p.DurationMin)
	rate := o.ratePerKWh
	if p.Station.PricePerKWh > 0 {
		rate = p.Station.PricePerKWh
	}
	price := Price(kwh, rate, o.minimumCharge)
	start := p.StartTime.UTC()

	o.setState(StateAwaitingPayment)
	payReq := models.PaymentRequest{
		Amount:      price,
		Currency:    o.currency,
		Description: fmt.Sprintf("EV charging at %s (%s est.)", p.Station.Name, FormatEnergy(kwh)),
		BookingDetails: models.BookingDetails{
			StationID: p.Station.ID,
			CarID:     p.CarID,
			StartTime: start.Format(time.RFC3339),
			Duration:  p.DurationMin,
		},
	}
	payRes, err := o.pay(ctx, payReq)
	if err != nil {
		// Back to Idle: the user may retry, but only by re-initiating the
		// whole attempt. No booking request was issued.
		o.setState(StateIdle)
		if errors.Is(err, ErrPaymentCancelled) {
			return Outcome{}, err
		}
		o.reporter.Report(report.Failure("Payment failed", err.Error(), 0, err.Error()))
		return Outcome{}, err
	}
	if !payRes.Success {
		o.setState(StateIdle)
		err := &api.PaymentDeclinedError{Status: payRes.Status, Message: payRes.Message}
		o.reporter.Report(report.Failure("Payment failed", err.Error(), 0, err.Error()))
		return Outcome{}, err
	}

	o.setState(StateSubmittingBooking)
	payment := models.PaymentInfo{
		TransactionID: payRes.TransactionID,
		Amount:        payRes.Amount,
		PaymentMethod: payRes.PaymentMethod,
		Status:        payRes.Status,
	}
	rec, err := o.api.CreateBooking(ctx, models.BookingRequest{
		UserID:    userID,
		StartTime: start.Format(time.RFC3339),
		StationID: p.Station.ID,
		CarID:     p.CarID,
		Duration:  p.DurationMin,
		Payment:   payment,
	}, uuid.NewString())
	if err != nil {
		o.setState(StateFailed)
		status := 0
		var herr *api.HTTPError
		if errors.As(err, &herr) {
			status = herr.Status
		}
		o.reporter.Report(report.Failure("Booking failed", Classify(err), status, err.Error()))
		return Outcome{}, err
	}

	o.setState(StateSucceeded)
	out := Outcome{
		Booking:      rec,
		Payment:      payment,
		EstimatedKWh: kwh,
		Price:        price,
		EndTime:      start.Add(time.Duration(p.DurationMin) * time.Minute),
	}
	o.reporter.Report(report.Success("Booking confirmed",
		fmt.Sprintf("Booking %d at %s, %s to %s, %s estimated, paid %.2f %s (tx %s, %s)",
			rec.ID, p.Station.Name,
			start.Format(time.RFC3339), out.EndTime.Format(time.RFC3339),
			FormatEnergy(kwh), payment.Amount, o.currency, payment.TransactionID, payment.Status)))
	return out, nil
}
