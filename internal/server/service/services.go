package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ChargerControl/ChargerControl-sub000/internal/server/config"
	"github.com/ChargerControl/ChargerControl-sub000/internal/server/repository"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/passhash"
)

type Repository interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (id int64, passwordHash string, err error)
	ListUsers(ctx context.Context) ([]models.User, error)

	CreateStation(ctx context.Context, s models.Station) (models.Station, error)
	UpdateStation(ctx context.Context, s models.Station) (models.Station, error)
	DeleteStation(ctx context.Context, id int64) error
	GetStation(ctx context.Context, id int64) (models.Station, error)
	ListStations(ctx context.Context) ([]models.Station, error)

	CreatePort(ctx context.Context, p models.ChargingPort) (models.ChargingPort, error)
	DeletePort(ctx context.Context, id int64) error
	PortsByStation(ctx context.Context, stationID int64) ([]models.ChargingPort, error)
	PortsByStatus(ctx context.Context, status models.PortStatus) ([]models.ChargingPort, error)
	StationEnergyStats(ctx context.Context, stationID int64) (models.StationEnergyStats, error)

	CreateCar(ctx context.Context, c models.Car) (models.Car, error)
	CarsByUser(ctx context.Context, userID int64) ([]models.Car, error)
	DeleteCar(ctx context.Context, id int64) error

	CreateBooking(ctx context.Context, b models.Booking, idempotencyKey string) (models.Booking, error)
	BookingsByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

type Services struct {
	Auth     *AuthService
	Stations *StationsService
	Bookings *BookingsService
	Payment  *PaymentService
}

func NewServices(repo Repository, cfg config.Config) *Services {
	return &Services{
		Auth:     &AuthService{repo: repo, jwtSecret: []byte(cfg.JWTSecret)},
		Stations: &StationsService{repo: repo},
		Bookings: &BookingsService{repo: repo},
		Payment:  &PaymentService{},
	}
}

// AuthService implements registration, password verification and JWT issuance.
type AuthService struct {
	repo      Repository
	jwtSecret []byte
}

func (a *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, errors.New("email and password required")
	}
	phc, err := passhash.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return a.repo.CreateUser(ctx, name, email, phc)
}

func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	id, hash, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}
	ok, err := passhash.VerifyPassword(hash, password)
	if err != nil || !ok {
		return "", errors.New("invalid credentials")
	}
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(id, 10),
		"email": email,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.jwtSecret)
}

func (a *AuthService) ParseToken(_ context.Context, token string) (int64, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, errors.New("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid token subject")
	}
	return id, nil
}

func (a *AuthService) Users(ctx context.Context) ([]models.User, error) {
	return a.repo.ListUsers(ctx)
}

// StationsService covers stations, their ports and cars.
type StationsService struct {
	repo Repository
}

func (s *StationsService) Create(ctx context.Context, st models.Station) (models.Station, error) {
	if st.Name == "" {
		return models.Station{}, errors.New("name required")
	}
	if st.PowerKW <= 0 {
		return models.Station{}, errors.New("power must be positive")
	}
	return s.repo.CreateStation(ctx, st)
}

func (s *StationsService) Update(ctx context.Context, st models.Station) (models.Station, error) {
	if st.ID == 0 {
		return models.Station{}, errors.New("id required")
	}
	return s.repo.UpdateStation(ctx, st)
}

func (s *StationsService) Delete(ctx context.Context, id int64) error { return s.repo.DeleteStation(ctx, id) }
func (s *StationsService) List(ctx context.Context) ([]models.Station, error) {
	return s.repo.ListStations(ctx)
}

func (s *StationsService) CreatePort(ctx context.Context, p models.ChargingPort) (models.ChargingPort, error) {
	if p.StationID == 0 {
		return models.ChargingPort{}, errors.New("stationId required")
	}
	if p.Status == "" {
		p.Status = models.PortAvailable
	}
	return s.repo.CreatePort(ctx, p)
}

func (s *StationsService) DeletePort(ctx context.Context, id int64) error { return s.repo.DeletePort(ctx, id) }
func (s *StationsService) PortsByStation(ctx context.Context, stationID int64) ([]models.ChargingPort, error) {
	return s.repo.PortsByStation(ctx, stationID)
}
func (s *StationsService) PortsByStatus(ctx context.Context, status models.PortStatus) ([]models.ChargingPort, error) {
	return s.repo.PortsByStatus(ctx, status)
}
func (s *StationsService) EnergyStats(ctx context.Context, stationID int64) (models.StationEnergyStats, error) {
	return s.repo.StationEnergyStats(ctx, stationID)
}

func (s *StationsService) CreateCar(ctx context.Context, c models.Car) (models.Car, error) {
	if c.UserID == 0 || c.Brand == "" || c.Plate == "" {
		return models.Car{}, errors.New("userId, brand and plate required")
	}
	return s.repo.CreateCar(ctx, c)
}
func (s *StationsService) CarsByUser(ctx context.Context, userID int64) ([]models.Car, error) {
	return s.repo.CarsByUser(ctx, userID)
}
func (s *StationsService) DeleteCar(ctx context.Context, id int64) error { return s.repo.DeleteCar(ctx, id) }

// BookingsService enforces payment-first ordering server-side: a booking
// without a payment authorization is rejected outright.
type BookingsService struct {
	repo Repository
}

func (s *BookingsService) Create(ctx context.Context, req models.BookingRequest, idempotencyKey string) (models.Booking, error) {
	if req.UserID == 0 || req.StationID == 0 || req.CarID == 0 {
		return models.Booking{}, errors.New("userId, stationId and carId required")
	}
	if req.Duration <= 0 {
		return models.Booking{}, errors.New("duration must be positive")
	}
	if req.Payment.TransactionID == "" {
		return models.Booking{}, errors.New("paymentInfo is required")
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return models.Booking{}, errors.New("startTime must be ISO-8601")
	}
	if _, err := s.repo.GetStation(ctx, req.StationID); err != nil {
		return models.Booking{}, err
	}
	pay := req.Payment
	return s.repo.CreateBooking(ctx, models.Booking{
		UserID:    req.UserID,
		StationID: req.StationID,
		CarID:     req.CarID,
		StartTime: start,
		Duration:  req.Duration,
		Payment:   &pay,
	}, idempotencyKey)
}

func (s *BookingsService) ByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	return s.repo.BookingsByUser(ctx, userID)
}

func (s *BookingsService) Cancel(ctx context.Context, id int64) error {
	return s.repo.DeleteBooking(ctx, id)
}

// PaymentService simulates a card processor for local development: it
// authorizes everything except the designated decline card, and never stores
// card data. The PAN is masked in the response.
type PaymentService struct{}

// DeclineCardSuffix triggers a simulated decline.
const DeclineCardSuffix = "0002"

func (p *PaymentService) Process(_ context.Context, req models.PaymentRequest) (models.PaymentResponse, error) {
	digits := strings.ReplaceAll(req.CardNumber, " ", "")
	if req.Amount <= 0 {
		return models.PaymentResponse{Success: false, Status: "REJECTED", Message: "amount must be positive"}, nil
	}
	if len(digits) < 12 || req.CVV == "" {
		return models.PaymentResponse{Success: false, Status: "REJECTED", Message: "invalid card data"}, nil
	}
	if strings.HasSuffix(digits, DeclineCardSuffix) {
		return models.PaymentResponse{Success: false, Status: "DECLINED", Message: "card declined"}, nil
	}
	return models.PaymentResponse{
		Success:       true,
		TransactionID: uuid.NewString(),
		Amount:        req.Amount,
		Status:        "CAPTURED",
		PaymentMethod: "card ****" + digits[len(digits)-4:],
	}, nil
}

// IsNotFound reports whether err is the repository's not-found sentinel.
func IsNotFound(err error) bool { return errors.Is(err, repository.ErrNotFound) }

// IsNoPort reports whether err is the no-port-available sentinel.
func IsNoPort(err error) bool { return errors.Is(err, repository.ErrNoPortAvailable) }

// IsDuplicate reports whether err is the uniqueness sentinel.
func IsDuplicate(err error) bool { return errors.Is(err, repository.ErrDuplicate) }
