package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ChargerControl/ChargerControl-sub000/internal/server/repository"
	"github.com/ChargerControl/ChargerControl-sub000/internal/shared/models"
)

type Repository struct {
	db *sql.DB
}

func New(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL DEFAULT '',
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS stations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			power_kw REAL NOT NULL,
			price_per_kwh REAL NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS charging_ports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			station_id INTEGER NOT NULL,
			connector TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			FOREIGN KEY(station_id) REFERENCES stations(id)
		);
		CREATE TABLE IF NOT EXISTS cars (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			brand TEXT NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			plate TEXT NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id)
		);
		CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			station_id INTEGER NOT NULL,
			car_id INTEGER NOT NULL,
			start_unix INTEGER NOT NULL,
			duration_min INTEGER NOT NULL,
			status TEXT NOT NULL,
			tx_id TEXT NOT NULL,
			tx_amount REAL NOT NULL,
			tx_method TEXT NOT NULL DEFAULT '',
			tx_status TEXT NOT NULL DEFAULT '',
			idempotency_key TEXT UNIQUE,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id),
			FOREIGN KEY(station_id) REFERENCES stations(id)
		);
	`); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

// Users

func (r *Repository) CreateUser(ctx context.Context, name, email, passwordHash string) (models.User, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `INSERT INTO users(name,email,password_hash,created_at) VALUES(?,?,?,?)`, name, email, passwordHash, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return models.User{}, repository.ErrDuplicate
		}
		return models.User{}, err
	}
	id, _ := res.LastInsertId()
	return models.User{ID: id, Name: name, Email: email, CreatedAt: now}, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (id int64, passwordHash string, err error) {
	row := r.db.QueryRowContext(ctx, `SELECT id,password_hash FROM users WHERE email = ?`, email)
	if err = row.Scan(&id, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", repository.ErrNotFound
		}
		return 0, "", err
	}
	return
}

func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id,name,email,created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Stations

func (r *Repository) CreateStation(ctx context.Context, s models.Station) (models.Station, error) {
	s.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `INSERT INTO stations(name,location,power_kw,price_per_kwh,created_at) VALUES(?,?,?,?,?)`,
		s.Name, s.Location, s.PowerKW, s.PricePerKWh, s.CreatedAt)
	if err != nil {
		return models.Station{}, err
	}
	s.ID, _ = res.LastInsertId()
	return s, nil
}

func (r *Repository) UpdateStation(ctx context.Context, s models.Station) (models.Station, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE stations SET name=?, location=?, power_kw=?, price_per_kwh=? WHERE id=?`,
		s.Name, s.Location, s.PowerKW, s.PricePerKWh, s.ID)
	if err != nil {
		return models.Station{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Station{}, repository.ErrNotFound
	}
	return s, nil
}

func (r *Repository) DeleteStation(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Repository) GetStation(ctx context.Context, id int64) (models.Station, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id,name,location,power_kw,price_per_kwh,created_at FROM stations WHERE id=?`, id)
	var s models.Station
	if err := row.Scan(&s.ID, &s.Name, &s.Location, &s.PowerKW, &s.PricePerKWh, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Station{}, repository.ErrNotFound
		}
		return models.Station{}, err
	}
	return s, nil
}

func (r *Repository) ListStations(ctx context.Context) ([]models.Station, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id,name,location,power_kw,price_per_kwh,created_at FROM stations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Station
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.PowerKW, &s.PricePerKWh, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Charging ports

func (r *Repository) CreatePort(ctx context.Context, p models.ChargingPort) (models.ChargingPort, error) {
	if _, err := r.GetStation(ctx, p.StationID); err != nil {
		return models.ChargingPort{}, err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO charging_ports(station_id,connector,status) VALUES(?,?,?)`,
		p.StationID, p.Connector, string(p.Status))
	if err != nil {
		return models.ChargingPort{}, err
	}
	p.ID, _ = res.LastInsertId()
	return p, nil
}

func (r *Repository) DeletePort(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM charging_ports WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Repository) portsWhere(ctx context.Context, where string, arg any) ([]models.ChargingPort, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id,station_id,connector,status FROM charging_ports WHERE `+where+` ORDER BY id`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.ChargingPort
	for rows.Next() {
		var p models.ChargingPort
		var status string
		if err := rows.Scan(&p.ID, &p.StationID, &p.Connector, &status); err != nil {
			return nil, err
		}
		p.Status = models.PortStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) PortsByStation(ctx context.Context, stationID int64) ([]models.ChargingPort, error) {
	return r.portsWhere(ctx, "station_id = ?", stationID)
}

func (r *Repository) PortsByStatus(ctx context.Context, status models.PortStatus) ([]models.ChargingPort, error) {
	return r.portsWhere(ctx, "status = ?", string(status))
}

func (r *Repository) countAvailablePorts(ctx context.Context, stationID int64) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM charging_ports WHERE station_id=? AND status=?`,
		stationID, string(models.PortAvailable))
	var n int64
	err := row.Scan(&n)
	return n, err
}

// StationEnergyStats aggregates delivered-energy figures from the station's
// non-cancelled bookings at the station's rated power.
func (r *Repository) StationEnergyStats(ctx context.Context, stationID int64) (models.StationEnergyStats, error) {
	station, err := r.GetStation(ctx, stationID)
	if err != nil {
		return models.StationEnergyStats{}, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(duration_min),0) FROM bookings WHERE station_id=? AND status != 'CANCELLED'`, stationID)
	var count, minutes int64
	if err := row.Scan(&count, &minutes); err != nil {
		return models.StationEnergyStats{}, err
	}
	return models.StationEnergyStats{
		StationID: stationID,
		TotalKWh:  station.PowerKW * float64(minutes) / 60,
		Bookings:  count,
	}, nil
}

// Cars

func (r *Repository) CreateCar(ctx context.Context, c models.Car) (models.Car, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO cars(user_id,brand,model,plate) VALUES(?,?,?,?)`,
		c.UserID, c.Brand, c.Model, c.Plate)
	if err != nil {
		return models.Car{}, err
	}
	c.ID, _ = res.LastInsertId()
	return c, nil
}

func (r *Repository) CarsByUser(ctx context.Context, userID int64) ([]models.Car, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id,user_id,brand,model,plate FROM cars WHERE user_id=? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Car
	for rows.Next() {
		var c models.Car
		if err := rows.Scan(&c.ID, &c.UserID, &c.Brand, &c.Model, &c.Plate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteCar(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Bookings

// CreateBooking stores a booking after the availability check: the number of
// overlapping non-cancelled bookings at the station must stay below the
// station's available port count. A repeated idempotency key replays the
// originally stored booking instead of creating a second one.
func (r *Repository) CreateBooking(ctx context.Context, b models.Booking, idempotencyKey string) (models.Booking, error) {
	if idempotencyKey != "" {
		existing, err := r.bookingByIdempotencyKey(ctx, idempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return models.Booking{}, err
		}
	}

	ports, err := r.countAvailablePorts(ctx, b.StationID)
	if err != nil {
		return models.Booking{}, err
	}
	start := b.StartTime.UTC().Unix()
	end := start + int64(b.Duration)*60
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE station_id = ? AND status != 'CANCELLED'
		  AND start_unix < ? AND ? < start_unix + duration_min*60`,
		b.StationID, end, start)
	var overlapping int64
	if err := row.Scan(&overlapping); err != nil {
		return models.Booking{}, err
	}
	if overlapping >= ports {
		return models.Booking{}, repository.ErrNoPortAvailable
	}

	b.Status = "CONFIRMED"
	b.CreatedAt = time.Now().UTC()
	var key any
	if idempotencyKey != "" {
		key = idempotencyKey
	}
	var pay models.PaymentInfo
	if b.Payment != nil {
		pay = *b.Payment
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings(user_id,station_id,car_id,start_unix,duration_min,status,tx_id,tx_amount,tx_method,tx_status,idempotency_key,created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.UserID, b.StationID, b.CarID, start, b.Duration, b.Status,
		pay.TransactionID, pay.Amount, pay.PaymentMethod, pay.Status, key, b.CreatedAt)
	if err != nil {
		return models.Booking{}, err
	}
	b.ID, _ = res.LastInsertId()
	b.StartTime = time.Unix(start, 0).UTC()
	return b, nil
}

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	var pay models.PaymentInfo
	var startUnix int64
	if err := row.Scan(&b.ID, &b.UserID, &b.StationID, &b.CarID, &startUnix, &b.Duration, &b.Status,
		&pay.TransactionID, &pay.Amount, &pay.PaymentMethod, &pay.Status, &b.CreatedAt); err != nil {
		return models.Booking{}, err
	}
	b.StartTime = time.Unix(startUnix, 0).UTC()
	if pay.TransactionID != "" {
		b.Payment = &pay
	}
	return b, nil
}

const bookingCols = `id,user_id,station_id,car_id,start_unix,duration_min,status,tx_id,tx_amount,tx_method,tx_status,created_at`

func (r *Repository) bookingByIdempotencyKey(ctx context.Context, key string) (models.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingCols+` FROM bookings WHERE idempotency_key=?`, key)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, repository.ErrNotFound
	}
	return b, err
}

func (r *Repository) BookingsByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookingCols+` FROM bookings WHERE user_id=? ORDER BY start_unix`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteBooking(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
