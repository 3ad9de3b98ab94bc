// Package reservations is the Postgres reservation backend: it stores confirmed
// bookings and lists upcoming ones for staff.
package reservations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/littlelemon/internal/db"
	"github.com/example/littlelemon/internal/domain/reservation"
)

type Repo struct {
	db  *db.DB
	loc *time.Location
}

// NewRepo returns a repo whose dates are interpreted in loc.
func NewRepo(d *db.DB, loc *time.Location) *Repo {
	if loc == nil {
		loc = time.Local
	}
	return &Repo{db: d, loc: loc}
}

// Reserve implements reservation.Backend.
func (r *Repo) Reserve(ctx context.Context, res reservation.Reservation) (reservation.Confirmation, error) {
	conf := reservation.Confirmation{Code: reservation.NewConfirmationCode()}
	err := r.db.QueryRow(ctx, `
INSERT INTO reservations(confirmation,first_name,last_name,email,phone,reservation_date,reservation_time,guests,occasion,special_requests)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING created_at`,
		conf.Code, res.FirstName, res.LastName, res.Email, res.Phone, res.Date, res.Time, res.Guests, string(res.Occasion), res.SpecialRequests,
	).Scan(&conf.CreatedAt)
	if err != nil {
		return reservation.Confirmation{}, fmt.Errorf("insert reservation: %w", db.WrapNotFound(err))
	}
	return conf, nil
}

// ListUpcoming implements reservation.Lister: reservations on or after from's date,
// soonest first.
func (r *Repo) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]reservation.Stored, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
SELECT id,confirmation,first_name,last_name,email,phone,reservation_date,reservation_time,guests,occasion,special_requests,created_at
FROM reservations
WHERE reservation_date >= $1
ORDER BY reservation_date, reservation_time, id
LIMIT $2`, from.In(r.loc).Format("2006-01-02"), limit)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var out []reservation.Stored
	for rows.Next() {
		var s reservation.Stored
		var date time.Time
		var occasion string
		if err := rows.Scan(
			&s.ID, &s.Confirmation, &s.FirstName, &s.LastName, &s.Email, &s.Phone, &date, &s.Time, &s.Guests, &occasion, &s.SpecialRequests, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.Date = inLocation(date, r.loc)
		s.Occasion = reservation.Occasion(occasion)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByConfirmation implements reservation.Lister.
func (r *Repo) GetByConfirmation(ctx context.Context, code string) (reservation.Stored, error) {
	var s reservation.Stored
	var date time.Time
	var occasion string
	err := r.db.QueryRow(ctx, `
SELECT id,confirmation,first_name,last_name,email,phone,reservation_date,reservation_time,guests,occasion,special_requests,created_at
FROM reservations
WHERE confirmation=$1`, strings.TrimSpace(code)).
		Scan(&s.ID, &s.Confirmation, &s.FirstName, &s.LastName, &s.Email, &s.Phone, &date, &s.Time, &s.Guests, &occasion, &s.SpecialRequests, &s.CreatedAt)
	if err != nil {
		return reservation.Stored{}, db.WrapNotFound(err)
	}
	s.Date = inLocation(date, r.loc)
	s.Occasion = reservation.Occasion(occasion)
	return s, nil
}

// DATE columns come back as UTC midnight; keep the calendar day, move it to loc.
func inLocation(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
