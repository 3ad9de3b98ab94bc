// Package sqlite provides a SQLite-backed reservation backend for single-node
// deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/example/littlelemon/internal/domain/reservation"
	"github.com/example/littlelemon/internal/internaltypes"
	"github.com/example/littlelemon/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const dateLayout = "2006-01-02"

// Store persists reservations in SQLite.
type Store struct {
	sqlDB *sql.DB
	loc   *time.Location
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite reservation store and applies embedded migrations. Dates
// are read back in loc.
func Open(path string, loc *time.Location) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if loc == nil {
		loc = time.Local
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, loc: loc, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Reserve implements reservation.Backend. A confirmation code collision is
// retried once with a fresh code.
func (s *Store) Reserve(ctx context.Context, r reservation.Reservation) (reservation.Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return reservation.Confirmation{}, err
	}
	if s == nil || s.sqlDB == nil {
		return reservation.Confirmation{}, fmt.Errorf("storage is not configured")
	}
	if r.Guests <= 0 {
		return reservation.Confirmation{}, fmt.Errorf("guests must be greater than zero")
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		conf := reservation.Confirmation{
			Code:      reservation.NewConfirmationCode(),
			CreatedAt: s.now().UTC(),
		}
		_, err := s.sqlDB.ExecContext(
			ctx,
			`INSERT INTO reservations (
			   confirmation,
			   first_name,
			   last_name,
			   email,
			   phone,
			   reservation_date,
			   reservation_time,
			   guests,
			   occasion,
			   special_requests,
			   created_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			conf.Code,
			r.FirstName,
			r.LastName,
			r.Email,
			r.Phone,
			r.Date.Format(dateLayout),
			r.Time,
			r.Guests,
			string(r.Occasion),
			r.SpecialRequests,
			toMillis(conf.CreatedAt),
		)
		if err == nil {
			return conf, nil
		}
		if !isUniqueViolation(err) {
			return reservation.Confirmation{}, fmt.Errorf("insert reservation: %w", err)
		}
		lastErr = err
	}
	return reservation.Confirmation{}, fmt.Errorf("insert reservation: %w", lastErr)
}

const selectColumns = `id, confirmation, first_name, last_name, email, phone,
       reservation_date, reservation_time, guests, occasion, special_requests, created_at`

// ListUpcoming implements reservation.Lister.
func (s *Store) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]reservation.Stored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+selectColumns+`
		 FROM reservations
		 WHERE reservation_date >= ?
		 ORDER BY reservation_date, reservation_time, id
		 LIMIT ?`,
		from.In(s.loc).Format(dateLayout),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var out []reservation.Stored
	for rows.Next() {
		stored, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	return out, nil
}

// GetByConfirmation returns internaltypes.ErrNotFound for unknown codes.
func (s *Store) GetByConfirmation(ctx context.Context, code string) (reservation.Stored, error) {
	if err := ctx.Err(); err != nil {
		return reservation.Stored{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM reservations WHERE confirmation = ?`, strings.TrimSpace(code))
	stored, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return reservation.Stored{}, internaltypes.ErrNotFound
	}
	return stored, err
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scan(row scanner) (reservation.Stored, error) {
	var (
		st        reservation.Stored
		date      string
		occasion  string
		createdAt int64
	)
	if err := row.Scan(
		&st.ID, &st.Confirmation, &st.FirstName, &st.LastName, &st.Email, &st.Phone,
		&date, &st.Time, &st.Guests, &occasion, &st.SpecialRequests, &createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reservation.Stored{}, err
		}
		return reservation.Stored{}, fmt.Errorf("scan reservation: %w", err)
	}
	d, err := time.ParseInLocation(dateLayout, date, s.loc)
	if err != nil {
		return reservation.Stored{}, fmt.Errorf("parse reservation date %q: %w", date, err)
	}
	st.Date = d
	st.Occasion = reservation.Occasion(occasion)
	st.CreatedAt = fromMillis(createdAt)
	return st, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// applyMigrations runs each embedded .sql file at most once.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var count int
		if err := sqlDB.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE name = ?`, file).Scan(&count); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if count > 0 {
			continue
		}
		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := sqlDB.BeginTx(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`, file, time.Now().UTC().UnixMilli()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

var (
	_ reservation.Backend = (*Store)(nil)
	_ reservation.Lister  = (*Store)(nil)
)
