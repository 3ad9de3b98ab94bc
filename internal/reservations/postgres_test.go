package reservations

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/example/littlelemon/internal/db"
	"github.com/example/littlelemon/internal/domain/reservation"
	"github.com/example/littlelemon/internal/internaltypes"
	"github.com/example/littlelemon/internal/migrate"
)

// openTestDB connects to DATABASE_URL and applies migrations; without it the
// Postgres tests are skipped.
func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	d, err := db.Open(ctx, url)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(d.Close)
	if err := d.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := migrate.Up(ctx, d, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	d := openTestDB(t)
	applied, err := migrate.Up(context.Background(), d, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 0 {
		t.Fatalf("second run applied %v", applied)
	}
}

func TestRepoReserveListAndGet(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	repo := NewRepo(d, time.UTC)

	// Far enough ahead that other rows in a shared database sort before it.
	day := time.Date(2099, time.June, 1, 0, 0, 0, 0, time.UTC)
	res := reservation.Reservation{
		FirstName:       "Tilly",
		LastName:        "Lemon",
		Email:           "tilly@example.com",
		Phone:           "(312) 555-0142",
		Date:            day,
		Time:            "19:30",
		Guests:          2,
		Occasion:        reservation.DateNight,
		SpecialRequests: "Window seat",
	}
	conf, err := repo.Reserve(ctx, res)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	t.Cleanup(func() {
		_ = d.Exec(context.Background(), `DELETE FROM reservations WHERE confirmation=$1`, conf.Code)
	})
	if conf.CreatedAt.IsZero() {
		t.Fatal("created_at not returned")
	}

	got, err := repo.GetByConfirmation(ctx, conf.Code)
	if err != nil {
		t.Fatalf("GetByConfirmation: %v", err)
	}
	if got.FirstName != "Tilly" || got.Occasion != reservation.DateNight || got.Guests != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Date.Format("2006-01-02") != "2099-06-01" || got.SpecialRequests != "Window seat" {
		t.Fatalf("got date %v requests %q", got.Date, got.SpecialRequests)
	}

	list, err := repo.ListUpcoming(ctx, day, 50)
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	var found bool
	for _, s := range list {
		if s.Date.Before(day) {
			t.Fatalf("listed a reservation before %v: %+v", day, s)
		}
		if s.Confirmation == conf.Code {
			found = true
		}
	}
	if !found {
		t.Fatalf("%s not listed", conf.Code)
	}

	if _, err := repo.GetByConfirmation(ctx, "LL-NOPE"); !errors.Is(err, internaltypes.ErrNotFound) {
		t.Fatalf("unknown code err = %v", err)
	}
}
