package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/littlelemon/internal/domain/reservation"
	"github.com/example/littlelemon/internal/internaltypes"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("", time.UTC); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestReserveListRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC) }

	later := sample(day(20), "19:00")
	earlier := sample(day(15), "12:30")
	past := sample(day(1), "11:00")

	var codes []string
	for _, r := range []reservation.Reservation{later, earlier, past} {
		conf, err := store.Reserve(ctx, r)
		if err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if !strings.HasPrefix(conf.Code, "LL-") || conf.CreatedAt.IsZero() {
			t.Fatalf("unexpected confirmation %+v", conf)
		}
		codes = append(codes, conf.Code)
	}

	got, err := store.ListUpcoming(ctx, day(14).Add(15*time.Hour), 10)
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Confirmation != codes[1] || got[1].Confirmation != codes[0] {
		t.Fatalf("order = %s, %s", got[0].Confirmation, got[1].Confirmation)
	}
	first := got[0]
	if !first.Date.Equal(day(15)) || first.Time != "12:30" || first.Guests != 4 {
		t.Fatalf("unexpected row %+v", first)
	}
	if first.Occasion != reservation.Anniversary || first.SpecialRequests != "Window seat" {
		t.Fatalf("unexpected row %+v", first)
	}

	one, err := store.GetByConfirmation(ctx, codes[2])
	if err != nil {
		t.Fatalf("get by confirmation: %v", err)
	}
	if !one.Date.Equal(day(1)) {
		t.Fatalf("date = %v", one.Date)
	}
}

func TestGetByConfirmationNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetByConfirmation(context.Background(), "LL-NOPE")
	if !errors.Is(err, internaltypes.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReserveHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Reserve(ctx, sample(time.Now(), "18:00")); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reservations.db")
	store, err := Open(path, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Reserve(context.Background(), sample(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), "18:00")); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = Open(path, time.UTC)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	got, err := store.ListUpcoming(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}

func sample(date time.Time, at string) reservation.Reservation {
	return reservation.Reservation{
		FirstName:       "Tilly",
		LastName:        "Lemon",
		Email:           "tilly@example.com",
		Phone:           "(312) 555-0142",
		Date:            date,
		Time:            at,
		Guests:          4,
		Occasion:        reservation.Anniversary,
		SpecialRequests: "Window seat",
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "reservations.db"), time.UTC)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
