package reservations

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestInLocationKeepsCalendarDay(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatal(err)
	}
	got := inLocation(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), chicago)
	if got.Format("2006-01-02") != "2026-03-14" || got.Location() != chicago {
		t.Fatalf("got %v", got)
	}
	if got.Hour() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}
