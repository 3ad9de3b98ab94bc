package booking

import (
	"context"
	"time"

	"github.com/example/littlelemon/internal/domain/reservation"
)

// DefaultSimulatedDelay mirrors the round trip of a real reservation request.
const DefaultSimulatedDelay = time.Second

// Simulated is a stand-in backend: it waits Delay and then confirms.
type Simulated struct {
	Delay time.Duration
}

func (s Simulated) Reserve(ctx context.Context, _ reservation.Reservation) (reservation.Confirmation, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return reservation.Confirmation{}, ctx.Err()
		case <-t.C:
		}
	}
	return reservation.Confirmation{
		Code:      reservation.NewConfirmationCode(),
		CreatedAt: time.Now().UTC(),
	}, nil
}
