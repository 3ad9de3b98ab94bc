package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/littlelemon/internal/booking"
	"github.com/example/littlelemon/internal/config"
	"github.com/example/littlelemon/internal/db"
	"github.com/example/littlelemon/internal/domain/reservation"
	"github.com/example/littlelemon/internal/migrate"
	"github.com/example/littlelemon/internal/remote"
	"github.com/example/littlelemon/internal/reservations"
	"github.com/example/littlelemon/internal/storage/sqlite"
)

// backend is the configured reservation backend. lister is nil for backends that
// cannot list (simulated, remote).
type backend struct {
	reservation.Backend
	lister reservation.Lister
	close  func()
}

func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger, migrateUp bool) (*backend, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		d, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := d.Ping(ctx); err != nil {
			d.Close()
			return nil, fmt.Errorf("db ping: %w", err)
		}
		if migrateUp {
			if _, err := migrate.Up(ctx, d, logger); err != nil {
				d.Close()
				return nil, err
			}
		}
		repo := reservations.NewRepo(d, cfg.Location())
		return &backend{Backend: repo, lister: repo, close: d.Close}, nil

	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, cfg.Location())
		if err != nil {
			return nil, err
		}
		return &backend{Backend: store, lister: store, close: func() { _ = store.Close() }}, nil

	case config.BackendRemote:
		c, err := remote.New(remote.Options{
			Endpoint: cfg.RemoteURL,
			APIKey:   cfg.RemoteAPIKey,
			Timeout:  cfg.RemoteTimeout,
		})
		if err != nil {
			return nil, err
		}
		return &backend{Backend: c, close: func() {}}, nil

	default:
		return &backend{Backend: booking.Simulated{Delay: cfg.SimulatedDelay}, close: func() {}}, nil
	}
}
