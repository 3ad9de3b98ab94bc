package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/example/littlelemon/internal/auth"
	"github.com/example/littlelemon/internal/booking"
	"github.com/example/littlelemon/internal/config"
	"github.com/example/littlelemon/internal/metrics"
	"github.com/example/littlelemon/internal/scheduler"
	"github.com/example/littlelemon/internal/site"
	"github.com/example/littlelemon/internal/telemetry"
	"github.com/example/littlelemon/internal/web"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve the site and the reservation form",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			shutdownTracing, err := telemetry.Setup(ctx, "littlelemon", Version, cfg.TracingEndpoint)
			if err != nil {
				return fmt.Errorf("tracing: %w", err)
			}
			defer func() {
				flushCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
				defer done()
				if err := shutdownTracing(flushCtx); err != nil {
					logger.Warn("flush traces", "error", err)
				}
			}()

			be, err := openBackend(ctx, cfg, logger, migrateUp)
			if err != nil {
				return err
			}
			defer be.close()
			logger.Info("reservation backend ready", "backend", string(cfg.Backend), "timezone", cfg.Timezone)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := metrics.New(
				metrics.WithRegistry(reg),
				metrics.WithNamespace(cfg.MetricsNamespace),
				metrics.WithBuckets(cfg.MetricsBuckets),
			)

			registry := booking.NewRegistry(func() *booking.Controller {
				return booking.New(booking.Options{
					Backend:  be,
					Location: cfg.Location(),
					Observer: m,
					Logger:   logger.With("component", "booking"),
				})
			}, cfg.SessionIdleTTL, nil)

			// sweeper
			s := &scheduler.Scheduler{
				Registry: registry,
				Interval: cfg.SweepInterval,
				Logger:   logger.With("component", "scheduler"),
				OnSweep:  m.SetVisitors,
			}
			go func() { _ = s.Run(ctx) }()

			// web
			ws := &web.Server{
				Registry: registry,
				Sessions: web.NewSessions(cfg.CookieHashKey, cfg.CookieBlockKey),
				Content:  site.Default(),
				Logger:   logger.With("component", "web"),
				BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
				Metrics:  m,
				Gatherer: reg,
				Lister:   be.lister,
				Admin:    auth.Admin{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordBcrypt},
				Location: cfg.Location(),
			}
			if be.lister != nil && !ws.Admin.Enabled() {
				logger.Info("admin listing disabled; set ADMIN_PASSWORD_BCRYPT to enable")
			}
			h, err := ws.Routes()
			if err != nil {
				return err
			}
			return web.Start(ctx, cfg.ListenAddr, h, logger)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup (postgres backend)")
	return cmd
}
