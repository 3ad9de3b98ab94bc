// Package web serves the restaurant page, the reservation form endpoints and the
// staff listing.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/littlelemon/internal/auth"
	"github.com/example/littlelemon/internal/booking"
	"github.com/example/littlelemon/internal/domain/reservation"
	"github.com/example/littlelemon/internal/metrics"
	"github.com/example/littlelemon/internal/site"
)

//go:embed templates/*.html static
var assets embed.FS

type Server struct {
	Registry *booking.Registry
	Sessions *Sessions
	Content  site.Content
	Logger   *slog.Logger
	BaseURL  string

	// Optional.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
	Lister   reservation.Lister
	Admin    auth.Admin
	Location *time.Location
	Now      func() time.Time

	options booking.FormOptions
	pages   map[string]*template.Template
}

type pageData struct {
	Title   string
	BaseURL string
	Site    site.Content
	Booking booking.View
	Options booking.FormOptions
	Year    int

	Upcoming []reservation.Stored
	Detail   *reservation.Stored
	From     string
	Staff    string
}

// Routes parses the templates and builds the router.
func (s *Server) Routes() (http.Handler, error) {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.Location == nil {
		s.Location = time.Local
	}
	s.options = booking.NewFormOptions()

	pages, err := parsePages("templates/home.html", "templates/admin.html")
	if err != nil {
		return nil, err
	}
	s.pages = pages

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", s.handleHome)
	r.Post("/reservations", s.handleFormPost)

	r.Route("/api/reservation", func(r chi.Router) {
		r.Get("/", s.handleAPISnapshot)
		r.Post("/fields", s.handleAPISetField)
		r.Post("/submit", s.handleAPISubmit)
		r.Get("/options", s.handleAPIOptions)
	})

	if s.Lister != nil && s.Admin.Enabled() {
		r.Route("/admin/reservations", func(r chi.Router) {
			r.Use(s.Admin.RequireAuth)
			r.Get("/", s.handleAdminReservations)
			r.Get("/{code}", s.handleAdminReservation)
		})
	}

	return r, nil
}

func parsePages(names ...string) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"occasionLabel": func(o reservation.Occasion) string { return o.Label() },
		"timeLabel":     reservation.TimeLabel,
		"formatDate":    func(t time.Time) string { return t.Format("Mon, Jan 2 2006") },
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.New("base").Funcs(funcs).ParseFS(assets, "templates/base.html", "templates/booking.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Server) render(w http.ResponseWriter, name string, status int, data pageData) {
	t, ok := s.pages[name]
	if !ok {
		http.Error(w, "template not found: "+name, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		s.Logger.Error("render", "template", name, "error", err)
	}
}

// viewController is controller for read-only requests: it never issues a cookie or
// registers state, so anonymous page views cost nothing after the response.
func (s *Server) viewController(r *http.Request) *booking.Controller {
	if id, ok := s.Sessions.read(r); ok {
		if c, ok := s.Registry.Lookup(id); ok {
			return c
		}
	}
	return s.Registry.Blank()
}

// controller resolves the visitor's form controller, issuing the cookie if needed.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) (*booking.Controller, error) {
	id, err := s.Sessions.Visitor(w, r)
	if err != nil {
		return nil, err
	}
	return s.Registry.Get(id), nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func Start(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
