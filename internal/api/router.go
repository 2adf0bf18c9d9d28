package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/metrics"
	"github.com/erazemk/devicetrack/internal/onboarding"
	"github.com/erazemk/devicetrack/internal/photo"
)

// Options wires the API handlers to their dependencies.
type Options struct {
	DB         *sql.DB
	Actor      string
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Onboarding *onboarding.Service
	Photos     *photo.Normalizer
	// RateLimit caps API requests per client IP per minute. 0 disables it.
	RateLimit int
}

// NewRouter creates the API router with all endpoints registered under
// /api.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Mount("/api", Routes(opts))
	return r
}

// Routes returns the API endpoints relative to the /api prefix.
func Routes(opts Options) chi.Router {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	onboard := opts.Onboarding
	if onboard == nil {
		onboard = onboarding.NewService(opts.DB, opts.Actor, logger)
		if opts.Metrics != nil {
			onboard.Recorder = opts.Metrics
		}
	}
	photos := photo.New()
	if opts.Photos != nil {
		photos = *opts.Photos
	}

	schools := &SchoolsHandler{DB: opts.DB, Onboarding: onboard, Logger: logger}
	items := &ItemsHandler{DB: opts.DB, Actor: onboard.Actor, Logger: logger, Metrics: opts.Metrics}
	issues := &IssuesHandler{DB: opts.DB, Logger: logger, Photos: photos}
	reports := &ReportsHandler{DB: opts.DB, Logger: logger}

	r := chi.NewRouter()
	if opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
	}

	r.Route("/schools", func(r chi.Router) {
		r.Get("/", schools.List)
		r.Post("/", schools.Create)
		r.Get("/{id}", schools.Get)
		r.Put("/{id}", schools.Update)
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", items.List)
		r.Post("/", items.Create)
		r.Post("/bulk-update", items.BulkUpdate)
		r.Get("/{id}", items.Get)
		r.Put("/{id}", items.Update)
		r.Delete("/{id}", items.Delete)
	})

	r.Route("/issues", func(r chi.Router) {
		r.Get("/", issues.List)
		r.Post("/", issues.Create)
		r.Put("/{id}/photo", issues.UploadPhoto)
		r.Get("/{id}/photo", issues.GetPhoto)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/overview", reports.Overview)
		r.Get("/school-health", reports.SchoolHealth)
		r.Get("/categories", reports.Categories)
		r.Get("/school-problems", reports.SchoolProblems)
		r.Get("/maintenance", reports.Maintenance)
		r.Get("/low-stock", reports.LowStock)
	})

	return r
}
