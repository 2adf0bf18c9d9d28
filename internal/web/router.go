package web

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/onboarding"
	webembed "github.com/erazemk/devicetrack/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, onboard *onboarding.Service, logger *zap.Logger) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	templates, err := LoadTemplates(logger)
	if err != nil {
		return nil, err
	}

	if onboard == nil {
		onboard = onboarding.NewService(db, "", logger)
	}

	s := &Server{
		DB:         db,
		Templates:  templates,
		Onboarding: onboard,
		Logger:     logger,
	}

	r := chi.NewRouter()

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	r.Get("/", s.Dashboard)
	r.Get("/schools", s.SchoolsPage)
	r.Get("/schools/new", s.SchoolNewPage)
	r.Post("/schools/new", s.SchoolCreateSubmit)

	return r, nil
}
