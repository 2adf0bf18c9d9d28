package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/onboarding"
	webembed "github.com/erazemk/devicetrack/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
	logger    *zap.Logger
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"conditionName": func(c string) string {
			switch c {
			case model.ConditionWorking:
				return "Working"
			case model.ConditionNotWorking:
				return "Not working"
			case model.ConditionDamaged:
				return "Damaged"
			case model.ConditionDiscarded:
				return "Discarded"
			default:
				return c
			}
		},
		"locationName": func(l string) string {
			switch l {
			case model.LocationInOffice:
				return "In office"
			case model.LocationAtSchool:
				return "At school"
			case model.LocationDiscarded:
				return "Discarded"
			default:
				return l
			}
		},
		"categories": func() []string { return model.Categories },
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates(logger *zap.Logger) (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"dashboard.html",
		"schools.html",
		"school_new.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template), logger: logger}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		ts.logger.Error("failed to render template", zap.String("template", name), zap.Error(err))
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB         *sql.DB
	Templates  *Templates
	Onboarding *onboarding.Service
	Logger     *zap.Logger
}
