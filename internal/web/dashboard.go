package web

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/report"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := report.LoadOverview(r.Context(), s.DB)
	if err != nil {
		s.Logger.Error("failed to load overview for dashboard", zap.Error(err))
	}

	health, err := report.LoadSchoolHealth(r.Context(), s.DB, report.HealthOptions{
		Sort:         report.SortHealth,
		OnlyProblems: true,
	})
	if err != nil {
		s.Logger.Error("failed to load school health for dashboard", zap.Error(err))
	}

	maintenance, err := report.LoadMaintenance(r.Context(), s.DB)
	if err != nil {
		s.Logger.Error("failed to load maintenance for dashboard", zap.Error(err))
	}

	categories, err := report.LoadCategoryDefects(r.Context(), s.DB)
	if err != nil {
		s.Logger.Error("failed to load category defects for dashboard", zap.Error(err))
	}

	// Limit problem schools to 10.
	problems := health.Schools
	if len(problems) > 10 {
		problems = problems[:10]
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Overview    report.Overview
		Health      report.HealthReport
		Problems    []report.SchoolHealth
		Maintenance report.Maintenance
		Categories  []report.CategoryDefect
	}{
		PageData:    PageData{Title: "Dashboard"},
		Overview:    overview,
		Health:      health,
		Problems:    problems,
		Maintenance: maintenance,
		Categories:  categories,
	})
}
