package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/report"
)

// ReportsHandler serves the dashboard reports.
type ReportsHandler struct {
	DB     *sql.DB
	Logger *zap.Logger
}

// Overview handles GET /api/reports/overview.
func (h *ReportsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	o, err := report.LoadOverview(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to build overview", err)
		return
	}
	jsonResponse(w, http.StatusOK, o)
}

// SchoolHealth handles GET /api/reports/school-health. Query parameters:
// search, sort (health, name, problems; default health) and onlyProblems.
func (h *ReportsHandler) SchoolHealth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := report.HealthOptions{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}
	if opts.Sort == "" {
		opts.Sort = report.SortHealth
	}
	if v := q.Get("onlyProblems"); v != "" {
		only, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid onlyProblems")
			return
		}
		opts.OnlyProblems = only
	}

	hr, err := report.LoadSchoolHealth(r.Context(), h.DB, opts)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to build school health", err)
		return
	}
	jsonResponse(w, http.StatusOK, hr)
}

// Categories handles GET /api/reports/categories.
func (h *ReportsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	c, err := report.LoadCategoryDefects(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to build category report", err)
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// SchoolProblems handles GET /api/reports/school-problems.
func (h *ReportsHandler) SchoolProblems(w http.ResponseWriter, r *http.Request) {
	p, err := report.LoadSchoolProblems(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to build school problems", err)
		return
	}
	jsonResponse(w, http.StatusOK, p)
}

// Maintenance handles GET /api/reports/maintenance.
func (h *ReportsHandler) Maintenance(w http.ResponseWriter, r *http.Request) {
	m, err := report.LoadMaintenance(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to build maintenance report", err)
		return
	}
	jsonResponse(w, http.StatusOK, m)
}

// LowStock handles GET /api/reports/low-stock.
func (h *ReportsHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := report.LoadLowStock(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to build low stock report", err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}
