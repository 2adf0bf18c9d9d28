package web

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/onboarding"
	"github.com/erazemk/devicetrack/internal/report"
)

// SchoolsPage handles GET /schools.
func (s *Server) SchoolsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	health, err := report.LoadSchoolHealth(r.Context(), s.DB, report.HealthOptions{
		Search:       q.Get("search"),
		Sort:         q.Get("sort"),
		OnlyProblems: q.Get("problems") == "1",
	})
	if err != nil {
		s.Logger.Error("failed to list schools", zap.Error(err))
	}

	s.Templates.Render(w, "schools.html", &struct {
		PageData
		Health report.HealthReport
		Search string
		Sort   string
	}{
		PageData: PageData{Title: "Schools", Success: successMessage(q.Get("created"))},
		Health:   health,
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	})
}

func successMessage(created string) string {
	if created == "" {
		return ""
	}
	return "School " + created + " created."
}

// SchoolNewPage handles GET /schools/new.
func (s *Server) SchoolNewPage(w http.ResponseWriter, r *http.Request) {
	s.renderNewSchool(w, "", nil)
}

// SchoolCreateSubmit handles POST /schools/new. Device rows arrive as
// devices[N].item, devices[N].category, devices[N].quantity and
// devices[N].tag; every kept row gets its own item id.
func (s *Server) SchoolCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderNewSchool(w, "Invalid form.", nil)
		return
	}

	school := onboarding.SchoolInput{
		SchoolCode: strings.TrimSpace(r.PostFormValue("schoolId")),
		Name:       strings.TrimSpace(r.PostFormValue("name")),
	}
	rows := onboarding.ParseSparseRows(r.PostForm)

	if school.Name == "" {
		s.renderNewSchool(w, "School name is required.", rows)
		return
	}

	result, err := s.Onboarding.Onboard(r.Context(), school, onboarding.SparseRows(rows...))
	if err != nil {
		s.Logger.Error("failed to onboard school", zap.Error(err))
		s.renderNewSchool(w, "Failed to create school.", rows)
		return
	}

	http.Redirect(w, r, "/schools?created="+url.QueryEscape(result.School.Name), http.StatusSeeOther)
}

func (s *Server) renderNewSchool(w http.ResponseWriter, errMsg string, rows []onboarding.SparseRow) {
	if len(rows) == 0 {
		rows = []onboarding.SparseRow{{}}
	}
	s.Templates.Render(w, "school_new.html", &struct {
		PageData
		Rows []onboarding.SparseRow
	}{
		PageData: PageData{Title: "New school", Error: errMsg},
		Rows:     rows,
	})
}
