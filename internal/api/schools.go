package api

import (
	"database/sql"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/onboarding"
	"github.com/erazemk/devicetrack/internal/store"
)

// SchoolsHandler handles school onboarding and lookup endpoints.
type SchoolsHandler struct {
	DB         *sql.DB
	Onboarding *onboarding.Service
	Logger     *zap.Logger
}

type onboardRequest struct {
	School  *onboarding.SchoolInput    `json:"school"`
	Devices []onboarding.ManifestEntry `json:"devices"`
}

type updateSchoolRequest struct {
	Name string `json:"name" validate:"required"`
}

// Create handles POST /api/schools. Every failure, including a malformed
// body, is reported as the same generic error.
func (h *SchoolsHandler) Create(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to create school"

	var req onboardRequest
	if err := decodeJSON(r, &req); err != nil {
		serverError(w, r, h.Logger, failure, err)
		return
	}
	if req.School == nil {
		serverError(w, r, h.Logger, failure, errors.New("missing school"))
		return
	}

	result, err := h.Onboarding.Onboard(r.Context(), *req.School, onboarding.Manifest(req.Devices...))
	if err != nil {
		serverError(w, r, h.Logger, failure, err)
		return
	}

	jsonResponse(w, http.StatusCreated, result)
}

// List handles GET /api/schools.
func (h *SchoolsHandler) List(w http.ResponseWriter, r *http.Request) {
	schools, err := store.ListSchoolInventory(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to fetch schools", err)
		return
	}
	jsonResponse(w, http.StatusOK, schools)
}

// Get handles GET /api/schools/{id}.
func (h *SchoolsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid school id")
		return
	}

	school, err := store.GetSchool(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to fetch school", err)
		return
	}
	if school == nil {
		jsonError(w, http.StatusNotFound, "school not found")
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, store.ItemFilter{SchoolID: id})
	if err != nil {
		serverError(w, r, h.Logger, "Failed to fetch school", err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"school": school,
		"items":  items,
	})
}

// Update handles PUT /api/schools/{id}.
func (h *SchoolsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid school id")
		return
	}

	var req updateSchoolRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	school, err := store.GetSchool(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to update school", err)
		return
	}
	if school == nil {
		jsonError(w, http.StatusNotFound, "school not found")
		return
	}

	if err := store.UpdateSchool(r.Context(), h.DB, id, req.Name); err != nil {
		serverError(w, r, h.Logger, "Failed to update school", err)
		return
	}

	school, err = store.GetSchool(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to update school", err)
		return
	}
	jsonResponse(w, http.StatusOK, school)
}
