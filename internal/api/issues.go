package api

import (
	"database/sql"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/photo"
	"github.com/erazemk/devicetrack/internal/store"
)

// maxPhotoUpload bounds the multipart body of a photo upload.
const maxPhotoUpload = photo.DefaultMaxBytes + 1<<20

// IssuesHandler handles issue reporting endpoints.
type IssuesHandler struct {
	DB     *sql.DB
	Logger *zap.Logger
	Photos photo.Normalizer
}

type createIssueRequest struct {
	InventoryID int64  `json:"inventoryId" validate:"required,min=1"`
	SchoolID    *int64 `json:"schoolId"`
	IssueType   string `json:"issueType" validate:"required,oneof=HARDWARE_FAILURE SOFTWARE_ISSUE PHYSICAL_DAMAGE MISSING OTHER"`
	Description string `json:"description" validate:"required"`
	ReportedBy  string `json:"reportedBy" validate:"required"`
}

// List handles GET /api/issues. ?status=open or ?status=resolved narrows
// the list.
func (h *IssuesHandler) List(w http.ResponseWriter, r *http.Request) {
	issues, err := store.ListIssues(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to fetch issues", err)
		return
	}

	status := r.URL.Query().Get("status")
	filtered := make([]model.Issue, 0, len(issues))
	for _, iss := range issues {
		switch {
		case status == "open" && !iss.IsOpen():
			continue
		case status == "resolved" && iss.IsOpen():
			continue
		}
		filtered = append(filtered, iss)
	}
	jsonResponse(w, http.StatusOK, filtered)
}

// Create handles POST /api/issues.
func (h *IssuesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createIssueRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, req.InventoryID)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to create issue", err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	issue, err := store.CreateIssue(r.Context(), h.DB, req.InventoryID, req.SchoolID, req.IssueType, req.Description, req.ReportedBy)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to create issue", err)
		return
	}

	jsonResponse(w, http.StatusCreated, issue)
}

// UploadPhoto handles PUT /api/issues/{id}/photo. The photo is sent as the
// "photo" field of a multipart form and stored as JPEG.
func (h *IssuesHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid issue id")
		return
	}

	issue, err := store.GetIssue(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to save photo", err)
		return
	}
	if issue == nil {
		jsonError(w, http.StatusNotFound, "issue not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUpload)
	if err := r.ParseMultipartForm(maxPhotoUpload); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	data, err := h.Photos.Normalize(file)
	switch {
	case errors.Is(err, photo.ErrUnsupported):
		jsonError(w, http.StatusBadRequest, "photo must be JPEG, PNG, or WebP")
		return
	case errors.Is(err, photo.ErrTooLarge):
		jsonError(w, http.StatusRequestEntityTooLarge, "photo too large")
		return
	case err != nil:
		serverError(w, r, h.Logger, "Failed to save photo", err)
		return
	}

	if err := store.SetIssuePhoto(r.Context(), h.DB, id, data, photo.MIME); err != nil {
		serverError(w, r, h.Logger, "Failed to save photo", err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/issues/{id}/photo.
func (h *IssuesHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid issue id")
		return
	}

	data, mime, err := store.GetIssuePhoto(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to fetch photo", err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
