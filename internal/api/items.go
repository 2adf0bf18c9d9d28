package api

import (
	"database/sql"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/ident"
	"github.com/erazemk/devicetrack/internal/metrics"
	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/store"
)

// ItemsHandler handles inventory endpoints.
type ItemsHandler struct {
	DB      *sql.DB
	Actor   string
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

type itemRequest struct {
	ItemID         string `json:"itemId"`
	ItemName       string `json:"itemName" validate:"required"`
	Category       string `json:"category" validate:"required,oneof=UPS KEYBOARD MOUSE CPU SCREEN"`
	Quantity       int    `json:"quantity" validate:"min=1"`
	Condition      string `json:"condition" validate:"omitempty,oneof=WORKING NOT_WORKING DAMAGED DISCARDED"`
	Location       string `json:"location" validate:"required,oneof=IN_OFFICE AT_SCHOOL DISCARDED"`
	ItemTag        string `json:"itemTag"`
	SchoolID       *int64 `json:"schoolId"`
	MinStockLevel  *int   `json:"minStockLevel" validate:"omitempty,min=0"`
	Notes          string `json:"notes"`
	LastModifiedBy string `json:"lastModifiedBy"`
}

type bulkUpdateRequest struct {
	ItemIDs   []int64 `json:"itemIds" validate:"required"`
	Location  string  `json:"location" validate:"omitempty,oneof=IN_OFFICE AT_SCHOOL DISCARDED"`
	Condition string  `json:"condition" validate:"omitempty,oneof=WORKING NOT_WORKING DAMAGED DISCARDED"`
}

// input fills defaults and converts the request to a store input.
func (h *ItemsHandler) input(req itemRequest) store.ItemInput {
	if req.Condition == "" {
		req.Condition = model.ConditionWorking
	}
	if req.LastModifiedBy == "" {
		req.LastModifiedBy = h.Actor
	}
	return store.ItemInput{
		ItemID:         req.ItemID,
		ItemName:       req.ItemName,
		Category:       req.Category,
		Quantity:       req.Quantity,
		Condition:      req.Condition,
		Location:       req.Location,
		ItemTag:        req.ItemTag,
		SchoolID:       req.SchoolID,
		MinStockLevel:  req.MinStockLevel,
		Notes:          req.Notes,
		LastModifiedBy: req.LastModifiedBy,
	}
}

// decodeItem reads and validates an item body. A missing quantity means 1.
func decodeItem(w http.ResponseWriter, r *http.Request) (itemRequest, bool) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return req, false
	}
	return req, true
}

// List handles GET /api/inventory.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ItemFilter{
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		Location:  q.Get("location"),
		Condition: q.Get("condition"),
	}
	if v := q.Get("schoolId"); v != "" {
		id, ok := parsePositive(v)
		if !ok {
			jsonError(w, http.StatusBadRequest, "invalid school id")
			return
		}
		filter.SchoolID = id
	}

	items, err := store.ListItems(r.Context(), h.DB, filter)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to fetch inventory", err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/inventory. An item id is generated when the
// request carries none.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeItem(w, r)
	if !ok {
		return
	}

	if req.ItemID == "" {
		id, err := ident.NewItemID()
		if err != nil {
			serverError(w, r, h.Logger, "Failed to create inventory item", err)
			return
		}
		req.ItemID = id
	}

	item, err := store.CreateItem(r.Context(), h.DB, h.input(req))
	if err != nil {
		serverError(w, r, h.Logger, "Failed to create inventory item", err)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/inventory/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to fetch inventory item", err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/inventory/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	req, ok := decodeItem(w, r)
	if !ok {
		return
	}

	existing, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to update inventory item", err)
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, id, h.input(req)); err != nil {
		serverError(w, r, h.Logger, "Failed to update inventory item", err)
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, h.Logger, "Failed to update inventory item", err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/inventory/{id}. Items are discarded, not
// removed.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DiscardItem(r.Context(), h.DB, id); err != nil {
		serverError(w, r, h.Logger, "Failed to discard inventory item", err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item discarded"})
}

// BulkUpdate handles POST /api/inventory/bulk-update. The response reports
// how many ids were submitted, not how many records matched.
func (h *ItemsHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to bulk update inventory"

	var req bulkUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		serverError(w, r, h.Logger, failure, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		serverError(w, r, h.Logger, failure, errors.New(validationMessage(err)))
		return
	}

	matched, err := store.BulkUpdate(r.Context(), h.DB, req.ItemIDs, store.Patch{
		Location:  req.Location,
		Condition: req.Condition,
	})
	if err != nil {
		serverError(w, r, h.Logger, failure, err)
		return
	}

	h.Logger.Info("bulk update",
		zap.Int("requested", len(req.ItemIDs)),
		zap.Int64("matched", matched),
		zap.String("location", req.Location),
		zap.String("condition", req.Condition),
	)
	if h.Metrics != nil {
		h.Metrics.BulkUpdated(len(req.ItemIDs), matched)
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"updated": len(req.ItemIDs),
	})
}
