// internal/handlers/inventory.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nweoo/zaycho-be/internal/core/domain"
	"github.com/nweoo/zaycho-be/internal/core/ports"
)

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// ListInventory handles GET /api/v1/inventory
//
// With onlyCategories=true only the category counts are returned. Otherwise
// the filtered item page is returned, plus the in-stock category set when no
// category filter narrows the view.
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if parseBoolParam(r, "onlyCategories") {
		counts, err := h.service.Categories(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to list categories",
				slog.String("error", err.Error()))
			respondError(w, http.StatusInternalServerError, "Failed to list categories")
			return
		}
		respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
			"categories": categoryNames(counts),
		})
		return
	}

	params := h.parseListParams(r)

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list inventory items",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to list inventory items")
		return
	}

	response := ListInventoryResponse{
		Items:      result.Items,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
	}

	if params.Category == "" {
		counts, err := h.service.Categories(ctx)
		if err != nil {
			h.logger.WarnContext(ctx, "failed to load category counts for listing",
				slog.String("error", err.Error()))
		} else {
			response.Categories = categoryNames(counts)
		}
	}

	respondJSON(w, h.logger, http.StatusOK, response)
}

// ListCategories handles GET /api/v1/inventory/categories
func (h *InventoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.service.Categories(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list categories",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	// Matches the server-side cache TTL on the counts.
	w.Header().Set("Cache-Control", "public, max-age=60")
	respondJSON(w, h.logger, http.StatusOK, counts)
}

// GetInventory handles GET /api/v1/inventory/{itemId}
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID := r.PathValue("itemId")

	item, err := h.service.GetByID(ctx, itemID)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to get inventory item")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// CreateInventory handles POST /api/v1/inventory
func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.CreateItem(ctx, req.ToDomain())
	if err != nil {
		h.respondDomainError(w, r, err, "failed to create inventory item")
		return
	}

	h.logger.InfoContext(ctx, "inventory item created",
		slog.String("item_id", item.ItemID),
		slog.String("name_mm", item.NameMM))

	respondJSON(w, h.logger, http.StatusCreated, item)
}

// UpdateQuantity handles PATCH /api/v1/inventory
func (h *InventoryHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ItemID == "" {
		respondError(w, http.StatusBadRequest, "itemId is required")
		return
	}

	item, err := h.service.UpdateQuantity(ctx, req.ItemID, req.Quantity)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to update quantity")
		return
	}

	h.logger.InfoContext(ctx, "inventory quantity updated",
		slog.String("item_id", item.ItemID),
		slog.Int("quantity", item.Quantity))

	respondJSON(w, h.logger, http.StatusOK, item)
}

// DeleteInventory handles DELETE /api/v1/inventory?id=
func (h *InventoryHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID := r.URL.Query().Get("id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "id query parameter is required")
		return
	}

	if err := h.service.DeleteItem(ctx, itemID); err != nil {
		h.respondDomainError(w, r, err, "failed to delete inventory item")
		return
	}

	h.logger.InfoContext(ctx, "inventory item deleted",
		slog.String("item_id", itemID))

	respondJSON(w, h.logger, http.StatusOK, map[string]string{
		"message": "Inventory item deleted successfully",
		"itemId":  itemID,
	})
}

// respondDomainError maps domain errors onto HTTP statuses.
func (h *InventoryHandler) respondDomainError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	ctx := r.Context()

	switch {
	case domain.IsValidation(err), domain.IsDuplicateName(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "Inventory item not found")
	case domain.IsInsufficientStock(err):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.ErrorContext(ctx, logMsg,
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// parseListParams parses query parameters for listing inventory
func (h *InventoryHandler) parseListParams(r *http.Request) ports.ListParams {
	params := ports.ListParams{
		Page:      1,
		PageSize:  50,
		SortBy:    "item_id",
		SortOrder: "desc",
	}

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 100 {
				params.PageSize = 100
			} else {
				params.PageSize = l
			}
		}
	}

	params.Search = r.URL.Query().Get("search")
	params.Category = r.URL.Query().Get("category")

	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}

	if order := r.URL.Query().Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params
}

func parseBoolParam(r *http.Request, name string) bool {
	val, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && val
}

// categoryNames flattens category counts into the sorted name list the
// listing endpoints expose. Counts arrive already sorted by name.
func categoryNames(counts []domain.CategoryCount) []string {
	names := make([]string, 0, len(counts))
	for _, c := range counts {
		names = append(names, c.Name)
	}
	return names
}

// Request/Response DTOs

// ListInventoryResponse is the paged listing plus the in-stock category set.
type ListInventoryResponse struct {
	Items      []*domain.InventoryItem `json:"items"`
	Categories []string                `json:"categories,omitempty"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"pageSize"`
	TotalCount int64                   `json:"totalCount"`
	TotalPages int                     `json:"totalPages"`
}

// CreateInventoryRequest represents the request body for creating inventory
type CreateInventoryRequest struct {
	NameMM   string          `json:"nameMM"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Validate validates the create inventory request
func (r *CreateInventoryRequest) Validate() error {
	if r.NameMM == "" {
		return domain.NewValidationError("nameMM is required")
	}
	if r.Category == "" {
		return domain.NewValidationError("category is required")
	}
	if r.Quantity < 0 {
		return domain.NewValidationError(domain.MsgQuantityMustBePositive)
	}
	if r.Price.IsNegative() {
		return domain.NewValidationError("price cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model. The category is
// lowercased here so "Shoes" and "shoes" share one prefix and one counter.
func (r *CreateInventoryRequest) ToDomain() *domain.InventoryItem {
	return &domain.InventoryItem{
		NameMM:   r.NameMM,
		Category: domain.ItemCategory(strings.ToLower(r.Category)),
		Quantity: r.Quantity,
		Price:    r.Price,
	}
}

// UpdateQuantityRequest represents the request body for a quantity overwrite
type UpdateQuantityRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Shared response helpers

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
