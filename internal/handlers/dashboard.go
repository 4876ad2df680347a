package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	redis_a "github.com/nweoo/zaycho-be/internal/adapters/redis_adapter"
	"github.com/nweoo/zaycho-be/internal/core/ports"
)

// DashboardHandler handles dashboard operations
type DashboardHandler struct {
	db     ports.Database
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db ports.Database, cache ports.CacheRepository, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		db:     db,
		cache:  cache,
		logger: logger.With(slog.String("handler", "dashboard")),
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "main")
	var dashboard DashboardData

	err := h.cache.GetOrSet(ctx, cacheKey, &dashboard, func() (interface{}, error) {
		return h.loadDashboardData(ctx)
	}, 5*time.Minute)

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dashboard)
}

func (h *DashboardHandler) loadDashboardData(ctx context.Context) (*DashboardData, error) {
	dashboard := &DashboardData{
		Timestamp: time.Now(),
	}

	summaryQuery := `
		SELECT
			COUNT(*) AS total_items,
			COALESCE(SUM(quantity), 0) AS units_in_stock,
			COALESCE(SUM(quantity * price), 0) AS stock_value,
			COUNT(*) FILTER (WHERE quantity = 0) AS out_of_stock
		FROM inventory
	`

	err := h.db.QueryRow(ctx, summaryQuery).Scan(
		&dashboard.Summary.TotalItems,
		&dashboard.Summary.UnitsInStock,
		&dashboard.Summary.StockValue,
		&dashboard.Summary.OutOfStock,
	)
	if err != nil {
		return nil, err
	}

	salesQuery := `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM invoices
		WHERE date >= CURRENT_DATE
	`
	if err := h.db.QueryRow(ctx, salesQuery).Scan(
		&dashboard.Summary.InvoicesToday,
		&dashboard.Summary.SalesToday,
	); err != nil {
		return nil, err
	}

	categoryQuery := `
		SELECT category,
			COUNT(*) AS count,
			COALESCE(SUM(quantity), 0) AS units,
			COALESCE(SUM(quantity * price), 0) AS value
		FROM inventory
		GROUP BY category
		ORDER BY category
	`

	rows, err := h.db.Query(ctx, categoryQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cat CategoryBreakdown
		if err := rows.Scan(&cat.Category, &cat.Count, &cat.Units, &cat.Value); err != nil {
			return nil, err
		}
		dashboard.CategoryBreakdown = append(dashboard.CategoryBreakdown, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	outOfStockQuery := `
		SELECT item_id, name_mm, category
		FROM inventory
		WHERE quantity = 0
		ORDER BY updated_at DESC
		LIMIT 20
	`

	oosRows, err := h.db.Query(ctx, outOfStockQuery)
	if err != nil {
		return nil, err
	}
	defer oosRows.Close()

	for oosRows.Next() {
		var item OutOfStockItem
		if err := oosRows.Scan(&item.ItemID, &item.NameMM, &item.Category); err != nil {
			return nil, err
		}
		dashboard.OutOfStockItems = append(dashboard.OutOfStockItems, item)
	}

	return dashboard, oosRows.Err()
}

// Type definitions

type DashboardData struct {
	Summary           DashboardSummary    `json:"summary"`
	CategoryBreakdown []CategoryBreakdown `json:"category_breakdown"`
	OutOfStockItems   []OutOfStockItem    `json:"out_of_stock_items"`
	Timestamp         time.Time           `json:"timestamp"`
}

type DashboardSummary struct {
	TotalItems    int64           `json:"total_items"`
	UnitsInStock  int64           `json:"units_in_stock"`
	StockValue    decimal.Decimal `json:"stock_value"`
	OutOfStock    int64           `json:"out_of_stock"`
	InvoicesToday int64           `json:"invoices_today"`
	SalesToday    decimal.Decimal `json:"sales_today"`
}

type CategoryBreakdown struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Units    int64           `json:"units"`
	Value    decimal.Decimal `json:"value"`
}

type OutOfStockItem struct {
	ItemID   string `json:"itemId"`
	NameMM   string `json:"nameMM"`
	Category string `json:"category"`
}
