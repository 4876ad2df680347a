// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/nweoo/zaycho-be/internal/adapters/redis_adapter"
	"github.com/nweoo/zaycho-be/internal/core/ports"
)

// ExportParams defines parameters for export operations
type ExportParams struct {
	Category string     `json:"category"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
}

// InventoryExportRow is one catalog row in an export.
type InventoryExportRow struct {
	ItemID    string          `json:"itemId"`
	NameMM    string          `json:"nameMM"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// InvoiceExportRow is one invoice line in an export, flattened so each sold
// unit batch carries its invoice header columns.
type InvoiceExportRow struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerName  string          `json:"customerName"`
	Date          time.Time       `json:"date"`
	ItemID        string          `json:"itemId"`
	NameMM        string          `json:"nameMM"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	InvoiceTotal  decimal.Decimal `json:"invoiceTotal"`
}

// JSONExportResponse represents the JSON export response structure
type JSONExportResponse struct {
	Inventory []InventoryExportRow `json:"inventory"`
	Invoices  []InvoiceExportRow   `json:"invoices"`
	Metadata  ExportMetadata       `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate     time.Time `json:"export_date"`
	InventoryItems int       `json:"inventory_items"`
	InvoiceLines   int       `json:"invoice_lines"`
}

// ExportHandler handles export operations
type ExportHandler struct {
	db     ports.Database
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(db ports.Database, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		db:     db,
		cache:  cache,
		logger: logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := h.parseExportParams(r)

	inventory, invoices, err := h.loadExportData(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load export data", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(inventory, invoices)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("zaycho_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "excel export completed",
		slog.Int("inventory_rows", len(inventory)),
		slog.Int("invoice_rows", len(invoices)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := h.parseExportParams(r)

	cacheKey := redis_a.BuildKey(redis_a.PrefixExport, "json", params.cacheKey())
	var cachedData []byte
	if err := h.cache.Get(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cachedData)))
		if _, err := w.Write(cachedData); err != nil {
			h.logger.ErrorContext(ctx, "failed to write cached JSON response", slog.String("error", err.Error()))
		}
		return
	}

	inventory, invoices, err := h.loadExportData(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load export data", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	response := JSONExportResponse{
		Inventory: inventory,
		Invoices:  invoices,
		Metadata: ExportMetadata{
			ExportDate:     time.Now(),
			InventoryItems: len(inventory),
			InvoiceLines:   len(invoices),
		},
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal JSON export", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))

	if _, err := w.Write(responseData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response", slog.String("error", err.Error()))
		return
	}

	// The response is already on the wire; caching is best effort.
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.cache.SetWithTTL(cacheCtx, cacheKey, responseData, 5*time.Minute); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache JSON export", slog.String("error", err.Error()))
		}
	}()

	h.logger.InfoContext(ctx, "json export completed",
		slog.Int("inventory_rows", len(inventory)),
		slog.Int("invoice_rows", len(invoices)))
}

// Helper methods

func (h *ExportHandler) parseExportParams(r *http.Request) *ExportParams {
	params := &ExportParams{}

	params.Category = r.URL.Query().Get("category")

	if from := r.URL.Query().Get("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			params.DateFrom = &t
		}
	}
	if to := r.URL.Query().Get("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			params.DateTo = &t
		}
	}

	return params
}

func (h *ExportHandler) loadExportData(ctx context.Context, params *ExportParams) ([]InventoryExportRow, []InvoiceExportRow, error) {
	inventory, err := h.loadInventoryRows(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("inventory export query: %w", err)
	}

	invoices, err := h.loadInvoiceRows(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("invoice export query: %w", err)
	}

	return inventory, invoices, nil
}

func (h *ExportHandler) loadInventoryRows(ctx context.Context, params *ExportParams) ([]InventoryExportRow, error) {
	query := `SELECT item_id, name_mm, category, quantity, price, created_at, updated_at
		FROM inventory`
	args := []any{}
	if params.Category != "" {
		query += " WHERE category = $1"
		args = append(args, params.Category)
	}
	query += " ORDER BY item_id"

	rows, err := h.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var data []InventoryExportRow
	for rows.Next() {
		var row InventoryExportRow
		if err := rows.Scan(&row.ItemID, &row.NameMM, &row.Category,
			&row.Quantity, &row.Price, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		data = append(data, row)
	}
	return data, rows.Err()
}

func (h *ExportHandler) loadInvoiceRows(ctx context.Context, params *ExportParams) ([]InvoiceExportRow, error) {
	query := `SELECT i.invoice_number, i.customer_name, i.date, i.total_amount,
			li.item_id, li.name_mm, li.quantity, li.price
		FROM invoices i
		JOIN invoice_items li ON li.invoice_id = i.id
		WHERE 1=1`
	args := []any{}
	if params.DateFrom != nil {
		args = append(args, *params.DateFrom)
		query += fmt.Sprintf(" AND i.date >= $%d", len(args))
	}
	if params.DateTo != nil {
		args = append(args, *params.DateTo)
		query += fmt.Sprintf(" AND i.date <= $%d", len(args))
	}
	query += " ORDER BY i.created_at DESC, li.item_id"

	rows, err := h.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var data []InvoiceExportRow
	for rows.Next() {
		var row InvoiceExportRow
		if err := rows.Scan(&row.InvoiceNumber, &row.CustomerName, &row.Date,
			&row.InvoiceTotal, &row.ItemID, &row.NameMM, &row.Quantity, &row.Price); err != nil {
			return nil, err
		}
		row.LineTotal = row.Price.Mul(decimal.NewFromInt(int64(row.Quantity)))
		data = append(data, row)
	}
	return data, rows.Err()
}

func (h *ExportHandler) generateExcelFile(inventory []InventoryExportRow, invoices []InvoiceExportRow) ([]byte, error) {
	file := xlsx.NewFile()

	invSheet, err := file.AddSheet("Inventory")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := invSheet.AddRow()
	for _, header := range []string{"Item ID", "Name", "Category", "Quantity", "Price", "Created At", "Updated At"} {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for _, item := range inventory {
		row := invSheet.AddRow()
		row.AddCell().Value = item.ItemID
		row.AddCell().Value = item.NameMM
		row.AddCell().Value = item.Category
		row.AddCell().Value = strconv.Itoa(item.Quantity)
		row.AddCell().Value = item.Price.StringFixed(2)
		row.AddCell().Value = item.CreatedAt.Format("2006-01-02 15:04:05")
		row.AddCell().Value = item.UpdatedAt.Format("2006-01-02 15:04:05")
	}

	salesSheet, err := file.AddSheet("Invoices")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	salesHeader := salesSheet.AddRow()
	for _, header := range []string{"Invoice Number", "Customer", "Date", "Item ID", "Name", "Quantity", "Price", "Line Total", "Invoice Total"} {
		cell := salesHeader.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for _, line := range invoices {
		row := salesSheet.AddRow()
		row.AddCell().Value = line.InvoiceNumber
		row.AddCell().Value = line.CustomerName
		row.AddCell().Value = line.Date.Format("2006-01-02")
		row.AddCell().Value = line.ItemID
		row.AddCell().Value = line.NameMM
		row.AddCell().Value = strconv.Itoa(line.Quantity)
		row.AddCell().Value = line.Price.StringFixed(2)
		row.AddCell().Value = line.LineTotal.StringFixed(2)
		row.AddCell().Value = line.InvoiceTotal.StringFixed(2)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func (params *ExportParams) cacheKey() string {
	key := "all"
	if params.Category != "" {
		key = params.Category
	}
	if params.DateFrom != nil {
		key += "_from_" + params.DateFrom.Format("20060102")
	}
	if params.DateTo != nil {
		key += "_to_" + params.DateTo.Format("20060102")
	}
	return key
}
