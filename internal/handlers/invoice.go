// internal/handlers/invoice.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nweoo/zaycho-be/internal/core/domain"
	"github.com/nweoo/zaycho-be/internal/core/ports"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	service ports.InvoiceService
	logger  *slog.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(service ports.InvoiceService, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "invoice")),
	}
}

// CreateInvoice handles POST /api/v1/invoices
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inv, err := h.service.CreateInvoice(ctx, req.ToDomain())
	if err != nil {
		h.respondDomainError(w, r, err, "failed to create invoice")
		return
	}

	h.logger.InfoContext(ctx, "invoice created",
		slog.String("invoice_number", inv.InvoiceNumber),
		slog.String("customer", inv.CustomerName),
		slog.String("total", inv.TotalAmount.StringFixed(2)))

	respondJSON(w, h.logger, http.StatusCreated, inv)
}

// GetInvoice handles GET /api/v1/invoices/{invoiceNumber}
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invoiceNumber := r.PathValue("invoiceNumber")

	inv, err := h.service.GetByNumber(ctx, invoiceNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Invoice not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get invoice",
			slog.String("invoice_number", invoiceNumber),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to retrieve invoice")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, inv)
}

// ListInvoices handles GET /api/v1/invoices
//
// The body is a bare array of invoices; pagination metadata travels in the
// X-Page, X-Page-Size, X-Total-Count and X-Total-Pages headers.
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseListParams(r)

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list invoices",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to list invoices")
		return
	}

	invoices := result.Invoices
	if invoices == nil {
		invoices = []*domain.Invoice{}
	}

	w.Header().Set("X-Page", strconv.Itoa(result.Page))
	w.Header().Set("X-Page-Size", strconv.Itoa(result.PageSize))
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.TotalCount, 10))
	w.Header().Set("X-Total-Pages", strconv.Itoa(result.TotalPages))
	respondJSON(w, h.logger, http.StatusOK, invoices)
}

func (h *InvoiceHandler) respondDomainError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	ctx := r.Context()

	switch {
	case domain.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case domain.IsInsufficientStock(err):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(ctx, logMsg,
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// parseListParams parses query parameters for listing invoices
func (h *InvoiceHandler) parseListParams(r *http.Request) ports.InvoiceListParams {
	params := ports.InvoiceListParams{
		Page:     1,
		PageSize: 50,
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

	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			params.DateFrom = &t
		}
	}

	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			params.DateTo = &t
		}
	}

	return params
}

// Request DTOs

// CreateInvoiceLineRequest is one line of a new invoice.
type CreateInvoiceLineRequest struct {
	ItemID   string          `json:"itemId"`
	NameMM   string          `json:"nameMM"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// CreateInvoiceRequest represents the request body for creating an invoice.
// TotalAmount is cross-checked against the lines server-side, never trusted.
type CreateInvoiceRequest struct {
	CustomerName string                     `json:"customerName"`
	Items        []CreateInvoiceLineRequest `json:"items"`
	TotalAmount  decimal.Decimal            `json:"totalAmount"`
	Date         *time.Time                 `json:"date,omitempty"`
}

// ToDomain converts the request to a domain model
func (r *CreateInvoiceRequest) ToDomain() *domain.Invoice {
	inv := &domain.Invoice{
		CustomerName: r.CustomerName,
		TotalAmount:  r.TotalAmount,
		Items:        make([]domain.LineItem, 0, len(r.Items)),
	}
	for _, line := range r.Items {
		inv.Items = append(inv.Items, domain.LineItem{
			ItemID:   line.ItemID,
			NameMM:   line.NameMM,
			Category: domain.ItemCategory(line.Category),
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	if r.Date != nil {
		inv.Date = *r.Date
	}
	return inv
}
