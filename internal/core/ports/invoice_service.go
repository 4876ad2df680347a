// internal/core/ports/invoice_service.go
package ports

import (
	"context"
	"time"

	"github.com/nweoo/zaycho-be/internal/core/domain"
)

// InvoiceService defines the application service port for invoices.
type InvoiceService interface {
	// CreateInvoice validates the invoice, recomputes its total server-side
	// and persists it atomically together with the stock decrements.
	CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error)
	List(ctx context.Context, params InvoiceListParams) (*InvoiceListResult, error)
}

// InvoiceListParams holds parameters for listing invoices.
type InvoiceListParams struct {
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// InvoiceListResult holds the result of listing invoices
type InvoiceListResult struct {
	Invoices   []*domain.Invoice `json:"invoices"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalCount int64             `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
}
