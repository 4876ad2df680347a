// internal/core/ports/invoice_repository.go
package ports

import (
	"context"

	"github.com/nweoo/zaycho-be/internal/core/domain"
)

// InvoiceRepository defines the persistence port for invoices.
type InvoiceRepository interface {
	// Create persists the invoice and decrements stock for every line in a
	// single transaction: the per-day invoice number is allocated, each
	// line's quantity is conditionally subtracted from inventory, and the
	// invoice rows are written. Any failure rolls the whole thing back.
	// On success inv.InvoiceNumber is populated.
	Create(ctx context.Context, inv *domain.Invoice) error
	FindByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error)
	List(ctx context.Context, params InvoiceListParams) (*InvoiceListResult, error)
}
