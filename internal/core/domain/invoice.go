// internal/core/domain/invoice.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents invoice lifecycle states
type InvoiceStatus string

const (
	// InvoiceCompleted is the only status produced today. The enum exists
	// so voided or draft invoices can be added without a migration.
	InvoiceCompleted InvoiceStatus = "completed"
)

// InvoiceNumberPrefix is the fixed leading segment of every invoice number.
const InvoiceNumberPrefix = "INV"

// FormatInvoiceNumber builds an INV-YYYYMMDD-NNN invoice number from a date
// and a per-day sequence, zero-padded to three digits.
func FormatInvoiceNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%03d", InvoiceNumberPrefix, day.Format("20060102"), seq)
}

// LineItem is one entry within an invoice: a point-in-time snapshot of the
// catalog item, decoupled from the live record so historical invoices stay
// stable when the catalog changes.
type LineItem struct {
	ItemID   string          `json:"itemId"`
	NameMM   string          `json:"nameMM"`
	Category ItemCategory    `json:"category"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Total returns price * quantity for the line.
func (l LineItem) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Invoice represents a completed sale.
type Invoice struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerName  string          `json:"customerName"`
	Items         []LineItem      `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Date          time.Time       `json:"date"`
	Status        InvoiceStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ComputeTotal sums the line totals.
func (inv *Invoice) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range inv.Items {
		total = total.Add(line.Total())
	}
	return total
}

// Validate checks invoice-level invariants before persistence. The declared
// TotalAmount must equal the sum of the line totals; the server never trusts
// the client-side arithmetic.
func (inv *Invoice) Validate() error {
	if inv.CustomerName == "" {
		return NewValidationError("customer name and at least one item are required")
	}
	if len(inv.Items) == 0 {
		return NewValidationError("customer name and at least one item are required")
	}
	for _, line := range inv.Items {
		if line.ItemID == "" {
			return NewValidationError("line item is missing itemId")
		}
		if line.Quantity <= 0 {
			return NewValidationError(MsgQuantityMustBePositive)
		}
		if line.Price.IsNegative() {
			return NewValidationError("line item price cannot be negative")
		}
	}
	if computed := inv.ComputeTotal(); !inv.TotalAmount.Equal(computed) {
		return NewValidationError(fmt.Sprintf(
			"total amount %s does not match line totals %s",
			inv.TotalAmount.StringFixed(2), computed.StringFixed(2)))
	}
	return nil
}

// PrepareForStorage fills identifiers, timestamps and status defaults before
// the first persist.
func (inv *Invoice) PrepareForStorage() {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	now := time.Now()
	if inv.Date.IsZero() {
		inv.Date = now
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	if inv.Status == "" {
		inv.Status = InvoiceCompleted
	}
}
