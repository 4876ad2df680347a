package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nweoo/zaycho-be/internal/core/domain"
)

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		name     string
		day      time.Time
		seq      int64
		expected string
	}{
		{
			name:     "first_of_day",
			day:      time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
			seq:      1,
			expected: "INV-20250314-001",
		},
		{
			name:     "mid_sequence",
			day:      time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			seq:      42,
			expected: "INV-20251201-042",
		},
		{
			name:     "padding_overflow",
			day:      time.Date(2025, 1, 2, 23, 59, 59, 0, time.UTC),
			seq:      1234,
			expected: "INV-20250102-1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.FormatInvoiceNumber(tt.day, tt.seq))
		})
	}
}

func TestLineItem_Total(t *testing.T) {
	line := domain.LineItem{
		ItemID:   "10000001",
		Quantity: 3,
		Price:    decimal.NewFromInt(5500),
	}

	assert.True(t, line.Total().Equal(decimal.NewFromInt(16500)))
}

func TestInvoice_Validate(t *testing.T) {
	validLines := []domain.LineItem{
		{ItemID: "10000001", NameMM: "အင်္ကျီ", Category: domain.CategoryTShirt, Quantity: 2, Price: decimal.NewFromInt(5000)},
		{ItemID: "20000001", NameMM: "ဘောင်းဘီ", Category: domain.CategoryPants, Quantity: 1, Price: decimal.NewFromInt(12000)},
	}

	tests := []struct {
		name      string
		invoice   *domain.Invoice
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_invoice",
			invoice: &domain.Invoice{
				CustomerName: "မောင်မောင်",
				Items:        validLines,
				TotalAmount:  decimal.NewFromInt(22000),
			},
			wantError: false,
		},
		{
			name: "missing_customer_name",
			invoice: &domain.Invoice{
				Items:       validLines,
				TotalAmount: decimal.NewFromInt(22000),
			},
			wantError: true,
			errorMsg:  "customer name and at least one item are required",
		},
		{
			name: "no_items",
			invoice: &domain.Invoice{
				CustomerName: "မောင်မောင်",
				TotalAmount:  decimal.Zero,
			},
			wantError: true,
			errorMsg:  "customer name and at least one item are required",
		},
		{
			name: "line_missing_item_id",
			invoice: &domain.Invoice{
				CustomerName: "မောင်မောင်",
				Items: []domain.LineItem{
					{Quantity: 1, Price: decimal.NewFromInt(100)},
				},
				TotalAmount: decimal.NewFromInt(100),
			},
			wantError: true,
			errorMsg:  "line item is missing itemId",
		},
		{
			name: "line_zero_quantity",
			invoice: &domain.Invoice{
				CustomerName: "မောင်မောင်",
				Items: []domain.LineItem{
					{ItemID: "10000001", Quantity: 0, Price: decimal.NewFromInt(100)},
				},
				TotalAmount: decimal.Zero,
			},
			wantError: true,
			errorMsg:  domain.MsgQuantityMustBePositive,
		},
		{
			name: "declared_total_mismatch",
			invoice: &domain.Invoice{
				CustomerName: "မောင်မောင်",
				Items:        validLines,
				TotalAmount:  decimal.NewFromInt(21999),
			},
			wantError: true,
			errorMsg:  "does not match line totals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.invoice.Validate()

			if tt.wantError {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))
				if tt.errorMsg != "" {
					assert.Contains(t, err.Error(), tt.errorMsg)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestInvoice_ComputeTotal(t *testing.T) {
	inv := &domain.Invoice{
		Items: []domain.LineItem{
			{ItemID: "10000001", Quantity: 2, Price: decimal.NewFromFloat(5500.50)},
			{ItemID: "30000002", Quantity: 1, Price: decimal.NewFromInt(30000)},
		},
	}

	assert.True(t, inv.ComputeTotal().Equal(decimal.NewFromInt(41001)))
}

func TestInvoice_PrepareForStorage(t *testing.T) {
	t.Run("generates_uuid_when_nil", func(t *testing.T) {
		inv := &domain.Invoice{}

		inv.PrepareForStorage()

		assert.NotEqual(t, uuid.Nil, inv.ID)
		assert.NotZero(t, inv.Date)
		assert.NotZero(t, inv.CreatedAt)
		assert.Equal(t, domain.InvoiceCompleted, inv.Status)
	})

	t.Run("preserves_existing_uuid", func(t *testing.T) {
		existing := uuid.New()
		inv := &domain.Invoice{ID: existing}

		inv.PrepareForStorage()

		assert.Equal(t, existing, inv.ID)
	})

	t.Run("preserves_explicit_date", func(t *testing.T) {
		date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		inv := &domain.Invoice{Date: date}

		inv.PrepareForStorage()

		assert.Equal(t, date, inv.Date)
	})
}
