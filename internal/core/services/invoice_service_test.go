// internal/core/services/invoice_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nweoo/zaycho-be/internal/core/domain"
	"github.com/nweoo/zaycho-be/internal/core/ports"
	"github.com/nweoo/zaycho-be/internal/core/services"
	"github.com/nweoo/zaycho-be/test/helpers"
	"github.com/nweoo/zaycho-be/test/mocks"
)

func TestInvoiceService_CreateInvoice(t *testing.T) {
	stock := helpers.CreateTestInventoryItems(2)

	tests := []struct {
		name          string
		invoice       *domain.Invoice
		setupMocks    func(*mocks.MockInvoiceRepository, *mocks.MockCacheRepository)
		expectedError bool
		errorContains string
	}{
		{
			name:    "successful_create",
			invoice: helpers.CreateTestInvoice(stock),
			setupMocks: func(repo *mocks.MockInvoiceRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, inv *domain.Invoice) error {
						inv.InvoiceNumber = "INV-20260829-001"
						return nil
					})
				cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedError: false,
		},
		{
			name: "validation_fails_for_missing_customer",
			invoice: helpers.CreateTestInvoice(stock, func(inv *domain.Invoice) {
				inv.CustomerName = ""
			}),
			setupMocks:    func(repo *mocks.MockInvoiceRepository, cache *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: "customer name and at least one item are required",
		},
		{
			name: "validation_fails_for_empty_lines",
			invoice: helpers.CreateTestInvoice(nil, func(inv *domain.Invoice) {
				inv.TotalAmount = decimal.Zero
			}),
			setupMocks:    func(repo *mocks.MockInvoiceRepository, cache *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: "customer name and at least one item are required",
		},
		{
			name: "validation_fails_for_zero_line_quantity",
			invoice: helpers.CreateTestInvoice(stock, func(inv *domain.Invoice) {
				inv.Items[0].Quantity = 0
				inv.TotalAmount = inv.ComputeTotal()
			}),
			setupMocks:    func(repo *mocks.MockInvoiceRepository, cache *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: domain.MsgQuantityMustBePositive,
		},
		{
			name: "mismatched_total_is_rejected_not_corrected",
			invoice: helpers.CreateTestInvoice(stock, func(inv *domain.Invoice) {
				inv.TotalAmount = inv.ComputeTotal().Add(decimal.NewFromInt(1000))
			}),
			setupMocks:    func(repo *mocks.MockInvoiceRepository, cache *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: "does not match line totals",
		},
		{
			name:    "insufficient_stock_surfaces_from_repository",
			invoice: helpers.CreateTestInvoice(stock),
			setupMocks: func(repo *mocks.MockInvoiceRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(&domain.InsufficientStockError{
						ItemID:    stock[0].ItemID,
						NameMM:    stock[0].NameMM,
						Requested: 5,
						Available: 2,
					})
			},
			expectedError: true,
			errorContains: "insufficient quantity",
		},
		{
			name:    "repository_error_passes_through",
			invoice: helpers.CreateTestInvoice(stock),
			setupMocks: func(repo *mocks.MockInvoiceRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			expectedError: true,
			errorContains: "database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockInvoiceRepository(ctrl)
			cache := mocks.NewMockCacheRepository(ctrl)
			tt.setupMocks(repo, cache)

			svc := services.NewInvoiceService(repo, cache, helpers.TestLogger())

			created, err := svc.CreateInvoice(context.Background(), tt.invoice)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				require.NotNil(t, created)
				assert.NotEmpty(t, created.InvoiceNumber)
				assert.Equal(t, domain.InvoiceCompleted, created.Status)
			}
		})
	}
}

func TestInvoiceService_CreateInvoice_DefaultsDateAndStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockInvoiceRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	stock := helpers.CreateTestInventoryItems(1)
	inv := helpers.CreateTestInvoice(stock, func(inv *domain.Invoice) {
		inv.Date = time.Time{}
		inv.Status = ""
	})

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, got *domain.Invoice) error {
			assert.False(t, got.Date.IsZero())
			assert.Equal(t, domain.InvoiceCompleted, got.Status)
			got.InvoiceNumber = "INV-20260829-002"
			return nil
		})
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	svc := services.NewInvoiceService(repo, cache, helpers.TestLogger())

	created, err := svc.CreateInvoice(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, "INV-20260829-002", created.InvoiceNumber)
}

func TestInvoiceService_GetByNumber(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockInvoiceRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		want := helpers.CreateTestInvoice(helpers.CreateTestInventoryItems(1), func(inv *domain.Invoice) {
			inv.InvoiceNumber = "INV-20260829-001"
		})
		repo.EXPECT().
			FindByNumber(gomock.Any(), "INV-20260829-001").
			Return(want, nil)

		svc := services.NewInvoiceService(repo, cache, helpers.TestLogger())

		got, err := svc.GetByNumber(context.Background(), "INV-20260829-001")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockInvoiceRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		repo.EXPECT().
			FindByNumber(gomock.Any(), "INV-20260829-999").
			Return(nil, domain.ErrNotFound)

		svc := services.NewInvoiceService(repo, cache, helpers.TestLogger())

		got, err := svc.GetByNumber(context.Background(), "INV-20260829-999")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, got)
	})
}

func TestInvoiceService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockInvoiceRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	invoices := []*domain.Invoice{
		helpers.CreateTestInvoice(helpers.CreateTestInventoryItems(1)),
	}

	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, params ports.InvoiceListParams) (*ports.InvoiceListResult, error) {
			require.NotNil(t, params.DateFrom)
			assert.True(t, params.DateFrom.Equal(from))
			return &ports.InvoiceListResult{Invoices: invoices, TotalCount: 1, Page: 1, PageSize: 20, TotalPages: 1}, nil
		})

	svc := services.NewInvoiceService(repo, cache, helpers.TestLogger())

	result, err := svc.List(context.Background(), ports.InvoiceListParams{Page: 1, PageSize: 20, DateFrom: &from})
	require.NoError(t, err)
	assert.Len(t, result.Invoices, 1)
}
