// internal/core/services/inventory_service_test.go
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

func TestInventoryService_CreateItem(t *testing.T) {
	tests := []struct {
		name          string
		item          *domain.InventoryItem
		setupMocks    func(*mocks.MockInventoryRepository, *mocks.MockCacheRepository)
		expectedError bool
		errorContains string
	}{
		{
			name: "successful_create_with_valid_item",
			item: helpers.CreateTestInventoryItem(),
			setupMocks: func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil)
				cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedError: false,
		},
		{
			name: "validation_fails_for_missing_name",
			item: helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
				i.NameMM = ""
			}),
			setupMocks:    func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: "nameMM is required",
		},
		{
			name: "validation_fails_for_missing_category",
			item: helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
				i.Category = ""
			}),
			setupMocks:    func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: "category is required",
		},
		{
			name: "validation_fails_for_negative_quantity",
			item: helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
				i.Quantity = -3
			}),
			setupMocks:    func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: domain.MsgQuantityMustBePositive,
		},
		{
			name: "validation_fails_for_negative_price",
			item: helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
				i.Price = decimal.NewFromInt(-500)
			}),
			setupMocks:    func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: "price cannot be negative",
		},
		{
			name: "duplicate_name_surfaces_from_repository",
			item: helpers.CreateTestInventoryItem(),
			setupMocks: func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(&domain.DuplicateNameError{NameMM: "အင်္ကျီ အဖြူ"})
			},
			expectedError: true,
			errorContains: domain.MsgDuplicateName,
		},
		{
			name: "repository_create_error",
			item: helpers.CreateTestInventoryItem(),
			setupMocks: func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			expectedError: true,
			errorContains: "database connection failed",
		},
		{
			name: "stamps_timestamps_before_persist",
			item: helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
				i.CreatedAt = time.Time{}
				i.UpdatedAt = time.Time{}
			}),
			setupMocks: func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, item *domain.InventoryItem) error {
						assert.False(t, item.CreatedAt.IsZero())
						assert.False(t, item.UpdatedAt.IsZero())
						return nil
					})
				cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedError: false,
		},
		{
			name: "cache_invalidation_failure_does_not_fail_create",
			item: helpers.CreateTestInventoryItem(),
			setupMocks: func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil)
				cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(errors.New("redis unavailable"))
			},
			expectedError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockInventoryRepository(ctrl)
			cache := mocks.NewMockCacheRepository(ctrl)
			tt.setupMocks(repo, cache)

			svc := services.NewInventoryService(repo, cache, helpers.TestLogger())

			created, err := svc.CreateItem(context.Background(), tt.item)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				require.NotNil(t, created)
			}
		})
	}
}

func TestInventoryService_Categories(t *testing.T) {
	counts := []domain.CategoryCount{
		{Name: "tshirt", ItemCount: 12},
		{Name: "shoes", ItemCount: 3},
	}

	t.Run("served_through_cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockInventoryRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		cache.EXPECT().
			GetOrSet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), services.CategoriesCacheTTL).
			DoAndReturn(func(ctx context.Context, key string, dest any, fetch func() (any, error), ttl time.Duration) error {
				*dest.(*[]domain.CategoryCount) = counts
				return nil
			})

		svc := services.NewInventoryService(repo, cache, helpers.TestLogger())

		got, err := svc.Categories(context.Background())
		require.NoError(t, err)
		assert.Equal(t, counts, got)
	})

	t.Run("degrades_to_store_when_cache_fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockInventoryRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		cache.EXPECT().
			GetOrSet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("redis unavailable"))
		repo.EXPECT().
			CategoryCounts(gomock.Any()).
			Return(counts, nil)

		svc := services.NewInventoryService(repo, cache, helpers.TestLogger())

		got, err := svc.Categories(context.Background())
		require.NoError(t, err)
		assert.Equal(t, counts, got)
	})
}

func TestInventoryService_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name          string
		itemID        string
		quantity      int
		setupMocks    func(*mocks.MockInventoryRepository, *mocks.MockCacheRepository)
		expectedError bool
		errorContains string
	}{
		{
			name:     "successful_update",
			itemID:   "10000001",
			quantity: 25,
			setupMocks: func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					UpdateQuantity(gomock.Any(), "10000001", 25).
					Return(helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
						i.Quantity = 25
					}), nil)
				cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedError: false,
		},
		{
			name:     "zero_quantity_is_allowed",
			itemID:   "10000001",
			quantity: 0,
			setupMocks: func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					UpdateQuantity(gomock.Any(), "10000001", 0).
					Return(helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
						i.Quantity = 0
					}), nil)
				cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedError: false,
		},
		{
			name:          "negative_quantity_rejected_before_repo",
			itemID:        "10000001",
			quantity:      -1,
			setupMocks:    func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: domain.MsgQuantityMustBePositive,
		},
		{
			name:     "missing_item_surfaces_not_found",
			itemID:   "49999999",
			quantity: 5,
			setupMocks: func(repo *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					UpdateQuantity(gomock.Any(), "49999999", 5).
					Return(nil, domain.ErrNotFound)
			},
			expectedError: true,
			errorContains: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockInventoryRepository(ctrl)
			cache := mocks.NewMockCacheRepository(ctrl)
			tt.setupMocks(repo, cache)

			svc := services.NewInventoryService(repo, cache, helpers.TestLogger())

			item, err := svc.UpdateQuantity(context.Background(), tt.itemID, tt.quantity)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, item)
			} else {
				require.NoError(t, err)
				require.NotNil(t, item)
				assert.Equal(t, tt.quantity, item.Quantity)
			}
		})
	}
}

func TestInventoryService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockInventoryRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)
	svc := services.NewInventoryService(repo, cache, helpers.TestLogger())

	item := helpers.CreateTestInventoryItem()
	repo.EXPECT().
		FindByID(gomock.Any(), "10000001").
		Return(item, nil)

	got, err := svc.GetByID(context.Background(), "10000001")
	require.NoError(t, err)
	assert.Equal(t, item, got)

	repo.EXPECT().
		FindByID(gomock.Any(), "49999999").
		Return(nil, domain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "49999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInventoryService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockInventoryRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	seeded := helpers.CreateTestInventoryItems(3)
	items := make([]*domain.InventoryItem, len(seeded))
	for i := range seeded {
		items[i] = &seeded[i]
	}
	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, 20, params.PageSize)
			return &ports.ListResult{Items: items, TotalCount: 3, Page: 1, PageSize: 20, TotalPages: 1}, nil
		})

	svc := services.NewInventoryService(repo, cache, helpers.TestLogger())

	result, err := svc.List(context.Background(), ports.ListParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
	assert.EqualValues(t, 3, result.TotalCount)
}

func TestInventoryService_DeleteItem(t *testing.T) {
	t.Run("successful_delete_invalidates_cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockInventoryRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		repo.EXPECT().Delete(gomock.Any(), "10000001").Return(nil)
		cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		svc := services.NewInventoryService(repo, cache, helpers.TestLogger())
		require.NoError(t, svc.DeleteItem(context.Background(), "10000001"))
	})

	t.Run("missing_item_surfaces_not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockInventoryRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		repo.EXPECT().Delete(gomock.Any(), "10000099").Return(domain.ErrNotFound)

		svc := services.NewInventoryService(repo, cache, helpers.TestLogger())
		err := svc.DeleteItem(context.Background(), "10000099")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
