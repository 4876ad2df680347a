// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nweoo/zaycho-be/internal/core/domain"
	"github.com/nweoo/zaycho-be/internal/core/ports"
)

// categoriesCacheKey is where the category counts live in Redis. The list
// changes on every stock mutation, so it is invalidated rather than expired
// wherever possible.
const categoriesCacheKey = "cat:counts"

// CategoriesCacheTTL bounds staleness when an invalidation is missed.
const CategoriesCacheTTL = 60 * time.Second

// InventoryService handles inventory business logic
type InventoryService struct {
	repo   ports.InventoryRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service
func NewInventoryService(repo ports.InventoryRepository, cache ports.CacheRepository, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("service", "inventory")),
	}
}

// CreateItem validates the item and persists it with a freshly allocated
// itemId. Duplicate names surface as domain.DuplicateNameError straight
// from the repository; there is no pre-check, the unique index is the
// authority.
func (s *InventoryService) CreateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	item.PrepareForStorage()

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.invalidateCategories(ctx)

	s.logger.InfoContext(ctx, "created inventory item",
		slog.String("item_id", item.ItemID),
		slog.String("category", string(item.Category)))

	return item, nil
}

// GetByID retrieves an inventory item by its itemId
func (s *InventoryService) GetByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return item, nil
}

// List retrieves inventory items with filtering and pagination
func (s *InventoryService) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}

	return result, nil
}

// Categories returns the per-category counts of in-stock items, served
// from cache when possible.
func (s *InventoryService) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	var counts []domain.CategoryCount
	err := s.cache.GetOrSet(ctx, categoriesCacheKey, &counts, func() (interface{}, error) {
		return s.repo.CategoryCounts(ctx)
	}, CategoriesCacheTTL)
	if err != nil {
		// Degrade to a direct read when Redis is unavailable.
		s.logger.WarnContext(ctx, "categories cache unavailable, reading from store", "err", err)
		return s.repo.CategoryCounts(ctx)
	}

	return counts, nil
}

// UpdateQuantity sets the absolute stock level of an item
func (s *InventoryService) UpdateQuantity(ctx context.Context, itemID string, quantity int) (*domain.InventoryItem, error) {
	if quantity < 0 {
		return nil, domain.NewValidationError(domain.MsgQuantityMustBePositive)
	}

	item, err := s.repo.UpdateQuantity(ctx, itemID, quantity)
	if err != nil {
		return nil, err
	}

	s.invalidateCategories(ctx)

	s.logger.InfoContext(ctx, "updated inventory quantity",
		slog.String("item_id", itemID),
		slog.Int("quantity", quantity))

	return item, nil
}

// DeleteItem removes an inventory item
func (s *InventoryService) DeleteItem(ctx context.Context, itemID string) error {
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return err
	}

	s.invalidateCategories(ctx)

	s.logger.InfoContext(ctx, "deleted inventory item",
		slog.String("item_id", itemID))

	return nil
}

// invalidateCategories drops the cached category counts after any stock
// mutation. The TTL covers the case where this fails.
func (s *InventoryService) invalidateCategories(ctx context.Context) {
	if err := s.cache.Delete(ctx, categoriesCacheKey); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate categories cache", "err", err)
	}
}
