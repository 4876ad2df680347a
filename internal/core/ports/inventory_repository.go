// internal/core/ports/inventory_repository.go
package ports

import (
	"context"

	"github.com/nweoo/zaycho-be/internal/core/domain"
)

// InventoryRepository defines the persistence port for inventory.
// This interface is implemented by the database adapter.
type InventoryRepository interface {
	// Create allocates the next itemId for the item's category and inserts
	// the row in a single transaction, so a rejected insert never burns a
	// sequence number. On success item.ItemID is populated.
	Create(ctx context.Context, item *domain.InventoryItem) error
	FindByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateQuantity(ctx context.Context, itemID string, quantity int) (*domain.InventoryItem, error)
	Delete(ctx context.Context, itemID string) error
	CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error)
	Count(ctx context.Context) (int64, error)
}
