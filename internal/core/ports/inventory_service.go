// internal/core/ports/inventory_service.go
package ports

import (
	"context"

	"github.com/nweoo/zaycho-be/internal/core/domain"
)

// InventoryService defines the application service port for inventory.
// This interface is implemented by the application service.
type InventoryService interface {
	CreateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error)
	GetByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
	UpdateQuantity(ctx context.Context, itemID string, quantity int) (*domain.InventoryItem, error)
	DeleteItem(ctx context.Context, itemID string) error
}

// ListParams holds parameters for listing inventory.
// Defined here rather than in the repository package to avoid
// circular dependencies.
type ListParams struct {
	Search    string
	Category  string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult holds the result of listing inventory
type ListResult struct {
	Items      []*domain.InventoryItem `json:"items"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"pageSize"`
	TotalCount int64                   `json:"totalCount"`
	TotalPages int                     `json:"totalPages"`
}
