// internal/core/domain/inventory.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ItemCategory represents catalog categories
type ItemCategory string

// Category constants
const (
	CategoryTShirt      ItemCategory = "tshirt"
	CategoryPants       ItemCategory = "pants"
	CategoryShoes       ItemCategory = "shoes"
	CategoryAccessories ItemCategory = "accessories"
)

// DefaultPrefix is used for categories outside the fixed prefix table.
const DefaultPrefix = "1000"

// categoryPrefixes maps each category to the leading digits of its item IDs.
var categoryPrefixes = map[ItemCategory]string{
	CategoryTShirt:      "1000",
	CategoryPants:       "2000",
	CategoryShoes:       "3000",
	CategoryAccessories: "4000",
}

// Prefix returns the item ID prefix for the category.
func (c ItemCategory) Prefix() string {
	if p, ok := categoryPrefixes[c]; ok {
		return p
	}
	return DefaultPrefix
}

// Known reports whether the category is one of the fixed set.
func (c ItemCategory) Known() bool {
	_, ok := categoryPrefixes[c]
	return ok
}

// Categories returns the fixed category set in prefix order.
func Categories() []ItemCategory {
	return []ItemCategory{CategoryTShirt, CategoryPants, CategoryShoes, CategoryAccessories}
}

// FormatItemID builds an item ID from a category prefix and a sequence
// number, zero-padded to four digits.
func FormatItemID(category ItemCategory, seq int64) string {
	return fmt.Sprintf("%s%04d", category.Prefix(), seq)
}

// InventoryItem represents a single catalog item. NameMM holds the
// Burmese-language display name and is unique across the catalog.
type InventoryItem struct {
	ItemID    string          `json:"itemId"`
	NameMM    string          `json:"nameMM"`
	Category  ItemCategory    `json:"category"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CategoryCount pairs a category name with the number of items in stock.
type CategoryCount struct {
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
}

// Validate performs domain validation on the inventory item.
func (i *InventoryItem) Validate() error {
	if i.NameMM == "" {
		return NewValidationError("nameMM is required")
	}
	if i.Category == "" {
		return NewValidationError("category is required")
	}
	if i.Quantity < 0 {
		return NewValidationError(MsgQuantityMustBePositive)
	}
	if i.Price.IsNegative() {
		return NewValidationError("price cannot be negative")
	}
	return nil
}

// PrepareForStorage stamps timestamps before the first persist.
func (i *InventoryItem) PrepareForStorage() {
	now := time.Now()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
}
