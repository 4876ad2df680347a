// internal/core/domain/cart.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cart assembles invoice lines against a previously fetched inventory
// snapshot before submission. It is a pure reducer over its line slice:
// no I/O, every transition is a method call, so it can back either a
// server-rendered form or an API client and be tested without a store.
type Cart struct {
	lines []LineItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Lines returns the cart contents in insertion order.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// carted returns the quantity of itemID already in the cart.
func (c *Cart) carted(itemID string) int {
	for _, l := range c.lines {
		if l.ItemID == itemID {
			return l.Quantity
		}
	}
	return 0
}

// AddItem validates the requested item against the snapshot and merges it
// into the cart. Stock checks account for quantity already carted: adding
// 2 then 4 of an item with 5 in stock fails on the second add.
func (c *Cart) AddItem(snapshot []InventoryItem, itemID string, quantity int) error {
	if itemID == "" {
		return NewValidationError("please select an item from the list")
	}

	var item *InventoryItem
	for i := range snapshot {
		if snapshot[i].ItemID == itemID {
			item = &snapshot[i]
			break
		}
	}
	if item == nil {
		return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}

	if quantity < 1 {
		return NewValidationError(MsgQuantityMustBePositive)
	}

	already := c.carted(itemID)
	if already+quantity > item.Quantity {
		return &InsufficientStockError{
			ItemID:    itemID,
			NameMM:    item.NameMM,
			Requested: already + quantity,
			Available: item.Quantity,
		}
	}

	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity += quantity
			return nil
		}
	}

	c.lines = append(c.lines, LineItem{
		ItemID:   item.ItemID,
		NameMM:   item.NameMM,
		Category: item.Category,
		Quantity: quantity,
		Price:    item.Price,
	})
	return nil
}

// RemoveItem drops the line for itemID, if present.
func (c *Cart) RemoveItem(itemID string) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Total recomputes the cart total from scratch. Carts are small, so there
// is nothing to cache.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}
