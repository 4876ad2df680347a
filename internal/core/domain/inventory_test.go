package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nweoo/zaycho-be/internal/core/domain"
)

func TestItemCategory_Prefix(t *testing.T) {
	tests := []struct {
		name     string
		category domain.ItemCategory
		expected string
	}{
		{name: "tshirt", category: domain.CategoryTShirt, expected: "1000"},
		{name: "pants", category: domain.CategoryPants, expected: "2000"},
		{name: "shoes", category: domain.CategoryShoes, expected: "3000"},
		{name: "accessories", category: domain.CategoryAccessories, expected: "4000"},
		{name: "unknown_falls_back_to_default", category: domain.ItemCategory("hats"), expected: domain.DefaultPrefix},
		{name: "empty_falls_back_to_default", category: domain.ItemCategory(""), expected: domain.DefaultPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.category.Prefix())
		})
	}
}

func TestFormatItemID(t *testing.T) {
	tests := []struct {
		name     string
		category domain.ItemCategory
		seq      int64
		expected string
	}{
		{name: "first_tshirt", category: domain.CategoryTShirt, seq: 1, expected: "10000001"},
		{name: "pants_sequence", category: domain.CategoryPants, seq: 42, expected: "20000042"},
		{name: "shoes_large_sequence", category: domain.CategoryShoes, seq: 9999, expected: "30009999"},
		{name: "sequence_overflows_padding", category: domain.CategoryAccessories, seq: 10001, expected: "400010001"},
		{name: "unknown_category_uses_default_prefix", category: domain.ItemCategory("hats"), seq: 7, expected: "10000007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.FormatItemID(tt.category, tt.seq))
		})
	}
}

func TestCategories(t *testing.T) {
	cats := domain.Categories()

	require.Len(t, cats, 4)
	assert.Contains(t, cats, domain.CategoryTShirt)
	assert.Contains(t, cats, domain.CategoryPants)
	assert.Contains(t, cats, domain.CategoryShoes)
	assert.Contains(t, cats, domain.CategoryAccessories)
}

func TestInventoryItem_Validate(t *testing.T) {
	tests := []struct {
		name      string
		item      *domain.InventoryItem
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_item",
			item: &domain.InventoryItem{
				NameMM:   "အင်္ကျီ အဖြူ",
				Category: domain.CategoryTShirt,
				Quantity: 10,
				Price:    decimal.NewFromInt(5000),
			},
			wantError: false,
		},
		{
			name: "zero_quantity_is_allowed",
			item: &domain.InventoryItem{
				NameMM:   "ဘောင်းဘီ အနက်",
				Category: domain.CategoryPants,
				Quantity: 0,
				Price:    decimal.NewFromInt(12000),
			},
			wantError: false,
		},
		{
			name: "missing_name",
			item: &domain.InventoryItem{
				Category: domain.CategoryTShirt,
				Quantity: 1,
				Price:    decimal.NewFromInt(5000),
			},
			wantError: true,
			errorMsg:  "nameMM is required",
		},
		{
			name: "missing_category",
			item: &domain.InventoryItem{
				NameMM:   "ဖိနပ်",
				Quantity: 1,
				Price:    decimal.NewFromInt(5000),
			},
			wantError: true,
			errorMsg:  "category is required",
		},
		{
			name: "negative_quantity",
			item: &domain.InventoryItem{
				NameMM:   "ဖိနပ်",
				Category: domain.CategoryShoes,
				Quantity: -3,
				Price:    decimal.NewFromInt(5000),
			},
			wantError: true,
			errorMsg:  domain.MsgQuantityMustBePositive,
		},
		{
			name: "negative_price",
			item: &domain.InventoryItem{
				NameMM:   "ခါးပတ်",
				Category: domain.CategoryAccessories,
				Quantity: 1,
				Price:    decimal.NewFromInt(-100),
			},
			wantError: true,
			errorMsg:  "price cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()

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

func TestInventoryItem_PrepareForStorage(t *testing.T) {
	t.Run("sets_timestamps", func(t *testing.T) {
		item := &domain.InventoryItem{
			NameMM:   "အင်္ကျီ",
			Category: domain.CategoryTShirt,
		}

		item.PrepareForStorage()

		assert.NotZero(t, item.CreatedAt)
		assert.NotZero(t, item.UpdatedAt)
	})

	t.Run("preserves_existing_created_at", func(t *testing.T) {
		item := &domain.InventoryItem{
			NameMM:   "အင်္ကျီ",
			Category: domain.CategoryTShirt,
		}
		item.PrepareForStorage()
		created := item.CreatedAt

		item.PrepareForStorage()

		assert.Equal(t, created, item.CreatedAt)
	})
}

// Benchmarks
func BenchmarkFormatItemID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = domain.FormatItemID(domain.CategoryPants, int64(i))
	}
}
