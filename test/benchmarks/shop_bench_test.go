//go:build integration
// +build integration

package benchmarks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nweoo/zaycho-be/internal/adapters/db"
	"github.com/nweoo/zaycho-be/internal/core/domain"
	"github.com/nweoo/zaycho-be/internal/core/ports"
	"github.com/nweoo/zaycho-be/test/helpers"
)

func BenchmarkInventoryRepository(b *testing.B) {
	testDB := helpers.SetupTestDB(&testing.T{})
	defer testDB.Database.Close()

	repo := db.NewInventoryRepository(testDB.Database, helpers.TestLogger())
	ctx := context.Background()

	b.Run("Create", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			item := &domain.InventoryItem{
				NameMM:   fmt.Sprintf("ပစ္စည်း %d", i),
				Category: domain.CategoryTShirt,
				Quantity: 10,
				Price:    decimal.NewFromInt(5000),
			}
			item.PrepareForStorage()
			_ = repo.Create(ctx, item)
		}
	})

	// Pre-create rows for the read benchmarks.
	var itemIDs []string
	for i := 0; i < 100; i++ {
		item := &domain.InventoryItem{
			NameMM:   fmt.Sprintf("ဖတ်ရန် ပစ္စည်း %d", i),
			Category: domain.CategoryPants,
			Quantity: 10,
			Price:    decimal.NewFromInt(12000),
		}
		item.PrepareForStorage()
		if err := repo.Create(ctx, item); err == nil {
			itemIDs = append(itemIDs, item.ItemID)
		}
	}

	b.Run("FindByID", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = repo.FindByID(ctx, itemIDs[i%len(itemIDs)])
		}
	})

	b.Run("List", func(b *testing.B) {
		params := ports.ListParams{Page: 1, PageSize: 50}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = repo.List(ctx, params)
		}
	})

	b.Run("Search", func(b *testing.B) {
		params := ports.ListParams{Search: "ပစ္စည်း", Page: 1, PageSize: 50}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = repo.List(ctx, params)
		}
	})

	b.Run("CategoryCounts", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = repo.CategoryCounts(ctx)
		}
	})
}

func BenchmarkInvoiceCreate(b *testing.B) {
	testDB := helpers.SetupTestDB(&testing.T{})
	defer testDB.Database.Close()

	inventoryRepo := db.NewInventoryRepository(testDB.Database, helpers.TestLogger())
	invoiceRepo := db.NewInvoiceRepository(testDB.Database, helpers.TestLogger())
	ctx := context.Background()

	item := &domain.InventoryItem{
		NameMM:   "ရောင်းရန် ပစ္စည်း",
		Category: domain.CategoryShoes,
		Quantity: 1 << 30,
		Price:    decimal.NewFromInt(25000),
	}
	item.PrepareForStorage()
	if err := inventoryRepo.Create(ctx, item); err != nil {
		b.Fatalf("seed item: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		inv := &domain.Invoice{
			CustomerName: "ဝယ်သူ",
			Items: []domain.LineItem{{
				ItemID:   item.ItemID,
				NameMM:   item.NameMM,
				Category: item.Category,
				Quantity: 1,
				Price:    item.Price,
			}},
		}
		inv.TotalAmount = inv.ComputeTotal()
		inv.PrepareForStorage()
		_ = invoiceRepo.Create(ctx, inv)
	}
}

func BenchmarkDomainFormatting(b *testing.B) {
	b.Run("FormatItemID", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = domain.FormatItemID(domain.CategoryShoes, int64(i%9999)+1)
		}
	})

	b.Run("FormatInvoiceNumber", func(b *testing.B) {
		day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = domain.FormatInvoiceNumber(day, int64(i%999)+1)
		}
	})

	b.Run("InvoiceValidate", func(b *testing.B) {
		items := helpers.CreateTestInventoryItems(5)
		inv := helpers.CreateTestInvoice(items)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = inv.Validate()
		}
	})
}
