// cmd/seeder/main.go
//
// Seeds a development catalog of Burmese-named items, plus a few invoices so
// the dashboard and reports have something to show.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nweoo/zaycho-be/internal/adapters/db"
	"github.com/nweoo/zaycho-be/internal/core/domain"
	"github.com/nweoo/zaycho-be/internal/core/ports"
	"github.com/nweoo/zaycho-be/internal/pkg/config"
	"github.com/nweoo/zaycho-be/internal/pkg/logger"
)

var seedNames = map[domain.ItemCategory][]string{
	domain.CategoryTShirt: {
		"အင်္ကျီ အဖြူ", "အင်္ကျီ အနက်", "တီရှပ် အပြာ", "ပိုလိုရှပ် အစိမ်း",
		"တီရှပ် ပန်းရောင်", "အင်္ကျီ မီးခိုးရောင်", "တီရှပ် အဝါ",
	},
	domain.CategoryPants: {
		"ဘောင်းဘီရှည် အနက်", "ဂျင်းဘောင်းဘီ အပြာ", "ဘောင်းဘီတို ခါကီ",
		"အားကစားဘောင်းဘီ မီးခိုးရောင်", "ဂျင်းဘောင်းဘီ အနက်",
	},
	domain.CategoryShoes: {
		"အားကစားဖိနပ် အဖြူ", "သားရေဖိနပ် အညို", "ညှပ်ဖိနပ် အနက်",
		"ဘွတ်ဖိနပ် အနီ", "အားကစားဖိနပ် အပြာ",
	},
	domain.CategoryAccessories: {
		"ခါးပတ် သားရေ", "ဦးထုပ် အနက်", "လက်ကိုင်အိတ် အနီ",
		"ခြေအိတ် အဖြူ", "လည်စည်း ပိုး",
	},
}

var customerNames = []string{
	"ဦးအောင်မြင့်", "ဒေါ်ခင်စန်း", "မောင်ကျော်ဇင်", "မစုမြတ်", "ကိုရဲလင်း",
}

func main() {
	var (
		invoices = flag.Int("invoices", 5, "number of invoices to create")
		clear    = flag.Bool("clear", false, "truncate existing data first")
	)
	flag.Parse()

	slogger := logger.SetupLogger("info", "text")

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction() {
		slogger.Error("refusing to seed a production database")
		os.Exit(1)
	}

	ctx := context.Background()

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Database:       cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: 5,
		MinConnections: 1,
		ConnectTimeout: 10 * time.Second,
	}, slogger.Logger)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
	}, slogger.Logger, 3); err != nil {
		slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *clear {
		if err := clearData(ctx, database); err != nil {
			slogger.Error("failed to clear data", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slogger.Info("existing data cleared")
	}

	inventoryRepo := db.NewInventoryRepository(database, slogger.Logger)
	invoiceRepo := db.NewInvoiceRepository(database, slogger.Logger)

	items, err := seedInventory(ctx, inventoryRepo, slogger.Logger)
	if err != nil {
		slogger.Error("failed to seed inventory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger.Info("inventory seeded", slog.Int("items", len(items)))

	created, err := seedInvoices(ctx, invoiceRepo, items, *invoices)
	if err != nil {
		slogger.Error("failed to seed invoices", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger.Info("invoices seeded", slog.Int("invoices", created))

	// Total includes items from earlier runs, the seeder only skips
	// duplicates rather than wiping them.
	total, err := inventoryRepo.Count(ctx)
	if err != nil {
		slogger.Error("failed to count inventory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger.Info("seeding complete", slog.Int64("inventory_total", total))
}

func clearData(ctx context.Context, database *db.Database) error {
	tables := []string{"invoice_items", "invoices", "invoice_counters", "category_counters", "inventory"}
	for _, table := range tables {
		if _, err := database.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

func seedInventory(ctx context.Context, repo ports.InventoryRepository, slogger *slog.Logger) ([]*domain.InventoryItem, error) {
	var items []*domain.InventoryItem

	for _, category := range domain.Categories() {
		for _, name := range seedNames[category] {
			item := &domain.InventoryItem{
				NameMM:   name,
				Category: category,
				Quantity: rand.Intn(40) + 5,
				Price:    decimal.NewFromInt(int64(rand.Intn(25)+5) * 1000),
			}
			item.PrepareForStorage()

			if err := repo.Create(ctx, item); err != nil {
				if domain.IsDuplicateName(err) {
					slogger.Warn("item already seeded, skipping", slog.String("name_mm", name))
					continue
				}
				return nil, fmt.Errorf("create %q: %w", name, err)
			}
			items = append(items, item)
		}
	}

	return items, nil
}

func seedInvoices(ctx context.Context, repo ports.InvoiceRepository, items []*domain.InventoryItem, count int) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	created := 0
	for i := 0; i < count; i++ {
		lineCount := rand.Intn(3) + 1
		inv := &domain.Invoice{
			CustomerName: customerNames[rand.Intn(len(customerNames))],
		}

		used := map[string]bool{}
		for len(inv.Items) < lineCount {
			item := items[rand.Intn(len(items))]
			if used[item.ItemID] || item.Quantity < 2 {
				continue
			}
			used[item.ItemID] = true
			inv.Items = append(inv.Items, domain.LineItem{
				ItemID:   item.ItemID,
				NameMM:   item.NameMM,
				Category: item.Category,
				Quantity: rand.Intn(2) + 1,
				Price:    item.Price,
			})
		}

		inv.TotalAmount = inv.ComputeTotal()
		inv.PrepareForStorage()

		if err := repo.Create(ctx, inv); err != nil {
			return created, fmt.Errorf("create invoice: %w", err)
		}
		created++
	}

	return created, nil
}
