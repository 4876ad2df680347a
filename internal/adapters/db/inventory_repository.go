// internal/adapters/db/inventory_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nweoo/zaycho-be/internal/core/domain"
	"github.com/nweoo/zaycho-be/internal/core/ports"
)

const pgUniqueViolation = "23505"

// inventoryRepository implements ports.InventoryRepository
type inventoryRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *Database, logger *slog.Logger) ports.InventoryRepository {
	return &inventoryRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "inventory")),
	}
}

// Create allocates the next itemId for the item's category and inserts the
// row in one transaction. The per-category sequence lives in
// category_counters and is advanced with an upsert, so concurrent creates
// never hand out the same id and a failed insert rolls the counter back
// with the rest of the transaction.
func (r *inventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		var seq int64
		err := tx.QueryRow(ctx, `
			INSERT INTO category_counters (category, last_seq)
			VALUES ($1, 1)
			ON CONFLICT (category)
			DO UPDATE SET last_seq = category_counters.last_seq + 1
			RETURNING last_seq`,
			string(item.Category),
		).Scan(&seq)
		if err != nil {
			return fmt.Errorf("failed to advance category counter: %w", err)
		}

		item.ItemID = domain.FormatItemID(item.Category, seq)

		_, err = tx.Exec(ctx, `
			INSERT INTO inventory (
				item_id, name_mm, category, quantity, price,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ItemID, item.NameMM, item.Category, item.Quantity, item.Price,
			item.CreatedAt, item.UpdatedAt,
		)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return &domain.DuplicateNameError{NameMM: item.NameMM}
		}
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	r.logger.DebugContext(ctx, "inventory item created",
		slog.String("item_id", item.ItemID),
		slog.String("category", string(item.Category)))

	return nil
}

// FindByID retrieves an inventory item by its itemId
func (r *inventoryRepository) FindByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	query := `
		SELECT item_id, name_mm, category, quantity, price, created_at, updated_at
		FROM inventory
		WHERE item_id = $1`

	item := &domain.InventoryItem{}
	err := r.db.QueryRow(ctx, query, itemID).Scan(
		&item.ItemID, &item.NameMM, &item.Category,
		&item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find inventory item: %w", err)
	}

	return item, nil
}

// List retrieves inventory items with filtering and pagination. Items are
// returned newest-first by itemId, which sorts correctly because ids are
// fixed-width within a category.
func (r *inventoryRepository) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	qb := squirrel.Select(
		"item_id", "name_mm", "category", "quantity", "price",
		"created_at", "updated_at",
	).From("inventory").
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		qb = qb.Where("name_mm ILIKE ?", "%"+params.Search+"%")
	}
	if params.Category != "" {
		qb = qb.Where(squirrel.Eq{"category": params.Category})
	}

	countQb := squirrel.Select("COUNT(*)").From("inventory").
		PlaceholderFormat(squirrel.Dollar)
	if params.Search != "" {
		countQb = countQb.Where("name_mm ILIKE ?", "%"+params.Search+"%")
	}
	if params.Category != "" {
		countQb = countQb.Where(squirrel.Eq{"category": params.Category})
	}

	countSQL, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count inventory items: %w", err)
	}

	orderBy := "item_id DESC"
	if params.SortBy != "" {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}

		switch params.SortBy {
		case "name":
			orderBy = fmt.Sprintf("name_mm %s", direction)
		case "quantity":
			orderBy = fmt.Sprintf("quantity %s", direction)
		case "price":
			orderBy = fmt.Sprintf("price %s", direction)
		case "created":
			orderBy = fmt.Sprintf("created_at %s", direction)
		default:
			orderBy = fmt.Sprintf("item_id %s", direction)
		}
	}
	qb = qb.OrderBy(orderBy)

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize > 0 {
		qb = qb.Limit(uint64(pageSize)).Offset(uint64((page - 1) * pageSize))
	}

	listSQL, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory items: %w", err)
	}

	items, err := ScanMany(rows, func(rows pgx.Rows) (*domain.InventoryItem, error) {
		item := &domain.InventoryItem{}
		err := rows.Scan(
			&item.ItemID, &item.NameMM, &item.Category,
			&item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt,
		)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory items: %w", err)
	}

	result := &ports.ListResult{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
	if pageSize > 0 {
		result.TotalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	} else if totalCount > 0 {
		result.TotalPages = 1
	}

	return result, nil
}

// UpdateQuantity sets the absolute stock level of an item
func (r *inventoryRepository) UpdateQuantity(ctx context.Context, itemID string, quantity int) (*domain.InventoryItem, error) {
	query := `
		UPDATE inventory
		SET quantity = $2, updated_at = $3
		WHERE item_id = $1
		RETURNING item_id, name_mm, category, quantity, price, created_at, updated_at`

	item := &domain.InventoryItem{}
	err := r.db.QueryRow(ctx, query, itemID, quantity, time.Now()).Scan(
		&item.ItemID, &item.NameMM, &item.Category,
		&item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	r.logger.DebugContext(ctx, "inventory quantity updated",
		slog.String("item_id", itemID),
		slog.Int("quantity", quantity))

	return item, nil
}

// Delete removes an inventory item
func (r *inventoryRepository) Delete(ctx context.Context, itemID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE item_id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}

	r.logger.InfoContext(ctx, "inventory item deleted",
		slog.String("item_id", itemID))

	return nil
}

// CategoryCounts returns every known category with its in-stock item count,
// sorted by category name. A category whose items are all sold out still
// appears, with a count of zero.
func (r *inventoryRepository) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*) FILTER (WHERE quantity > 0)
		FROM inventory
		GROUP BY category
		ORDER BY category ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category counts: %w", err)
	}
	defer rows.Close()

	var counts []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Name, &c.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}

// Count returns the total number of inventory items
func (r *inventoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inventory`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count inventory items: %w", err)
	}

	return count, nil
}
