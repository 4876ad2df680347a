// internal/adapters/db/invoice_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nweoo/zaycho-be/internal/core/domain"
	"github.com/nweoo/zaycho-be/internal/core/ports"
)

// invoiceRepository implements ports.InvoiceRepository
type invoiceRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *Database, logger *slog.Logger) ports.InvoiceRepository {
	return &invoiceRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "invoice")),
	}
}

// Create persists the invoice atomically. Inside one transaction it
// advances the per-day invoice counter, conditionally decrements stock for
// every line, and writes the invoice header and line snapshots. The stock
// update carries a quantity >= n guard so two concurrent invoices can never
// oversell: the second one simply matches zero rows and the whole
// transaction rolls back.
func (r *invoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		day := inv.Date.UTC().Truncate(24 * time.Hour)

		var seq int64
		err := tx.QueryRow(ctx, `
			INSERT INTO invoice_counters (day, last_seq)
			VALUES ($1, 1)
			ON CONFLICT (day)
			DO UPDATE SET last_seq = invoice_counters.last_seq + 1
			RETURNING last_seq`,
			day,
		).Scan(&seq)
		if err != nil {
			return fmt.Errorf("failed to advance invoice counter: %w", err)
		}

		inv.InvoiceNumber = domain.FormatInvoiceNumber(day, seq)

		now := time.Now()
		for _, line := range inv.Items {
			tag, err := tx.Exec(ctx, `
				UPDATE inventory
				SET quantity = quantity - $2, updated_at = $3
				WHERE item_id = $1 AND quantity >= $2`,
				line.ItemID, line.Quantity, now,
			)
			if err != nil {
				return fmt.Errorf("failed to decrement stock for %s: %w", line.ItemID, err)
			}
			if tag.RowsAffected() == 0 {
				return r.stockFailure(ctx, tx, line)
			}
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO invoices (
				id, invoice_number, customer_name, total_amount,
				date, status, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			inv.ID, inv.InvoiceNumber, inv.CustomerName, inv.TotalAmount,
			inv.Date, inv.Status, inv.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert invoice: %w", err)
		}

		batch := &pgx.Batch{}
		for i, line := range inv.Items {
			batch.Queue(`
				INSERT INTO invoice_items (
					invoice_id, line_no, item_id, name_mm, category, quantity, price
				) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				inv.ID, i+1, line.ItemID, line.NameMM, line.Category, line.Quantity, line.Price,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for range inv.Items {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to insert invoice line: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "invoice created",
		slog.String("invoice_number", inv.InvoiceNumber),
		slog.String("customer", inv.CustomerName),
		slog.Int("lines", len(inv.Items)))

	return nil
}

// stockFailure turns a zero-row stock decrement into a typed error by
// re-reading the current quantity inside the same transaction.
func (r *invoiceRepository) stockFailure(ctx context.Context, tx pgx.Tx, line domain.LineItem) error {
	var available int
	var nameMM string
	err := tx.QueryRow(ctx,
		`SELECT quantity, name_mm FROM inventory WHERE item_id = $1`,
		line.ItemID,
	).Scan(&available, &nameMM)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("item %s: %w", line.ItemID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read stock for %s: %w", line.ItemID, err)
	}

	return &domain.InsufficientStockError{
		ItemID:    line.ItemID,
		NameMM:    nameMM,
		Requested: line.Quantity,
		Available: available,
	}
}

// FindByNumber retrieves an invoice with its lines by invoice number
func (r *invoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error) {
	inv := &domain.Invoice{}
	err := r.db.QueryRow(ctx, `
		SELECT id, invoice_number, customer_name, total_amount, date, status, created_at
		FROM invoices
		WHERE invoice_number = $1`,
		invoiceNumber,
	).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CustomerName,
		&inv.TotalAmount, &inv.Date, &inv.Status, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %s: %w", invoiceNumber, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}

	items, err := r.loadLines(ctx, []uuid.UUID{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Items = items[inv.ID]

	return inv, nil
}

// List retrieves invoices with their lines, newest first
func (r *invoiceRepository) List(ctx context.Context, params ports.InvoiceListParams) (*ports.InvoiceListResult, error) {
	qb := squirrel.Select(
		"id", "invoice_number", "customer_name", "total_amount",
		"date", "status", "created_at",
	).From("invoices").
		PlaceholderFormat(squirrel.Dollar)

	countQb := squirrel.Select("COUNT(*)").From("invoices").
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		cond := squirrel.Or{
			squirrel.ILike{"customer_name": "%" + params.Search + "%"},
			squirrel.ILike{"invoice_number": "%" + params.Search + "%"},
		}
		qb = qb.Where(cond)
		countQb = countQb.Where(cond)
	}
	if params.DateFrom != nil {
		qb = qb.Where(squirrel.GtOrEq{"date": *params.DateFrom})
		countQb = countQb.Where(squirrel.GtOrEq{"date": *params.DateFrom})
	}
	if params.DateTo != nil {
		qb = qb.Where(squirrel.LtOrEq{"date": *params.DateTo})
		countQb = countQb.Where(squirrel.LtOrEq{"date": *params.DateTo})
	}

	countSQL, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	qb = qb.OrderBy("created_at DESC")

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
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}

	invoices, err := ScanMany(rows, func(rows pgx.Rows) (*domain.Invoice, error) {
		inv := &domain.Invoice{}
		err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.CustomerName,
			&inv.TotalAmount, &inv.Date, &inv.Status, &inv.CreatedAt,
		)
		return inv, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoices: %w", err)
	}

	if len(invoices) > 0 {
		ids := make([]uuid.UUID, len(invoices))
		for i, inv := range invoices {
			ids[i] = inv.ID
		}
		lines, err := r.loadLines(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, inv := range invoices {
			inv.Items = lines[inv.ID]
		}
	}

	result := &ports.InvoiceListResult{
		Invoices:   invoices,
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

// loadLines fetches the line snapshots for a set of invoices in one query,
// in the order the lines were submitted.
func (r *invoiceRepository) loadLines(ctx context.Context, invoiceIDs []uuid.UUID) (map[uuid.UUID][]domain.LineItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT invoice_id, item_id, name_mm, category, quantity, price
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, line_no`,
		invoiceIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[uuid.UUID][]domain.LineItem, len(invoiceIDs))
	for rows.Next() {
		var invoiceID uuid.UUID
		var line domain.LineItem
		err := rows.Scan(
			&invoiceID, &line.ItemID, &line.NameMM,
			&line.Category, &line.Quantity, &line.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		lines[invoiceID] = append(lines[invoiceID], line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lines, nil
}
