// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/nweoo/zaycho-be/internal/core/ports"
)

// CleanupProcessor handles cleanup tasks
type CleanupProcessor struct {
	db     ports.Database
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(db ports.Database, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		db:     db,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupCounters drops per-day invoice counters that can never be read
// again. Invoice numbers embed the day, so old counter rows are dead weight.
func (p *CleanupProcessor) CleanupCounters(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up old invoice counters")

	query := `DELETE FROM invoice_counters WHERE day < CURRENT_DATE - INTERVAL '90 days'`

	result, err := p.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to cleanup invoice counters: %w", err)
	}

	p.logger.InfoContext(ctx, "old invoice counters cleaned up",
		slog.Int64("rows_deleted", result.RowsAffected()))

	return nil
}
