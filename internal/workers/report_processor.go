// internal/workers/report_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	redis_a "github.com/nweoo/zaycho-be/internal/adapters/redis_adapter"
	"github.com/nweoo/zaycho-be/internal/core/ports"
)

// Task type identifiers registered on the worker mux.
const (
	TypeDailySalesReport = "report:daily_sales"
	TypeCounterCleanup   = "cleanup:invoice_counters"
)

// DailySalesReportPayload selects the day to aggregate. A zero Date means
// yesterday, which is what the nightly schedule enqueues.
type DailySalesReportPayload struct {
	Date string `json:"date,omitempty"`
}

// NewDailySalesReportTask builds the asynq task for a day's sales summary.
func NewDailySalesReportTask(date time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(DailySalesReportPayload{Date: date.Format("2006-01-02")})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeDailySalesReport, payload), nil
}

// DailySalesReport is the aggregated result for one day.
type DailySalesReport struct {
	Date         string          `json:"date"`
	InvoiceCount int64           `json:"invoiceCount"`
	UnitsSold    int64           `json:"unitsSold"`
	TotalSales   decimal.Decimal `json:"totalSales"`
	TopItems     []ReportItem    `json:"topItems"`
	GeneratedAt  time.Time       `json:"generatedAt"`
}

// ReportItem is one line of the per-item sales breakdown.
type ReportItem struct {
	ItemID    string          `json:"itemId"`
	NameMM    string          `json:"nameMM"`
	UnitsSold int64           `json:"unitsSold"`
	Sales     decimal.Decimal `json:"sales"`
}

// ReportProcessor handles sales report tasks
type ReportProcessor struct {
	db     ports.Database
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(db ports.Database, cache ports.CacheRepository, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		db:     db,
		cache:  cache,
		logger: logger.With(slog.String("processor", "report")),
	}
}

// ProcessDailySalesReport aggregates one day's invoices into a report,
// logs the summary and caches it for the dashboard.
func (p *ReportProcessor) ProcessDailySalesReport(ctx context.Context, t *asynq.Task) error {
	var payload DailySalesReportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	day := time.Now().AddDate(0, 0, -1)
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return fmt.Errorf("invalid report date %q: %w", payload.Date, err)
		}
		day = parsed
	}

	report, err := p.buildReport(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to build daily sales report: %w", err)
	}

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "report", report.Date)
	if err := p.cache.SetWithTTL(ctx, cacheKey, report, 48*time.Hour); err != nil {
		p.logger.WarnContext(ctx, "failed to cache daily report",
			slog.String("error", err.Error()))
	}

	p.logger.InfoContext(ctx, "daily sales report generated",
		slog.String("date", report.Date),
		slog.Int64("invoices", report.InvoiceCount),
		slog.Int64("units_sold", report.UnitsSold),
		slog.String("total_sales", report.TotalSales.StringFixed(2)))

	return nil
}

func (p *ReportProcessor) buildReport(ctx context.Context, day time.Time) (*DailySalesReport, error) {
	report := &DailySalesReport{
		Date:        day.Format("2006-01-02"),
		GeneratedAt: time.Now(),
	}

	summaryQuery := `
		SELECT COUNT(DISTINCT i.id),
			COALESCE(SUM(li.quantity), 0),
			COALESCE(SUM(li.quantity * li.price), 0)
		FROM invoices i
		JOIN invoice_items li ON li.invoice_id = i.id
		WHERE i.date >= $1 AND i.date < $2
	`

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	if err := p.db.QueryRow(ctx, summaryQuery, dayStart, dayEnd).Scan(
		&report.InvoiceCount,
		&report.UnitsSold,
		&report.TotalSales,
	); err != nil {
		return nil, err
	}

	topQuery := `
		SELECT li.item_id, li.name_mm,
			SUM(li.quantity) AS units,
			SUM(li.quantity * li.price) AS sales
		FROM invoices i
		JOIN invoice_items li ON li.invoice_id = i.id
		WHERE i.date >= $1 AND i.date < $2
		GROUP BY li.item_id, li.name_mm
		ORDER BY units DESC, sales DESC
		LIMIT 10
	`

	rows, err := p.db.Query(ctx, topQuery, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item ReportItem
		if err := rows.Scan(&item.ItemID, &item.NameMM, &item.UnitsSold, &item.Sales); err != nil {
			return nil, err
		}
		report.TopItems = append(report.TopItems, item)
	}

	return report, rows.Err()
}
