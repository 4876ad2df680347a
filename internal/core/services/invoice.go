// internal/core/services/invoice.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nweoo/zaycho-be/internal/core/domain"
	"github.com/nweoo/zaycho-be/internal/core/ports"
)

// InvoiceService handles invoice business logic
type InvoiceService struct {
	repo   ports.InvoiceRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

// Statically assert that *InvoiceService implements the InvoiceService interface.
var _ ports.InvoiceService = (*InvoiceService)(nil)

// NewInvoiceService creates a new invoice service
func NewInvoiceService(repo ports.InvoiceRepository, cache ports.CacheRepository, logger *slog.Logger) *InvoiceService {
	return &InvoiceService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("service", "invoice")),
	}
}

// CreateInvoice validates the submitted invoice, cross-checks its declared
// total against the line snapshots and persists it together with the stock
// decrements in one transaction. A client total that disagrees with the
// lines is rejected, not silently corrected.
func (s *InvoiceService) CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	inv.PrepareForStorage()

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.invalidateCategories(ctx)

	s.logger.InfoContext(ctx, "created invoice",
		slog.String("invoice_number", inv.InvoiceNumber),
		slog.String("customer", inv.CustomerName),
		slog.String("total", inv.TotalAmount.StringFixed(2)))

	return inv, nil
}

// GetByNumber retrieves an invoice by its invoice number
func (s *InvoiceService) GetByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error) {
	inv, err := s.repo.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}

	return inv, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, params ports.InvoiceListParams) (*ports.InvoiceListResult, error) {
	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return result, nil
}

func (s *InvoiceService) invalidateCategories(ctx context.Context) {
	if err := s.cache.Delete(ctx, categoriesCacheKey); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate categories cache", "err", err)
	}
}
