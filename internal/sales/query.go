package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListAll returns every sale ordered by date, then id.
func (s *Service) ListAll(ctx context.Context) ([]*Sale, error) {
	out, err := s.storage.ListSales(ctx, SaleFilter{})
	if err != nil {
		s.logger.Error("failed to list sales", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	return out, nil
}

// Search returns sales whose staff name, staff id or sale id contains text,
// ignoring case. Leading and trailing spaces of text are ignored, so blank
// text matches everything.
func (s *Service) Search(ctx context.Context, text string) ([]*Sale, error) {
	out, err := s.storage.ListSales(ctx, SaleFilter{Text: text})
	if err != nil {
		s.logger.Error("failed to search sales", zap.String("text", text), zap.Error(err))
		return nil, fmt.Errorf("failed to search sales: %w", err)
	}
	s.logger.Debug("sales search completed", zap.String("text", text), zap.Int("results_count", len(out)))
	return out, nil
}

// ListInRange returns sales dated within [start, end].
func (s *Service) ListInRange(ctx context.Context, start, end time.Time) ([]*Sale, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	out, err := s.storage.ListSales(ctx, SaleFilter{Start: &start, End: &end})
	if err != nil {
		s.logger.Error("failed to list sales in range",
			zap.Time("start", start), zap.Time("end", end), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	return out, nil
}

// GetSale returns one sale with its details.
func (s *Service) GetSale(ctx context.Context, id string) (*Sale, error) {
	return s.storage.GetSale(ctx, id)
}

// TotalAmount sums the totals of the sales dated within [start, end].
func (s *Service) TotalAmount(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	if start.After(end) {
		return decimal.Zero, ErrInvalidRange
	}
	rows, err := s.storage.SaleTotals(ctx, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum sales: %w", err)
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total)
	}
	return total, nil
}

// TotalCount counts the sales dated within [start, end].
func (s *Service) TotalCount(ctx context.Context, start, end time.Time) (int64, error) {
	if start.After(end) {
		return 0, ErrInvalidRange
	}
	n, err := s.storage.CountSales(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to count sales: %w", err)
	}
	return n, nil
}
