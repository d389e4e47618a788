package sales

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Commit persists cart as a sale attributed to staffID and takes the sold
// quantities out of stock, all in one transaction. On any error nothing is
// written. The caller discards the cart after a successful commit.
//
// Once the transaction has started it runs to completion even if ctx is
// cancelled.
func (s *Service) Commit(ctx context.Context, cart *Cart, staffID string) (string, error) {
	if cart == nil || cart.Len() == 0 {
		return "", s.commitFailed(staffID, ErrEmptyCart)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("commit sale: %w", err)
	}

	lines := slices.Collect(cart.Lines())
	for _, l := range lines {
		if err := s.validator.CheckAvailable(ctx, l.ProductID, l.Quantity); err != nil {
			s.logger.Warn("cart rejected before commit",
				zap.String("staff_id", staffID),
				zap.String("product_id", l.ProductID),
				zap.Error(err))
			return "", s.commitFailed(staffID, persistenceFailure("validate cart", err))
		}
	}

	sale := &Sale{
		ID:      uuid.NewString(),
		Date:    s.now().UTC(),
		StaffID: staffID,
		Total:   cart.Total(),
		Details: make([]SaleDetail, 0, len(lines)),
	}
	items := 0
	for _, l := range lines {
		sale.Details = append(sale.Details, SaleDetail{
			SaleID:    sale.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
		items += l.Quantity
	}

	// Rows are locked in product id order so concurrent commits touching
	// the same products cannot deadlock.
	ordered := slices.Clone(lines)
	slices.SortFunc(ordered, func(a, b CartLine) int { return strings.Compare(a.ProductID, b.ProductID) })

	txCtx := context.WithoutCancel(ctx)
	err := s.storage.WithinTx(txCtx, func(tx Storage) error {
		locked := NewStockValidator(tx)
		for _, l := range ordered {
			if err := locked.CheckAvailable(txCtx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}

		if err := tx.CreateSale(txCtx, sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		for _, l := range ordered {
			ok, err := tx.DecrementStock(txCtx, l.ProductID, l.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock of %s: %w", l.ProductID, err)
			}
			if !ok {
				available := 0
				if p, err := tx.GetProduct(txCtx, l.ProductID); err == nil {
					available = p.StockQuantity
				}
				return &InsufficientStockError{ProductID: l.ProductID, Requested: l.Quantity, Available: available}
			}
		}
		return nil
	})
	if err != nil {
		err = persistenceFailure("commit sale", err)
		s.logger.Error("failed to commit sale",
			zap.String("staff_id", staffID),
			zap.Int("lines", len(lines)),
			zap.Error(err))
		return "", s.commitFailed(staffID, err)
	}

	s.logger.Info("sale committed",
		zap.String("sale_id", sale.ID),
		zap.String("staff_id", staffID),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.Int("items", items))
	s.notifier.publish(Event{
		Kind:    EventSaleCommitted,
		SaleID:  sale.ID,
		StaffID: staffID,
		Total:   sale.Total,
		Items:   items,
		At:      sale.Date,
	})
	return sale.ID, nil
}

func (s *Service) commitFailed(staffID string, err error) error {
	s.notifier.publish(Event{Kind: EventCommitFailed, StaffID: staffID, At: s.now().UTC(), Err: err})
	return err
}
