package sales

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Delete removes a sale and puts the quantities it sold back into stock, in
// one transaction. Prices are not reconciled. A missing sale fails with
// *SaleNotFoundError, so deleting twice never restores stock twice.
func (s *Service) Delete(ctx context.Context, saleID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}

	var deleted *Sale
	items := 0
	txCtx := context.WithoutCancel(ctx)
	err := s.storage.WithinTx(txCtx, func(tx Storage) error {
		sale, err := tx.GetSale(txCtx, saleID)
		if err != nil {
			return err
		}

		restore := map[string]int{}
		for _, d := range sale.Details {
			restore[d.ProductID] += d.Quantity
			items += d.Quantity
		}
		productIDs := make([]string, 0, len(restore))
		for id := range restore {
			productIDs = append(productIDs, id)
		}
		slices.Sort(productIDs)

		for _, id := range productIDs {
			if err := tx.IncrementStock(txCtx, id, restore[id]); err != nil {
				return fmt.Errorf("restore stock of %s: %w", id, err)
			}
		}
		if err := tx.DeleteSale(txCtx, saleID); err != nil {
			return err
		}
		deleted = sale
		return nil
	})
	if err != nil {
		err = persistenceFailure("delete sale", err)
		s.logger.Warn("failed to delete sale", zap.String("sale_id", saleID), zap.Error(err))
		return err
	}

	s.logger.Info("sale deleted",
		zap.String("sale_id", saleID),
		zap.Int("items_restored", items))
	s.notifier.publish(Event{
		Kind:    EventSaleDeleted,
		SaleID:  saleID,
		StaffID: deleted.StaffID,
		Total:   deleted.Total,
		Items:   items,
		At:      s.now().UTC(),
	})
	return nil
}
