package sales

import (
	"context"
	"errors"
)

// StockReader reads the current state of a product.
type StockReader interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
}

// StockValidator decides whether a quantity can be taken from a product.
// Built on a transaction-scoped Storage, its reads lock the product row.
type StockValidator struct {
	reader StockReader
}

// NewStockValidator returns a validator reading through reader.
func NewStockValidator(reader StockReader) *StockValidator {
	return &StockValidator{reader: reader}
}

// CheckAvailable fails with *InsufficientStockError when requested exceeds
// the current stock. An unknown product has no stock.
func (v *StockValidator) CheckAvailable(ctx context.Context, productID string, requested int) error {
	p, err := v.reader.GetProduct(ctx, productID)
	if errors.Is(err, ErrProductNotFound) {
		return &InsufficientStockError{ProductID: productID, Requested: requested, Available: 0}
	}
	if err != nil {
		return err
	}
	return checkStock(p.ID, requested, p.StockQuantity)
}

func checkStock(productID string, requested, available int) error {
	if requested > available {
		return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
	}
	return nil
}
