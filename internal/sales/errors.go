package sales

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a sale with the given ID is not found.
	ErrNotFound = errors.New("sale not found")

	// ErrEmptyCart is returned when committing a cart without lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientStock matches every *InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrPersistence matches every *PersistenceError.
	ErrPersistence = errors.New("persistence failure")

	// ErrInvalidQuantity rejects cart quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrProductNotFound is returned for an unknown product id.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRange is returned when a range starts after it ends.
	ErrInvalidRange = errors.New("range start is after range end")
)

// InsufficientStockError reports a request that exceeds the available stock.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// SaleNotFoundError carries the id of the missing sale.
type SaleNotFoundError struct {
	SaleID string
}

func (e *SaleNotFoundError) Error() string { return fmt.Sprintf("sale %s not found", e.SaleID) }

func (e *SaleNotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError means the store could not complete a transaction. The
// transaction was rolled back, so the operation can be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrPersistence, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// persistenceFailure passes domain errors through and wraps anything else.
func persistenceFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	switch {
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrNotFound),
		errors.As(err, &pe):
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
