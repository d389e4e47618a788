package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapReader map[string]*Product

func (m mapReader) GetProduct(_ context.Context, id string) (*Product, error) {
	if p, ok := m[id]; ok {
		return p, nil
	}
	return nil, ErrProductNotFound
}

type failingReader struct{ err error }

func (f failingReader) GetProduct(context.Context, string) (*Product, error) { return nil, f.err }

func TestStockValidator_CheckAvailable(t *testing.T) {
	p := product("P", "10.00", 5)
	v := NewStockValidator(mapReader{"P": &p})
	ctx := context.Background()

	assert.NoError(t, v.CheckAvailable(ctx, "P", 5))
	assert.NoError(t, v.CheckAvailable(ctx, "P", 1))

	err := v.CheckAvailable(ctx, "P", 6)
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, InsufficientStockError{ProductID: "P", Requested: 6, Available: 5}, *stockErr)
}

func TestStockValidator_UnknownProductHasNoStock(t *testing.T) {
	v := NewStockValidator(mapReader{})

	err := v.CheckAvailable(context.Background(), "ghost", 1)
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 0, stockErr.Available)
}

func TestStockValidator_ReaderError(t *testing.T) {
	boom := errors.New("boom")
	v := NewStockValidator(failingReader{err: boom})

	err := v.CheckAvailable(context.Background(), "P", 1)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrInsufficientStock))
}

func TestPersistenceFailure(t *testing.T) {
	stock := &InsufficientStockError{ProductID: "P"}
	assert.Same(t, stock, persistenceFailure("op", stock).(*InsufficientStockError))
	assert.Equal(t, ErrEmptyCart, persistenceFailure("op", ErrEmptyCart))
	assert.Nil(t, persistenceFailure("op", nil))

	cause := errors.New("disk full")
	err := persistenceFailure("commit sale", cause)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "commit sale")

	assert.Same(t, err, persistenceFailure("again", err))
}
