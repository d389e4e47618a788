package sales

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestGormStorage_CreateSaleRequiresID(t *testing.T) {
	db := newTestDB(t)
	store := NewGormStorage(db, zaptest.NewLogger(t))

	err := store.CreateSale(context.Background(), &Sale{StaffID: "S7", Date: testNow})
	assert.ErrorIs(t, err, ErrEmptyID)
	assert.Zero(t, countRows(t, db, &Sale{}))
}

func TestGormStorage_SearchTreatsWildcardsLiterally(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seedProduct(t, db, "P", "10.00", 10)
	seedStaff(t, db, "S1", "Ana 100%")
	seedStaff(t, db, "S2", "Ana 1000")

	_, err := svc.Commit(ctx, cartOf(t, svc, "P", 1), "S1")
	require.NoError(t, err)
	_, err = svc.Commit(ctx, cartOf(t, svc, "P", 1), "S2")
	require.NoError(t, err)

	got, err := svc.Search(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "S1", got[0].StaffID)

	got, err = svc.Search(ctx, "  ana  ")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}
