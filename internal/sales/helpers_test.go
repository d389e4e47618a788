package sales

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var testNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func newTestService(t *testing.T, opts ...Option) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	logger := zaptest.NewLogger(t)
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(NewGormStorage(db, logger), logger, opts...), db
}

func seedProduct(t *testing.T, db *gorm.DB, id, price string, stock int) Product {
	t.Helper()
	p := Product{
		ID:            id,
		Name:          "product " + id,
		UnitPrice:     decimal.RequireFromString(price),
		StockQuantity: stock,
		CategoryID:    "general",
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedStaff(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	require.NoError(t, db.Create(&Staff{ID: id, Name: name}).Error)
}

func stockOf(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()
	var p Product
	require.NoError(t, db.Where("id = ?", id).First(&p).Error)
	return p.StockQuantity
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

// cartOf builds a cart from the current catalog state.
func cartOf(t *testing.T, svc *Service, items ...any) *Cart {
	t.Helper()
	cart := NewCart()
	for i := 0; i < len(items); i += 2 {
		p, err := svc.GetProduct(context.Background(), items[i].(string))
		require.NoError(t, err)
		require.NoError(t, cart.AddItem(*p, items[i+1].(int)))
	}
	return cart
}
