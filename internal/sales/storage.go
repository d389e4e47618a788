package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEmptyID is returned when trying to store a sale with an empty ID.
var ErrEmptyID = errors.New("empty sale ID")

// SaleFilter narrows ListSales. Zero values disable a criterion.
type SaleFilter struct {
	Text  string
	Start *time.Time
	End   *time.Time
}

// Storage is the main interface for our sales storage layer. A Storage
// handed to a WithinTx callback is bound to that transaction and locks the
// product and sale rows it reads.
type Storage interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	DecrementStock(ctx context.Context, productID string, qty int) (bool, error)
	IncrementStock(ctx context.Context, productID string, qty int) error

	CreateSale(ctx context.Context, sale *Sale) error
	GetSale(ctx context.Context, id string) (*Sale, error)
	DeleteSale(ctx context.Context, id string) error
	ListSales(ctx context.Context, filter SaleFilter) ([]*Sale, error)
	SaleTotals(ctx context.Context, start, end time.Time) ([]*Sale, error)
	CountSales(ctx context.Context, start, end time.Time) (int64, error)

	WithinTx(ctx context.Context, fn func(tx Storage) error) error
}

// GormStorage implements Storage on top of gorm.
type GormStorage struct {
	db      *gorm.DB
	logger  *zap.Logger
	locking bool
}

// NewGormStorage instantiates a storage over an open gorm connection.
func NewGormStorage(db *gorm.DB, logger *zap.Logger) *GormStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormStorage{db: db, logger: logger.With(zap.String("component", "sales_storage"))}
}

// WithinTx runs fn in a single database transaction. fn returning an error
// rolls everything back.
func (s *GormStorage) WithinTx(ctx context.Context, fn func(tx Storage) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStorage{db: tx, logger: s.logger, locking: true})
	})
}

func (s *GormStorage) query(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx)
	if s.locking {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// GetProduct returns ErrProductNotFound for an unknown id.
func (s *GormStorage) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := s.query(ctx).Where("id = ?", id).Limit(1).Find(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// DecrementStock takes qty units only if that many are available. It
// reports false when the guard rejected the update.
func (s *GormStorage) DecrementStock(ctx context.Context, productID string, qty int) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStorage) IncrementStock(ctx context.Context, productID string, qty int) error {
	res := s.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrProductNotFound
	}
	return nil
}

// CreateSale inserts the sale header together with its details.
// Returns ErrEmptyID if the sale has an empty ID.
func (s *GormStorage) CreateSale(ctx context.Context, sale *Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	return s.db.WithContext(ctx).Omit("Staff").Create(sale).Error
}

// GetSale returns the sale with its staff and details, or *SaleNotFoundError.
func (s *GormStorage) GetSale(ctx context.Context, id string) (*Sale, error) {
	var sale Sale
	err := s.query(ctx).
		Preload("Staff").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("product_id ASC") }).
		Where("id = ?", id).
		Limit(1).
		Find(&sale).Error
	if err != nil {
		return nil, err
	}
	if sale.ID == "" {
		return nil, &SaleNotFoundError{SaleID: id}
	}
	return &sale, nil
}

// DeleteSale removes the details, then the header.
func (s *GormStorage) DeleteSale(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("sale_id = ?", id).Delete(&SaleDetail{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&Sale{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return &SaleNotFoundError{SaleID: id}
	}
	return nil
}

// ListSales returns sales ordered by date then id, staff preloaded.
// filter.Text is trimmed before matching; % and _ in it match literally.
func (s *GormStorage) ListSales(ctx context.Context, filter SaleFilter) ([]*Sale, error) {
	q := s.db.WithContext(ctx).Model(&Sale{}).Preload("Staff")
	if text := strings.TrimSpace(filter.Text); text != "" {
		pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
		q = q.Joins("LEFT JOIN staff ON staff.id = sale.staff_id").
			Where(`LOWER(sale.id) LIKE ? ESCAPE '\' OR LOWER(sale.staff_id) LIKE ? ESCAPE '\' OR LOWER(staff.name) LIKE ? ESCAPE '\'`,
				pattern, pattern, pattern)
	}
	if filter.Start != nil {
		q = q.Where(clause.Gte{Column: saleDateColumn, Value: filter.Start.UTC()})
	}
	if filter.End != nil {
		q = q.Where(clause.Lte{Column: saleDateColumn, Value: filter.End.UTC()})
	}

	var out []*Sale
	err := q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: saleDateColumn},
		{Column: clause.Column{Table: "sale", Name: "id"}},
	}}).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SaleTotals loads only the id and total of every sale in [start, end].
func (s *GormStorage) SaleTotals(ctx context.Context, start, end time.Time) ([]*Sale, error) {
	var out []*Sale
	err := s.inRange(ctx, start, end).Select("id", "total").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStorage) CountSales(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	if err := s.inRange(ctx, start, end).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

var saleDateColumn = clause.Column{Table: "sale", Name: "date"}

func (s *GormStorage) inRange(ctx context.Context, start, end time.Time) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&Sale{}).
		Where(clause.Gte{Column: saleDateColumn, Value: start.UTC()}).
		Where(clause.Lte{Column: saleDateColumn, Value: end.UTC()})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
