package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. The engine only reads it, except for
// stock_quantity which is changed by Commit and Delete.
type Product struct {
	ID            string          `gorm:"primaryKey;type:varchar(64)" json:"id" yaml:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name" yaml:"name"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price" yaml:"unit_price"`
	StockQuantity int             `gorm:"not null;check:chk_product_stock,stock_quantity >= 0" json:"stock_quantity" yaml:"stock_quantity"`
	CategoryID    string          `gorm:"type:varchar(64);index" json:"category_id" yaml:"category_id"`
}

func (Product) TableName() string { return "product" }

// Staff is the member a sale is attributed to.
type Staff struct {
	ID   string `gorm:"primaryKey;type:varchar(64)" json:"id" yaml:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name" yaml:"name"`
}

func (Staff) TableName() string { return "staff" }

// Sale represents a committed sales transaction.
type Sale struct {
	ID      string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Date    time.Time       `gorm:"not null;index" json:"date"`
	StaffID string          `gorm:"type:varchar(64);not null;index" json:"staff_id"`
	Total   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	Staff   *Staff       `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Details []SaleDetail `gorm:"foreignKey:SaleID" json:"details,omitempty"`
}

func (Sale) TableName() string { return "sale" }

// SaleDetail is one line of a sale. UnitPrice is frozen at commit time.
type SaleDetail struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"-"`
	SaleID    string          `gorm:"type:varchar(64);not null;index" json:"sale_id"`
	ProductID string          `gorm:"type:varchar(64);not null" json:"product_id"`
	Quantity  int             `gorm:"not null;check:chk_sale_detail_quantity,quantity > 0" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
}

func (SaleDetail) TableName() string { return "sale_detail" }

// LineTotal returns UnitPrice × Quantity.
func (d SaleDetail) LineTotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{&Product{}, &Staff{}, &Sale{}, &SaleDetail{}}
}
