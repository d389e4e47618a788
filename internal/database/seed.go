package database

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pos_sales/internal/sales"
)

// Seed is the catalog and staff fixture loaded at start-up.
type Seed struct {
	Staff    []sales.Staff   `yaml:"staff"`
	Products []sales.Product `yaml:"products"`
}

// LoadSeed parses a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, p := range seed.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("seed product #%d has no id", i+1)
		}
		if p.StockQuantity < 0 {
			return nil, fmt.Errorf("seed product %s has negative stock", p.ID)
		}
	}
	return &seed, nil
}

// Apply inserts the seed rows. Rows whose id already exists are left as
// they are, so re-applying never resets stock.
func (s *Seed) Apply(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(s.Staff) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&s.Staff).Error; err != nil {
				return fmt.Errorf("seed staff: %w", err)
			}
		}
		if len(s.Products) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&s.Products).Error; err != nil {
				return fmt.Errorf("seed products: %w", err)
			}
		}
		logger.Info("seed applied",
			zap.Int("staff", len(s.Staff)),
			zap.Int("products", len(s.Products)))
		return nil
	})
}
