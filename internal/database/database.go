package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"pos_sales/internal/config"
	"pos_sales/internal/sales"
)

// Open connects to the configured store and migrates the sales schema.
func Open(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	log := logger.With(zap.String("driver", cfg.DBDriver))

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}

	log.Info("connecting to database")
	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// sqlite allows a single writer; one connection makes transactions queue
		// instead of failing with SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("auto migration failed", zap.Error(err))
		return nil, err
	}
	log.Info("database ready")
	return db, nil
}

// AutoMigrate creates or updates the product, staff, sale and sale_detail tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(sales.Models()...); err != nil {
		return fmt.Errorf("failed to migrate sales schema: %w", err)
	}
	return nil
}
