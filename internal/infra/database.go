package infra

import (
	"fmt"

	"pdstock/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the schema. Shared with the integration tests so a
// fresh container ends up identical to a fresh deployment.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Operator{},
		&model.Product{},
		&model.StockItem{},
		&model.ReceiptHistory{},
		&model.ReleaseHistory{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index backing the allocation engine's locked batch scan.
		// Released rows only accumulate, so keeping them out of the index
		// keeps the FOR UPDATE scan cheap.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_items_batch_in_stock') THEN
		    CREATE INDEX idx_stock_items_batch_in_stock
		        ON stock_items (batch_no, received_at)
		        WHERE status = 'In Stock';
		  END IF;
		END $$`,
		// Duplicate-batch advisory queries the latest receipt of a batch code.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_receipt_history_batch') THEN
		    CREATE INDEX idx_receipt_history_batch
		        ON receipt_history (batch_no, created_at DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
