package infra

import (
	"fmt"

	"bizzops/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and configures the
// connection pool. Callers run RunMigrations separately.
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
	return db, nil
}

// RunMigrations creates or updates all tables. Shared with integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Owner{},
		&model.InventoryItem{},
		&model.Customer{},
		&model.CustomerTransaction{},
		&model.Vendor{},
		&model.VendorTransaction{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.InvoiceCounter{},
		&model.Expense{},
		&model.Staff{},
		&model.Task{},
		&model.Appointment{},
		&model.Deal{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index for the dashboard's unpaid-invoice aggregates.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_invoices_unpaid') THEN
		    CREATE INDEX idx_invoices_unpaid ON invoices (owner_id, date) WHERE NOT paid;
		  END IF;
		END $$`,
		// Stock can never be negative; the service-level guard enforces this
		// too, the constraint is the backstop.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_non_negative') THEN
		    ALTER TABLE inventory_items ADD CONSTRAINT chk_stock_non_negative CHECK (stock_remain >= 0);
		  END IF;
		END $$`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
