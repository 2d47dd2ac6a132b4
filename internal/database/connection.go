// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/benepisyo/benefits-backend/internal/config"
	"github.com/benepisyo/benefits-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool. Every logical operation holds one
	// connection for its full transactional duration.
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Run auto-migrations for the core tables
	err := db.AutoMigrate(
		&models.Applicant{},
		&models.Dependent{},
		&models.Classification{},
		&models.Needs{},
		&models.EmergencyContact{},
		&models.Account{},
		&models.AcceptedLog{},
		&models.DeclinedLog{},
		&models.TerminatedLog{},
		&models.RemarkedLog{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// One table per document kind, all sharing the Document row shape.
	// The (code) unique index enforces at most one row per (code, kind).
	for _, meta := range models.DocumentKindMetas() {
		if err := db.Table(meta.Table).AutoMigrate(&models.Document{}); err != nil {
			return fmt.Errorf("failed to migrate document table %s: %w", meta.Table, err)
		}
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Applicant lookups by email (duplicate precheck) and code
		"CREATE INDEX IF NOT EXISTS idx_applicants_barangay ON applicants(barangay)",
		"CREATE INDEX IF NOT EXISTS idx_applicants_created_at ON applicants(created_at DESC)",

		// Account dashboards filter by status
		"CREATE INDEX IF NOT EXISTS idx_accounts_status ON accounts(status)",

		// Notification feeds read the logs newest-first per account
		"CREATE INDEX IF NOT EXISTS idx_accepted_logs_account_created ON accepted_logs(account_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_declined_logs_account_created ON declined_logs(account_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_terminated_logs_account_created ON terminated_logs(account_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_remarked_logs_account_created ON remarked_logs(account_id, created_at DESC)",

		// Audit trail
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates the default administrator account.
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var adminCount int64
	db.Model(&models.Account{}).Where("role IN ?", []models.AccountRole{models.AccountRoleAdmin, models.AccountRoleSuperAdmin}).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.Account{
			Email:  "admin@benefits-registry.gov.ph",
			Name:   "System Administrator",
			Role:   models.AccountRoleSuperAdmin,
			Status: models.AccountStatusVerified,
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}

		log.Println("Default admin account created successfully")
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// LockForUpdate adds SELECT ... FOR UPDATE semantics on dialects that
// support it. The sqlite databases used in tests serialize writes anyway.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
