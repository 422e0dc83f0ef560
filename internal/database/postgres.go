package database

import (
	"fmt"

	"caltrack-backend-go/internal/config"
	"caltrack-backend-go/internal/database/migrations"
	"caltrack-backend-go/internal/domain"
	"caltrack-backend-go/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	// Composite index covering the hot query path: entries by owner and day
	// prefix. AutoMigrate creates the single-column indexes from model tags;
	// this one spans both.
	migrations.Register("20240301_entries_user_date_idx",
		func(db *gorm.DB) error {
			return db.Exec(`CREATE INDEX IF NOT EXISTS idx_entries_user_date ON entries (user_id, date)`).Error
		},
		func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_entries_user_date`).Error
		})
}

// NewPostgresDB opens the database connection, runs pending migrations and
// auto-migrates the schema. The returned handle is constructed once at process
// start and injected into repositories; there is no lazy global.
func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Entry{}, &domain.Favorite{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
