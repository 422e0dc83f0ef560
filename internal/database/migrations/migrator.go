package migrations

import (
	"fmt"
	"sort"

	"caltrack-backend-go/internal/logger"
	"gorm.io/gorm"
)

// Migration is a single schema change, applied at most once.
type Migration struct {
	ID   string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

var migrations = make(map[string]Migration)

// Register adds a migration to the registry. IDs are applied in sorted order.
func Register(id string, up, down func(*gorm.DB) error) {
	migrations[id] = Migration{ID: id, Up: up, Down: down}
}

// MigrationRecord tracks executed migrations.
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// RunMigrations executes all registered migrations that have not run yet.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var ids []string
	for id := range migrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}
	executedMap := make(map[string]bool, len(executed))
	for _, m := range executed {
		executedMap[m.ID] = true
	}

	for _, id := range ids {
		if executedMap[id] {
			continue
		}
		logger.Info("Running migration", "id", id)
		if err := migrations[id].Up(db); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", id, err)
		}
		if err := db.Create(&MigrationRecord{ID: id}).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", id, err)
		}
	}
	return nil
}
