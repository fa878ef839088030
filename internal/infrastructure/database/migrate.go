package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nutrilab/imc-registry/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	// Auto-migrate all models
	err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Volunteer{},
		&model.AuditLog{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	// Create custom constraints GORM doesn't handle automatically
	if err := createCustomConstraints(db); err != nil {
		logger.Error("Failed to create custom constraints", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomConstraints adds CHECK constraints for measurement ranges and
// project status values. AutoMigrate covers indexes declared in model tags.
func createCustomConstraints(db *gorm.DB) error {
	statements := []string{
		`ALTER TABLE volunteers DROP CONSTRAINT IF EXISTS chk_volunteer_weight`,
		`ALTER TABLE volunteers ADD CONSTRAINT chk_volunteer_weight CHECK (weight_kg > 0 AND weight_kg <= 500)`,
		`ALTER TABLE volunteers DROP CONSTRAINT IF EXISTS chk_volunteer_height`,
		`ALTER TABLE volunteers ADD CONSTRAINT chk_volunteer_height CHECK (height_m >= 1.00 AND height_m <= 2.50)`,
		`ALTER TABLE volunteers DROP CONSTRAINT IF EXISTS chk_volunteer_correlative`,
		`ALTER TABLE volunteers ADD CONSTRAINT chk_volunteer_correlative CHECK (correlative >= 1)`,
		`ALTER TABLE projects DROP CONSTRAINT IF EXISTS chk_project_status`,
		`ALTER TABLE projects ADD CONSTRAINT chk_project_status CHECK (status IN ('Active', 'Closed', 'Archived'))`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
