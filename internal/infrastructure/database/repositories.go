package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nutrilab/imc-registry/internal/adapter/repository"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	User      domainRepo.UserRepository
	Project   domainRepo.ProjectRepository
	Volunteer domainRepo.VolunteerRepository
	Audit     domainRepo.AuditRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		User:      repository.NewUserRepository(db, logger),
		Project:   repository.NewProjectRepository(db, logger),
		Volunteer: repository.NewVolunteerRepository(db, logger),
		Audit:     repository.NewAuditRepository(db, logger),
	}
}
