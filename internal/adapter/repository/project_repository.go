package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domainerrors "github.com/nutrilab/imc-registry/internal/domain/errors"
	"github.com/nutrilab/imc-registry/internal/domain/model"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
)

type projectRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ProjectRepository {
	return &projectRepository{db: db, logger: logger}
}

func (r *projectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Responsible").
		First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := r.fillVolunteerCount(ctx, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, filters domainRepo.ProjectFilters) ([]model.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Project{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	var projects []model.Project
	err := query.
		Preload("Responsible").
		Order("created_at DESC").
		Offset(filters.Offset).
		Limit(filters.Limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	for i := range projects {
		if err := r.fillVolunteerCount(ctx, &projects[i]); err != nil {
			return nil, 0, err
		}
	}

	return projects, total, nil
}

func (r *projectRepository) CreateWithAudit(ctx context.Context, project *model.Project, audit *model.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		audit.EntityID = project.ID
		audit.ProjectID = &project.ID
		audit.After = project.Snapshot()
		if err := tx.Create(audit).Error; err != nil {
			return domainerrors.NewAuditWriteError(err)
		}
		return nil
	})
}

func (r *projectRepository) UpdateWithAudit(ctx context.Context, project *model.Project, audit *model.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(project).Error; err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
		if err := tx.Create(audit).Error; err != nil {
			return domainerrors.NewAuditWriteError(err)
		}
		return nil
	})
}

func (r *projectRepository) ListClosedBefore(ctx context.Context, cutoff time.Time) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", model.ProjectStatusClosed, cutoff).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list closed projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) fillVolunteerCount(ctx context.Context, project *model.Project) error {
	err := r.db.WithContext(ctx).Model(&model.Volunteer{}).
		Where("project_id = ? AND is_deleted = ?", project.ID, false).
		Count(&project.VolunteerCount).Error
	if err != nil {
		return fmt.Errorf("failed to count project volunteers: %w", err)
	}
	return nil
}
