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

type auditRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository instance
func NewAuditRepository(db *gorm.DB, logger *zap.Logger) domainRepo.AuditRepository {
	return &auditRepository{db: db, logger: logger}
}

func (r *auditRepository) Record(ctx context.Context, entry *model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return domainerrors.NewAuditWriteError(err)
	}
	return nil
}

func (r *auditRepository) GetByID(ctx context.Context, id int64) (*model.AuditLog, error) {
	var entry model.AuditLog
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrAuditLogNotFound
		}
		return nil, fmt.Errorf("failed to get audit log: %w", err)
	}
	return &entry, nil
}

func (r *auditRepository) Query(ctx context.Context, filters domainRepo.AuditFilters) ([]model.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if filters.Entity != nil {
		query = query.Where("audit_logs.entity = ?", *filters.Entity)
	}
	if filters.Action != nil {
		query = query.Where("audit_logs.action = ?", *filters.Action)
	}
	if filters.UserID != nil {
		query = query.Where("audit_logs.user_id = ?", *filters.UserID)
	}
	if filters.ProjectID != nil {
		query = query.Where("audit_logs.project_id = ?", *filters.ProjectID)
	}
	if filters.From != nil {
		query = query.Where("audit_logs.created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("audit_logs.created_at <= ?", *filters.To)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.
			Joins("LEFT JOIN users ON users.id = audit_logs.user_id").
			Joins("LEFT JOIN projects ON projects.id = audit_logs.project_id").
			Where("users.username ILIKE ? OR projects.name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var entries []model.AuditLog
	err := query.
		Select("audit_logs.*").
		Order("audit_logs.created_at DESC").
		Offset(filters.Offset).
		Limit(filters.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit logs: %w", err)
	}

	return entries, total, nil
}

func (r *auditRepository) PurgeBefore(ctx context.Context, cutoff time.Time, actions []model.ActionType) (int64, error) {
	query := r.db.WithContext(ctx).Where("created_at < ?", cutoff)
	if len(actions) > 0 {
		query = query.Where("action IN ?", actions)
	}

	result := query.Delete(&model.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge audit logs: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("purged audit logs",
			zap.Int64("rows", result.RowsAffected),
			zap.Time("cutoff", cutoff))
	}
	return result.RowsAffected, nil
}
