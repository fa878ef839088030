package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domainerrors "github.com/nutrilab/imc-registry/internal/domain/errors"
	"github.com/nutrilab/imc-registry/internal/domain/model"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
	apperrors "github.com/nutrilab/imc-registry/pkg/errors"
)

// correlativeRetries bounds how often a create is retried after losing the
// correlative race on the (project_id, correlative) unique index.
const correlativeRetries = 3

type volunteerRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewVolunteerRepository creates a new volunteer repository instance
func NewVolunteerRepository(db *gorm.DB, logger *zap.Logger) domainRepo.VolunteerRepository {
	return &volunteerRepository{db: db, logger: logger}
}

func (r *volunteerRepository) GetByID(ctx context.Context, projectID, id int64) (*model.Volunteer, error) {
	var volunteer model.Volunteer
	err := r.db.WithContext(ctx).
		Preload("Registrar").
		Where("project_id = ? AND id = ?", projectID, id).
		First(&volunteer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	return &volunteer, nil
}

func (r *volunteerRepository) FindByID(ctx context.Context, id int64) (*model.Volunteer, error) {
	var volunteer model.Volunteer
	err := r.db.WithContext(ctx).First(&volunteer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("failed to find volunteer: %w", err)
	}
	return &volunteer, nil
}

func (r *volunteerRepository) List(ctx context.Context, projectID int64, filters domainRepo.VolunteerFilters) ([]model.Volunteer, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Volunteer{}).
		Where("project_id = ?", projectID)

	if !filters.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if filters.Gender != nil {
		query = query.Where("gender = ?", *filters.Gender)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Search != "" {
		query = query.Where("CONCAT('Volunteer ', correlative) ILIKE ?", "%"+filters.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count volunteers: %w", err)
	}

	var volunteers []model.Volunteer
	err := query.
		Preload("Registrar").
		Order("correlative ASC").
		Offset(filters.Offset).
		Limit(filters.Limit).
		Find(&volunteers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list volunteers: %w", err)
	}

	return volunteers, total, nil
}

func (r *volunteerRepository) ListAllActive(ctx context.Context, projectID int64) ([]model.Volunteer, error) {
	var volunteers []model.Volunteer
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND is_deleted = ?", projectID, false).
		Order("correlative ASC").
		Find(&volunteers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	return volunteers, nil
}

// CreateWithAudit assigns the next correlative and inserts the volunteer and
// its audit entry in one transaction. Losing the correlative race surfaces as
// a unique violation, in which case the whole transaction is retried with a
// freshly computed correlative.
func (r *volunteerRepository) CreateWithAudit(ctx context.Context, volunteer *model.Volunteer, audit *model.AuditLog) error {
	var lastErr error

	for attempt := 0; attempt < correlativeRetries; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var maxCorrelative int
			row := tx.Model(&model.Volunteer{}).
				Where("project_id = ?", volunteer.ProjectID).
				Select("COALESCE(MAX(correlative), 0)")
			if err := row.Scan(&maxCorrelative).Error; err != nil {
				return fmt.Errorf("failed to compute next correlative: %w", err)
			}
			volunteer.Correlative = maxCorrelative + 1

			if err := tx.Create(volunteer).Error; err != nil {
				return err
			}

			audit.EntityID = volunteer.ID
			audit.After = volunteer.Snapshot()
			if err := tx.Create(audit).Error; err != nil {
				return domainerrors.NewAuditWriteError(err)
			}
			return nil
		})
		if err == nil {
			return nil
		}

		if isUniqueViolation(err) {
			r.logger.Warn("correlative race lost, retrying",
				zap.Int64("project_id", volunteer.ProjectID),
				zap.Int("correlative", volunteer.Correlative),
				zap.Int("attempt", attempt+1))
			volunteer.ID = 0
			lastErr = err
			continue
		}
		return err
	}

	return apperrors.NewAppError(apperrors.ErrConflict, "could not assign volunteer correlative", lastErr)
}

func (r *volunteerRepository) UpdateWithAudit(ctx context.Context, volunteer *model.Volunteer, audit *model.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(volunteer).Error; err != nil {
			return fmt.Errorf("failed to update volunteer: %w", err)
		}
		if err := tx.Create(audit).Error; err != nil {
			return domainerrors.NewAuditWriteError(err)
		}
		return nil
	})
}

func (r *volunteerRepository) Statistics(ctx context.Context, projectID int64) (*domainRepo.ProjectStatistics, error) {
	stats := &domainRepo.ProjectStatistics{
		ByCategory: make(map[string]int64),
		ByGender:   make(map[string]int64),
		ByColor:    make(map[string]int64),
	}

	base := r.db.WithContext(ctx).Model(&model.Volunteer{}).
		Where("project_id = ? AND is_deleted = ?", projectID, false)

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count volunteers: %w", err)
	}

	if stats.Total > 0 {
		var agg struct {
			Avg decimal.Decimal
			Min decimal.Decimal
			Max decimal.Decimal
		}
		err := base.Session(&gorm.Session{}).
			Select("ROUND(AVG(bmi), 2) AS avg, MIN(bmi) AS min, MAX(bmi) AS max").
			Scan(&agg).Error
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate bmi: %w", err)
		}
		stats.AverageBMI = &agg.Avg
		stats.MinBMI = &agg.Min
		stats.MaxBMI = &agg.Max
	}

	type bucket struct {
		Key   string
		Count int64
	}

	groupings := []struct {
		column string
		dest   map[string]int64
	}{
		{"category", stats.ByCategory},
		{"gender", stats.ByGender},
		{"color", stats.ByColor},
	}
	for _, g := range groupings {
		var rows []bucket
		err := base.Session(&gorm.Session{}).
			Select(g.column + " AS key, COUNT(*) AS count").
			Group(g.column).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to group by %s: %w", g.column, err)
		}
		for _, row := range rows {
			g.dest[row.Key] = row.Count
		}
	}

	return stats, nil
}

// isUniqueViolation reports whether err is a postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
