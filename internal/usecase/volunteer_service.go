package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/domain/bmi"
	"github.com/nutrilab/imc-registry/internal/domain/entity"
	domainerrors "github.com/nutrilab/imc-registry/internal/domain/errors"
	"github.com/nutrilab/imc-registry/internal/domain/model"
	"github.com/nutrilab/imc-registry/internal/domain/policy"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

// VolunteerService handles the volunteer lifecycle: creation with correlative
// assignment, measurement updates with BMI recomputation, soft deletion,
// listing and statistics. Every mutation is persisted together with exactly
// one audit entry.
type VolunteerService struct {
	volunteerRepo domainRepo.VolunteerRepository
	projectRepo   domainRepo.ProjectRepository
	engine        *bmi.Engine
	policy        *policy.Evaluator
	logger        *zap.Logger
}

// NewVolunteerService creates a new volunteer service instance
func NewVolunteerService(
	volunteerRepo domainRepo.VolunteerRepository,
	projectRepo domainRepo.ProjectRepository,
	engine *bmi.Engine,
	pol *policy.Evaluator,
	logger *zap.Logger,
) *VolunteerService {
	return &VolunteerService{
		volunteerRepo: volunteerRepo,
		projectRepo:   projectRepo,
		engine:        engine,
		policy:        pol,
		logger:        logger,
	}
}

// Create registers a volunteer on an Active project. The correlative is
// assigned inside the repository transaction; BMI fields are derived here and
// never taken from the payload.
func (s *VolunteerService) Create(ctx context.Context, projectID int64, input dto.VolunteerCreate, actor policy.Actor, meta dto.RequestMeta) (*model.Volunteer, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == model.ProjectStatusArchived {
		return nil, domainerrors.ErrProjectArchived
	}
	if project.Status != model.ProjectStatusActive {
		return nil, domainerrors.ErrProjectNotActive
	}

	if err := s.policy.CanPerform(actor, policy.ActionVolunteerCreate, policy.Resource{
		ProjectResponsibleID: project.ResponsibleID,
		ProjectStatus:        project.Status,
	}); err != nil {
		return nil, err
	}

	if err := validateMeasurements(input.WeightKg, input.HeightM); err != nil {
		return nil, err
	}

	result, err := s.engine.Compute(input.WeightKg, input.HeightM)
	if err != nil {
		return nil, fmt.Errorf("bmi computation failed: %w", err)
	}

	now := time.Now().UTC()
	volunteer := &model.Volunteer{
		ProjectID:    projectID,
		Gender:       input.Gender,
		WeightKg:     input.WeightKg,
		HeightM:      input.HeightM,
		BMI:          result.BMI,
		Category:     result.Category,
		Color:        result.Color,
		RegisteredBy: actor.ID,
		RegisteredAt: now,
	}

	audit := newAuditEntry(model.EntityVolunteer, model.ActionCreate, actor, meta)
	audit.ProjectID = &projectID

	if err := s.volunteerRepo.CreateWithAudit(ctx, volunteer, audit); err != nil {
		return nil, err
	}

	s.logger.Info("volunteer created",
		zap.Int64("project_id", projectID),
		zap.Int64("volunteer_id", volunteer.ID),
		zap.Int("correlative", volunteer.Correlative),
		zap.Int64("actor_id", actor.ID))

	return volunteer, nil
}

// Update applies a partial patch. BMI, category and color are recomputed only
// when weight or height actually changed; other patches leave them untouched.
func (s *VolunteerService) Update(ctx context.Context, projectID, id int64, patch dto.VolunteerUpdate, actor policy.Actor, meta dto.RequestMeta) (*model.Volunteer, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == model.ProjectStatusArchived {
		return nil, domainerrors.ErrProjectArchived
	}

	volunteer, err := s.volunteerRepo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if volunteer.IsDeleted {
		return nil, domainerrors.ErrVolunteerDeleted
	}

	if err := s.policy.CanPerform(actor, policy.ActionVolunteerUpdate, policy.Resource{
		ProjectResponsibleID: project.ResponsibleID,
		ProjectStatus:        project.Status,
		VolunteerRegistrarID: volunteer.RegisteredBy,
	}); err != nil {
		return nil, err
	}

	before := volunteer.Snapshot()

	if patch.Gender != nil {
		volunteer.Gender = *patch.Gender
	}

	measurementsChanged := false
	if patch.WeightKg != nil && !patch.WeightKg.Equal(volunteer.WeightKg) {
		volunteer.WeightKg = *patch.WeightKg
		measurementsChanged = true
	}
	if patch.HeightM != nil && !patch.HeightM.Equal(volunteer.HeightM) {
		volunteer.HeightM = *patch.HeightM
		measurementsChanged = true
	}

	if measurementsChanged {
		if err := validateMeasurements(volunteer.WeightKg, volunteer.HeightM); err != nil {
			return nil, err
		}
		result, err := s.engine.Compute(volunteer.WeightKg, volunteer.HeightM)
		if err != nil {
			return nil, fmt.Errorf("bmi computation failed: %w", err)
		}
		volunteer.BMI = result.BMI
		volunteer.Category = result.Category
		volunteer.Color = result.Color
	}

	volunteer.UpdatedAt = time.Now().UTC()

	audit := newAuditEntry(model.EntityVolunteer, model.ActionUpdate, actor, meta)
	audit.ProjectID = &projectID
	audit.EntityID = volunteer.ID
	audit.Before = before
	audit.After = volunteer.Snapshot()

	if err := s.volunteerRepo.UpdateWithAudit(ctx, volunteer, audit); err != nil {
		return nil, err
	}

	return volunteer, nil
}

// SoftDelete flags the record as deleted, recording who, when and why. The
// row is never removed and the correlative is never reused.
func (s *VolunteerService) SoftDelete(ctx context.Context, projectID, id int64, reason string, actor policy.Actor, meta dto.RequestMeta) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.Status == model.ProjectStatusArchived {
		return domainerrors.ErrProjectArchived
	}

	volunteer, err := s.volunteerRepo.GetByID(ctx, projectID, id)
	if err != nil {
		return err
	}
	if volunteer.IsDeleted {
		return domainerrors.ErrAlreadyDeleted
	}

	if err := s.policy.CanPerform(actor, policy.ActionVolunteerDelete, policy.Resource{
		ProjectResponsibleID: project.ResponsibleID,
		ProjectStatus:        project.Status,
		VolunteerRegistrarID: volunteer.RegisteredBy,
	}); err != nil {
		return err
	}

	before := volunteer.Snapshot()

	now := time.Now().UTC()
	volunteer.IsDeleted = true
	volunteer.DeletedBy = &actor.ID
	volunteer.DeletedAt = &now
	if reason != "" {
		volunteer.DeletionReason = &reason
	}

	audit := newAuditEntry(model.EntityVolunteer, model.ActionDelete, actor, meta)
	audit.ProjectID = &projectID
	audit.EntityID = volunteer.ID
	audit.Before = before
	audit.After = volunteer.Snapshot()
	audit.Description = deletionDescription(volunteer.Label(), reason)

	if err := s.volunteerRepo.UpdateWithAudit(ctx, volunteer, audit); err != nil {
		return err
	}

	s.logger.Info("volunteer soft-deleted",
		zap.Int64("project_id", projectID),
		zap.Int64("volunteer_id", id),
		zap.Int64("actor_id", actor.ID))

	return nil
}

// Get returns a volunteer by id, including soft-deleted rows with their flag set.
func (s *VolunteerService) Get(ctx context.Context, projectID, id int64, actor policy.Actor) (*model.Volunteer, error) {
	if err := s.policy.CanPerform(actor, policy.ActionVolunteerRead, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.volunteerRepo.GetByID(ctx, projectID, id)
}

// List returns the project's volunteers ordered by correlative ascending,
// excluding soft-deleted rows unless the filter requests them.
func (s *VolunteerService) List(ctx context.Context, projectID int64, filters dto.VolunteerListFilters, page entity.PaginationParams, actor policy.Actor) ([]model.Volunteer, entity.PaginationMeta, error) {
	if err := s.policy.CanPerform(actor, policy.ActionVolunteerRead, policy.Resource{}); err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	page.Validate()
	volunteers, total, err := s.volunteerRepo.List(ctx, projectID, domainRepo.VolunteerFilters{
		Gender:         filters.Gender,
		Category:       filters.Category,
		Search:         filters.Search,
		IncludeDeleted: filters.IncludeDeleted,
		Offset:         page.CalculateOffset(),
		Limit:          page.Limit,
	})
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	return volunteers, entity.NewPaginationMeta(page.Page, page.Limit, total), nil
}

// Statistics aggregates the project's non-deleted volunteers.
func (s *VolunteerService) Statistics(ctx context.Context, projectID int64, actor policy.Actor) (*domainRepo.ProjectStatistics, error) {
	if err := s.policy.CanPerform(actor, policy.ActionVolunteerRead, policy.Resource{}); err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.volunteerRepo.Statistics(ctx, projectID)
}

func validateMeasurements(weightKg, heightM decimal.Decimal) error {
	if !bmi.ValidWeight(weightKg) {
		return domainerrors.NewInvalidMeasurementError("weight_kg", weightKg, bmi.MinWeightKg, bmi.MaxWeightKg)
	}
	if !bmi.ValidHeight(heightM) {
		return domainerrors.NewInvalidMeasurementError("height_m", heightM, bmi.MinHeightM, bmi.MaxHeightM)
	}
	return nil
}

func deletionDescription(label, reason string) string {
	if reason == "" {
		return fmt.Sprintf("%s deleted", label)
	}
	return fmt.Sprintf("%s deleted: %s", label, reason)
}
