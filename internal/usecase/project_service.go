package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/domain/entity"
	domainerrors "github.com/nutrilab/imc-registry/internal/domain/errors"
	"github.com/nutrilab/imc-registry/internal/domain/model"
	"github.com/nutrilab/imc-registry/internal/domain/policy"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

// ProjectService handles the project lifecycle. Status moves one way only,
// Active -> Closed -> Archived, and archived projects freeze every write
// underneath them.
type ProjectService struct {
	projectRepo domainRepo.ProjectRepository
	userRepo    domainRepo.UserRepository
	policy      *policy.Evaluator
	logger      *zap.Logger
}

// NewProjectService creates a new project service instance
func NewProjectService(
	projectRepo domainRepo.ProjectRepository,
	userRepo domainRepo.UserRepository,
	pol *policy.Evaluator,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		policy:      pol,
		logger:      logger,
	}
}

// Create opens a project in Active status. Only Administrators may name a
// different responsible user; for everyone else the actor becomes responsible.
func (s *ProjectService) Create(ctx context.Context, input dto.ProjectCreate, actor policy.Actor, meta dto.RequestMeta) (*model.Project, error) {
	responsibleID := actor.ID
	if input.ResponsibleID != nil && *input.ResponsibleID != actor.ID {
		if actor.Role != model.RoleAdministrator {
			return nil, domainerrors.NewForbiddenError(string(policy.ActionProjectCreate), string(actor.Role))
		}
		responsibleID = *input.ResponsibleID
	}

	if err := s.policy.CanPerform(actor, policy.ActionProjectCreate, policy.Resource{
		ProjectResponsibleID: responsibleID,
	}); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, responsibleID); err != nil {
		return nil, fmt.Errorf("responsible user lookup failed: %w", err)
	}

	now := time.Now().UTC()
	startDate := now
	if input.StartDate != nil {
		startDate = *input.StartDate
	}

	project := &model.Project{
		Name:          input.Name,
		Description:   input.Description,
		ResponsibleID: responsibleID,
		Status:        model.ProjectStatusActive,
		StartDate:     startDate,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	audit := newAuditEntry(model.EntityProject, model.ActionCreate, actor, meta)

	if err := s.projectRepo.CreateWithAudit(ctx, project, audit); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		zap.Int64("project_id", project.ID),
		zap.String("name", project.Name),
		zap.Int64("actor_id", actor.ID))

	return project, nil
}

// Update applies a partial patch. Status changes run through the transition
// rules; an archived project rejects every change.
func (s *ProjectService) Update(ctx context.Context, id int64, patch dto.ProjectUpdate, actor policy.Actor, meta dto.RequestMeta) (*model.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Status == model.ProjectStatusArchived {
		return nil, domainerrors.ErrProjectArchived
	}

	res := policy.Resource{
		ProjectResponsibleID: project.ResponsibleID,
		ProjectStatus:        project.Status,
	}
	if patch.Status != nil {
		res.TargetStatus = *patch.Status
	}
	if err := s.policy.CanPerform(actor, policy.ActionProjectUpdate, res); err != nil {
		return nil, err
	}

	if patch.Status != nil && !project.Status.CanTransitionTo(*patch.Status) {
		return nil, domainerrors.InvalidTransition(string(project.Status), string(*patch.Status))
	}

	before := project.Snapshot()

	// Quality reaches this point only for archival; the status change is the
	// whole of what it may apply.
	if actor.Role != model.RoleQuality {
		if patch.Name != nil {
			project.Name = *patch.Name
		}
		if patch.Description != nil {
			project.Description = *patch.Description
		}
		if patch.ResponsibleID != nil && *patch.ResponsibleID != project.ResponsibleID {
			if actor.Role != model.RoleAdministrator {
				return nil, domainerrors.NewForbiddenError(string(policy.ActionProjectUpdate), string(actor.Role))
			}
			if _, err := s.userRepo.GetByID(ctx, *patch.ResponsibleID); err != nil {
				return nil, fmt.Errorf("responsible user lookup failed: %w", err)
			}
			project.ResponsibleID = *patch.ResponsibleID
		}
	}
	if patch.Status != nil {
		project.Status = *patch.Status
	}
	project.UpdatedAt = time.Now().UTC()

	audit := newAuditEntry(model.EntityProject, model.ActionUpdate, actor, meta)
	audit.ProjectID = &project.ID
	audit.EntityID = project.ID
	audit.Before = before
	audit.After = project.Snapshot()

	if err := s.projectRepo.UpdateWithAudit(ctx, project, audit); err != nil {
		return nil, err
	}

	return project, nil
}

// Archive moves the project to Archived, the terminal status. Recorded as an
// UPDATE on the audit trail with an explicit description.
func (s *ProjectService) Archive(ctx context.Context, id int64, actor policy.Actor, meta dto.RequestMeta) (*model.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.policy.CanPerform(actor, policy.ActionProjectArchive, policy.Resource{
		ProjectResponsibleID: project.ResponsibleID,
		ProjectStatus:        project.Status,
		TargetStatus:         model.ProjectStatusArchived,
	}); err != nil {
		return nil, err
	}

	if project.Status == model.ProjectStatusArchived {
		return nil, domainerrors.ErrProjectArchived
	}
	if !project.Status.CanTransitionTo(model.ProjectStatusArchived) {
		return nil, domainerrors.InvalidTransition(string(project.Status), string(model.ProjectStatusArchived))
	}

	before := project.Snapshot()
	project.Status = model.ProjectStatusArchived
	project.UpdatedAt = time.Now().UTC()

	audit := newAuditEntry(model.EntityProject, model.ActionUpdate, actor, meta)
	audit.ProjectID = &project.ID
	audit.EntityID = project.ID
	audit.Before = before
	audit.After = project.Snapshot()
	audit.Description = fmt.Sprintf("project %q archived", project.Name)

	if err := s.projectRepo.UpdateWithAudit(ctx, project, audit); err != nil {
		return nil, err
	}

	s.logger.Info("project archived",
		zap.Int64("project_id", project.ID),
		zap.Int64("actor_id", actor.ID))

	return project, nil
}

// Get returns a project by id.
func (s *ProjectService) Get(ctx context.Context, id int64, actor policy.Actor) (*model.Project, error) {
	if err := s.policy.CanPerform(actor, policy.ActionProjectRead, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.projectRepo.GetByID(ctx, id)
}

// List returns projects matching the filters, newest first.
func (s *ProjectService) List(ctx context.Context, filters dto.ProjectListFilters, page entity.PaginationParams, actor policy.Actor) ([]model.Project, entity.PaginationMeta, error) {
	if err := s.policy.CanPerform(actor, policy.ActionProjectRead, policy.Resource{}); err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	page.Validate()
	projects, total, err := s.projectRepo.List(ctx, domainRepo.ProjectFilters{
		Status: filters.Status,
		Search: filters.Search,
		Offset: page.CalculateOffset(),
		Limit:  page.Limit,
	})
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	return projects, entity.NewPaginationMeta(page.Page, page.Limit, total), nil
}
