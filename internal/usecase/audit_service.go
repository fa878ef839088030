package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/domain/entity"
	"github.com/nutrilab/imc-registry/internal/domain/model"
	"github.com/nutrilab/imc-registry/internal/domain/policy"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

// deletedActorPlaceholder labels entries whose actor or entity no longer
// resolves; the trail itself is never rewritten.
const deletedActorPlaceholder = "(deleted)"

// AuditService serves the read side of the audit trail. Entries come back
// with actor and entity names resolved best-effort.
type AuditService struct {
	auditRepo     domainRepo.AuditRepository
	userRepo      domainRepo.UserRepository
	projectRepo   domainRepo.ProjectRepository
	volunteerRepo domainRepo.VolunteerRepository
	policy        *policy.Evaluator
	logger        *zap.Logger
}

// NewAuditService creates a new audit service instance
func NewAuditService(
	auditRepo domainRepo.AuditRepository,
	userRepo domainRepo.UserRepository,
	projectRepo domainRepo.ProjectRepository,
	volunteerRepo domainRepo.VolunteerRepository,
	pol *policy.Evaluator,
	logger *zap.Logger,
) *AuditService {
	return &AuditService{
		auditRepo:     auditRepo,
		userRepo:      userRepo,
		projectRepo:   projectRepo,
		volunteerRepo: volunteerRepo,
		policy:        pol,
		logger:        logger,
	}
}

// Query returns audit entries matching the filters, newest first.
func (s *AuditService) Query(ctx context.Context, query dto.AuditQuery, page entity.PaginationParams, actor policy.Actor) ([]model.AuditLog, entity.PaginationMeta, error) {
	if err := s.policy.CanPerform(actor, policy.ActionAuditRead, policy.Resource{}); err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	page.Validate()
	entries, total, err := s.auditRepo.Query(ctx, domainRepo.AuditFilters{
		Entity:    query.Entity,
		Action:    query.Action,
		UserID:    query.UserID,
		ProjectID: query.ProjectID,
		From:      query.From,
		To:        query.To,
		Search:    query.Search,
		Offset:    page.CalculateOffset(),
		Limit:     page.Limit,
	})
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	for i := range entries {
		s.resolveNames(ctx, &entries[i])
	}

	return entries, entity.NewPaginationMeta(page.Page, page.Limit, total), nil
}

// Get returns one audit entry with names resolved.
func (s *AuditService) Get(ctx context.Context, id int64, actor policy.Actor) (*model.AuditLog, error) {
	if err := s.policy.CanPerform(actor, policy.ActionAuditRead, policy.Resource{}); err != nil {
		return nil, err
	}

	entry, err := s.auditRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolveNames(ctx, entry)
	return entry, nil
}

// resolveNames fills ActorName and EntityName. Lookups that fail fall back to
// a placeholder rather than failing the read.
func (s *AuditService) resolveNames(ctx context.Context, entry *model.AuditLog) {
	entry.ActorName = deletedActorPlaceholder
	if entry.UserID != 0 {
		if user, err := s.userRepo.GetByID(ctx, entry.UserID); err == nil {
			entry.ActorName = user.Username
		}
	}

	switch entry.Entity {
	case model.EntityProject:
		if project, err := s.projectRepo.GetByID(ctx, entry.EntityID); err == nil {
			entry.EntityName = project.Name
		} else {
			entry.EntityName = deletedActorPlaceholder
		}
	case model.EntityVolunteer:
		if volunteer, err := s.volunteerRepo.FindByID(ctx, entry.EntityID); err == nil {
			entry.EntityName = volunteer.Label()
		} else {
			entry.EntityName = deletedActorPlaceholder
		}
	case model.EntityUser:
		if user, err := s.userRepo.GetByID(ctx, entry.EntityID); err == nil {
			entry.EntityName = user.Username
		} else if entry.EntityID != 0 {
			entry.EntityName = deletedActorPlaceholder
		}
	case model.EntitySession, model.EntityReport:
		entry.EntityName = fmt.Sprintf("%s event", entry.Entity)
	}
}
