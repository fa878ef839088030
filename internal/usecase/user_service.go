package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainerrors "github.com/nutrilab/imc-registry/internal/domain/errors"
	"github.com/nutrilab/imc-registry/internal/domain/model"
	"github.com/nutrilab/imc-registry/internal/domain/policy"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
	apperrors "github.com/nutrilab/imc-registry/pkg/errors"
)

// PasswordHasher abstracts password hashing so services stay testable.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// UserService handles account administration. Every operation here is
// Administrator-only; accounts are deactivated, never deleted.
type UserService struct {
	userRepo       domainRepo.UserRepository
	hasher         PasswordHasher
	policy         *policy.Evaluator
	minPasswordLen int
	logger         *zap.Logger
}

// NewUserService creates a new user service instance
func NewUserService(
	userRepo domainRepo.UserRepository,
	hasher PasswordHasher,
	pol *policy.Evaluator,
	minPasswordLen int,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		hasher:         hasher,
		policy:         pol,
		minPasswordLen: minPasswordLen,
		logger:         logger,
	}
}

// Create provisions an account. New accounts must change their password on
// first login.
func (s *UserService) Create(ctx context.Context, input dto.UserCreate, actor policy.Actor, meta dto.RequestMeta) (*model.User, error) {
	if err := s.policy.CanPerform(actor, policy.ActionUserManage, policy.Resource{}); err != nil {
		return nil, err
	}

	if err := validatePasswordLength(input.Password, s.minPasswordLen); err != nil {
		return nil, err
	}

	// Friendly conflict before hashing; the unique indexes remain the
	// backstop against races.
	if _, err := s.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, domainerrors.ErrUsernameTaken
	} else if !apperrors.Is(err, domainerrors.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		Username:            input.Username,
		Email:               input.Email,
		PasswordHash:        hash,
		Role:                input.Role,
		Status:              model.UserStatusActive,
		ForcePasswordChange: true,
		CreatedBy:           &actor.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	audit := newAuditEntry(model.EntityUser, model.ActionCreate, actor, meta)

	if err := s.userRepo.CreateWithAudit(ctx, user, audit); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Int64("actor_id", actor.ID))

	return user, nil
}

// Update applies a partial patch over the mutable account fields. An
// Administrator cannot deactivate their own account.
func (s *UserService) Update(ctx context.Context, id int64, patch dto.UserUpdate, actor policy.Actor, meta dto.RequestMeta) (*model.User, error) {
	if err := s.policy.CanPerform(actor, policy.ActionUserManage, policy.Resource{}); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && *patch.Status == model.UserStatusInactive && id == actor.ID {
		return nil, domainerrors.ErrSelfDeactivation
	}

	before := user.Snapshot()

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Status != nil {
		user.Status = *patch.Status
	}
	if patch.ForcePasswordChange != nil {
		user.ForcePasswordChange = *patch.ForcePasswordChange
	}
	user.UpdatedAt = time.Now().UTC()

	audit := newAuditEntry(model.EntityUser, model.ActionUpdate, actor, meta)
	audit.EntityID = user.ID
	audit.Before = before
	audit.After = user.Snapshot()

	if err := s.userRepo.UpdateWithAudit(ctx, user, audit); err != nil {
		return nil, err
	}

	return user, nil
}

// ResetPassword sets a new password and forces a change on next login.
func (s *UserService) ResetPassword(ctx context.Context, id int64, input dto.PasswordReset, actor policy.Actor, meta dto.RequestMeta) error {
	if err := s.policy.CanPerform(actor, policy.ActionUserManage, policy.Resource{}); err != nil {
		return err
	}

	if err := validatePasswordLength(input.NewPassword, s.minPasswordLen); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	before := user.Snapshot()
	user.PasswordHash = hash
	user.ForcePasswordChange = true
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.UpdatedAt = time.Now().UTC()

	audit := newAuditEntry(model.EntityUser, model.ActionUpdate, actor, meta)
	audit.EntityID = user.ID
	audit.Before = before
	audit.After = user.Snapshot()
	audit.Description = fmt.Sprintf("password reset for %s", user.Username)

	if err := s.userRepo.UpdateWithAudit(ctx, user, audit); err != nil {
		return err
	}

	s.logger.Info("password reset",
		zap.Int64("user_id", user.ID),
		zap.Int64("actor_id", actor.ID))

	return nil
}

// Get returns an account by id.
func (s *UserService) Get(ctx context.Context, id int64, actor policy.Actor) (*model.User, error) {
	if err := s.policy.CanPerform(actor, policy.ActionUserManage, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

// List returns all accounts, paginated.
func (s *UserService) List(ctx context.Context, offset, limit int, actor policy.Actor) ([]model.User, int64, error) {
	if err := s.policy.CanPerform(actor, policy.ActionUserManage, policy.Resource{}); err != nil {
		return nil, 0, err
	}
	return s.userRepo.List(ctx, offset, limit)
}

func validatePasswordLength(password string, min int) error {
	if len(password) < min {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument,
			fmt.Sprintf("password must be at least %d characters", min), nil)
	}
	return nil
}
