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
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

// AuthService handles login, logout and self-service password changes.
// Failed logins count toward a temporary lockout; every attempt, successful
// or not, lands on the audit trail.
type AuthService struct {
	userRepo        domainRepo.UserRepository
	auditRepo       domainRepo.AuditRepository
	hasher          PasswordHasher
	issuer          TokenIssuer
	maxAttempts     int
	lockoutDuration time.Duration
	minPasswordLen  int
	logger          *zap.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	userRepo domainRepo.UserRepository,
	auditRepo domainRepo.AuditRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	maxAttempts int,
	lockoutDuration time.Duration,
	minPasswordLen int,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		auditRepo:       auditRepo,
		hasher:          hasher,
		issuer:          issuer,
		maxAttempts:     maxAttempts,
		lockoutDuration: lockoutDuration,
		minPasswordLen:  minPasswordLen,
		logger:          logger,
	}
}

// Login authenticates credentials and issues an access token. Responses never
// reveal whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, input dto.Login, meta dto.RequestMeta) (*dto.LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		s.recordSessionEvent(ctx, 0, model.ActionLoginFailed, fmt.Sprintf("login failed for %s: unknown email", input.Email), meta)
		return nil, domainerrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if user.IsLocked(now) {
		s.recordSessionEvent(ctx, user.ID, model.ActionLoginFailed, fmt.Sprintf("login rejected for %s: account locked", user.Username), meta)
		return nil, domainerrors.ErrUserLocked
	}
	if !user.IsActive() {
		s.recordSessionEvent(ctx, user.ID, model.ActionLoginFailed, fmt.Sprintf("login rejected for %s: account inactive", user.Username), meta)
		return nil, domainerrors.ErrUserInactive
	}

	if !s.hasher.Compare(user.PasswordHash, input.Password) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= s.maxAttempts {
			until := now.Add(s.lockoutDuration)
			user.LockedUntil = &until
			user.FailedLoginAttempts = 0
			s.logger.Warn("account locked after repeated login failures",
				zap.Int64("user_id", user.ID),
				zap.Time("locked_until", until))
		}
		if err := s.userRepo.UpdateLoginState(ctx, user); err != nil {
			s.logger.Error("failed to persist login state", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		s.recordSessionEvent(ctx, user.ID, model.ActionLoginFailed, fmt.Sprintf("login failed for %s: bad password", user.Username), meta)
		return nil, domainerrors.ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
		if err := s.userRepo.UpdateLoginState(ctx, user); err != nil {
			s.logger.Error("failed to reset login state", zap.Int64("user_id", user.ID), zap.Error(err))
		}
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.recordSessionEvent(ctx, user.ID, model.ActionLogin, fmt.Sprintf("%s logged in", user.Username), meta)

	return &dto.LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        user,
	}, nil
}

// Logout records the end of a session. Tokens are stateless, so this exists
// for the audit trail only.
func (s *AuthService) Logout(ctx context.Context, actor policy.Actor, meta dto.RequestMeta) error {
	return s.auditRepo.Record(ctx, sessionEntry(actor.ID, model.ActionLogout, "session closed", meta))
}

// ChangePassword verifies the current password and replaces it, clearing any
// pending force-change flag.
func (s *AuthService) ChangePassword(ctx context.Context, actorID int64, input dto.PasswordChange, meta dto.RequestMeta) error {
	if err := validatePasswordLength(input.NewPassword, s.minPasswordLen); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}

	if !s.hasher.Compare(user.PasswordHash, input.CurrentPassword) {
		return domainerrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	before := user.Snapshot()
	user.PasswordHash = hash
	user.ForcePasswordChange = false
	user.UpdatedAt = time.Now().UTC()

	audit := sessionEntry(user.ID, model.ActionUpdate, fmt.Sprintf("%s changed password", user.Username), meta)
	audit.Entity = model.EntityUser
	audit.EntityID = user.ID
	audit.Before = before
	audit.After = user.Snapshot()

	return s.userRepo.UpdateWithAudit(ctx, user, audit)
}

// Me returns the authenticated user's own account.
func (s *AuthService) Me(ctx context.Context, actorID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, actorID)
}

func (s *AuthService) recordSessionEvent(ctx context.Context, userID int64, action model.ActionType, description string, meta dto.RequestMeta) {
	if err := s.auditRepo.Record(ctx, sessionEntry(userID, action, description, meta)); err != nil {
		s.logger.Error("failed to record session event",
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

func sessionEntry(userID int64, action model.ActionType, description string, meta dto.RequestMeta) *model.AuditLog {
	return &model.AuditLog{
		Entity:      model.EntitySession,
		Action:      action,
		UserID:      userID,
		Description: description,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		RequestID:   meta.RequestID,
		CreatedAt:   time.Now().UTC(),
	}
}
