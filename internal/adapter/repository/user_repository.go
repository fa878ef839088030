package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domainerrors "github.com/nutrilab/imc-registry/internal/domain/errors"
	"github.com/nutrilab/imc-registry/internal/domain/model"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
)

type userRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB, logger *zap.Logger) domainRepo.UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []model.User
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r *userRepository) CreateWithAudit(ctx context.Context, user *model.User, audit *model.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return userConflictError(err)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		audit.EntityID = user.ID
		audit.After = user.Snapshot()
		if err := tx.Create(audit).Error; err != nil {
			return domainerrors.NewAuditWriteError(err)
		}
		return nil
	})
}

func (r *userRepository) UpdateWithAudit(ctx context.Context, user *model.User, audit *model.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			if isUniqueViolation(err) {
				return userConflictError(err)
			}
			return fmt.Errorf("failed to update user: %w", err)
		}
		if err := tx.Create(audit).Error; err != nil {
			return domainerrors.NewAuditWriteError(err)
		}
		return nil
	})
}

// userConflictError maps a unique violation on the users table to the field
// sentinel, going by the violated constraint. Email wins when the constraint
// name is unavailable, e.g. under gorm's translated errors.
func userConflictError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.Contains(pgErr.ConstraintName, "username") {
		return domainerrors.ErrUsernameTaken
	}
	return domainerrors.ErrEmailTaken
}

func (r *userRepository) UpdateLoginState(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Model(user).
		Select("failed_login_attempts", "locked_until").
		Updates(map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts,
			"locked_until":          user.LockedUntil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update login state: %w", err)
	}
	return nil
}
