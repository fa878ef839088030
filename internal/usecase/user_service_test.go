package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainerrors "github.com/nutrilab/imc-registry/internal/domain/errors"
	"github.com/nutrilab/imc-registry/internal/domain/model"
	"github.com/nutrilab/imc-registry/internal/domain/policy"
	"github.com/nutrilab/imc-registry/internal/usecase"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
	apperrors "github.com/nutrilab/imc-registry/pkg/errors"
)

func newUserService(userRepo *MockUserRepository, hasher *MockPasswordHasher) *usecase.UserService {
	return usecase.NewUserService(userRepo, hasher, policy.NewEvaluator(), testMinPasswordLen, zap.NewNop())
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	admin := policy.Actor{ID: 1, Role: model.RoleAdministrator}
	meta := dto.RequestMeta{RequestID: "req-1"}

	t.Run("new accounts must change password on first login", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		service := newUserService(userRepo, hasher)

		userRepo.On("GetByUsername", mock.Anything, "jdoe").Return(nil, domainerrors.ErrUserNotFound)
		hasher.On("Hash", "initial-password").Return("hash", nil)
		userRepo.On("CreateWithAudit", mock.Anything, mock.AnythingOfType("*model.User"), mock.AnythingOfType("*model.AuditLog")).Return(nil)

		user, err := service.Create(ctx, dto.UserCreate{
			Username: "jdoe",
			Email:    "jdoe@example.com",
			Password: "initial-password",
			Role:     model.RoleUser,
		}, admin, meta)

		require.NoError(t, err)
		assert.True(t, user.ForcePasswordChange)
		assert.Equal(t, "hash", user.PasswordHash)
		assert.Equal(t, admin.ID, *user.CreatedBy)

		var createCall *mock.Call
		for i := range userRepo.Calls {
			if userRepo.Calls[i].Method == "CreateWithAudit" {
				createCall = &userRepo.Calls[i]
			}
		}
		require.NotNil(t, createCall)
		audit := createCall.Arguments.Get(2).(*model.AuditLog)
		assert.Equal(t, model.EntityUser, audit.Entity)
		assert.NotContains(t, audit.After, "password_hash")
	})

	t.Run("duplicate username is rejected before hashing", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		service := newUserService(userRepo, hasher)

		userRepo.On("GetByUsername", mock.Anything, "jdoe").Return(&model.User{ID: 7, Username: "jdoe"}, nil)

		_, err := service.Create(ctx, dto.UserCreate{
			Username: "jdoe",
			Email:    "other@example.com",
			Password: "initial-password",
			Role:     model.RoleUser,
		}, admin, meta)

		assert.ErrorIs(t, err, domainerrors.ErrUsernameTaken)
		hasher.AssertNotCalled(t, "Hash", mock.Anything)
	})

	t.Run("password below the configured minimum is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		service := newUserService(userRepo, hasher)

		_, err := service.Create(ctx, dto.UserCreate{
			Username: "jdoe",
			Email:    "jdoe@example.com",
			Password: "short",
			Role:     model.RoleUser,
		}, admin, meta)

		assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))
		userRepo.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	})

	t.Run("non-administrators are forbidden", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		service := newUserService(userRepo, hasher)

		quality := policy.Actor{ID: 2, Role: model.RoleQuality}
		_, err := service.Create(ctx, dto.UserCreate{
			Username: "x", Email: "x@example.com", Password: "password", Role: model.RoleUser,
		}, quality, meta)

		var forbidden *domainerrors.ForbiddenError
		assert.ErrorAs(t, err, &forbidden)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	admin := policy.Actor{ID: 1, Role: model.RoleAdministrator}
	meta := dto.RequestMeta{RequestID: "req-2"}

	t.Run("administrator cannot deactivate own account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		service := newUserService(userRepo, hasher)

		userRepo.On("GetByID", mock.Anything, admin.ID).Return(&model.User{ID: admin.ID, Role: model.RoleAdministrator, Status: model.UserStatusActive}, nil)

		inactive := model.UserStatusInactive
		_, err := service.Update(ctx, admin.ID, dto.UserUpdate{Status: &inactive}, admin, meta)

		assert.ErrorIs(t, err, domainerrors.ErrSelfDeactivation)
	})

	t.Run("deactivating another account works", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		service := newUserService(userRepo, hasher)

		userRepo.On("GetByID", mock.Anything, int64(3)).Return(&model.User{ID: 3, Role: model.RoleUser, Status: model.UserStatusActive}, nil)
		userRepo.On("UpdateWithAudit", mock.Anything, mock.AnythingOfType("*model.User"), mock.AnythingOfType("*model.AuditLog")).Return(nil)

		inactive := model.UserStatusInactive
		user, err := service.Update(ctx, 3, dto.UserUpdate{Status: &inactive}, admin, meta)

		require.NoError(t, err)
		assert.Equal(t, model.UserStatusInactive, user.Status)
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	admin := policy.Actor{ID: 1, Role: model.RoleAdministrator}
	meta := dto.RequestMeta{RequestID: "req-3"}

	userRepo := new(MockUserRepository)
	hasher := new(MockPasswordHasher)
	service := newUserService(userRepo, hasher)

	locked := &model.User{ID: 3, Username: "jdoe", Role: model.RoleUser, Status: model.UserStatusActive, FailedLoginAttempts: 4}
	userRepo.On("GetByID", mock.Anything, int64(3)).Return(locked, nil)
	hasher.On("Hash", "fresh-password").Return("fresh-hash", nil)
	userRepo.On("UpdateWithAudit", mock.Anything, locked, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	err := service.ResetPassword(ctx, 3, dto.PasswordReset{NewPassword: "fresh-password"}, admin, meta)

	require.NoError(t, err)
	assert.Equal(t, "fresh-hash", locked.PasswordHash)
	assert.True(t, locked.ForcePasswordChange)
	assert.Equal(t, 0, locked.FailedLoginAttempts)
	assert.Nil(t, locked.LockedUntil)
}

func TestUserService_ResetPassword_BelowMinimumLength(t *testing.T) {
	userRepo := new(MockUserRepository)
	hasher := new(MockPasswordHasher)
	service := newUserService(userRepo, hasher)

	admin := policy.Actor{ID: 1, Role: model.RoleAdministrator}
	err := service.ResetPassword(context.Background(), 3, dto.PasswordReset{NewPassword: "tiny"}, admin, dto.RequestMeta{})

	assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))
	hasher.AssertNotCalled(t, "Hash", mock.Anything)
}
