package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/domain/entity"
	domainerrors "github.com/nutrilab/imc-registry/internal/domain/errors"
	"github.com/nutrilab/imc-registry/internal/domain/model"
	"github.com/nutrilab/imc-registry/internal/domain/policy"
	"github.com/nutrilab/imc-registry/internal/usecase"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

func newAuditService(auditRepo *MockAuditRepository, userRepo *MockUserRepository, projectRepo *MockProjectRepository, volunteerRepo *MockVolunteerRepository) *usecase.AuditService {
	return usecase.NewAuditService(auditRepo, userRepo, projectRepo, volunteerRepo, policy.NewEvaluator(), zap.NewNop())
}

func TestAuditService_Query(t *testing.T) {
	ctx := context.Background()
	quality := policy.Actor{ID: 2, Role: model.RoleQuality}

	t.Run("resolves actor and entity names", func(t *testing.T) {
		auditRepo := new(MockAuditRepository)
		userRepo := new(MockUserRepository)
		projectRepo := new(MockProjectRepository)
		volunteerRepo := new(MockVolunteerRepository)
		service := newAuditService(auditRepo, userRepo, projectRepo, volunteerRepo)

		entries := []model.AuditLog{
			{ID: 1, Entity: model.EntityVolunteer, EntityID: 5, Action: model.ActionCreate, UserID: 3},
		}
		auditRepo.On("Query", mock.Anything, mock.AnythingOfType("repository.AuditFilters")).Return(entries, int64(1), nil)
		userRepo.On("GetByID", mock.Anything, int64(3)).Return(&model.User{ID: 3, Username: "jdoe"}, nil)
		volunteerRepo.On("FindByID", mock.Anything, int64(5)).Return(&model.Volunteer{ID: 5, Correlative: 2}, nil)

		result, meta, err := service.Query(ctx, dto.AuditQuery{}, entity.PaginationParams{Page: 1, Limit: 20}, quality)

		require.NoError(t, err)
		assert.Equal(t, int64(1), meta.Total)
		assert.Equal(t, "jdoe", result[0].ActorName)
		assert.Equal(t, "Volunteer 2", result[0].EntityName)
	})

	t.Run("missing references fall back to a placeholder", func(t *testing.T) {
		auditRepo := new(MockAuditRepository)
		userRepo := new(MockUserRepository)
		projectRepo := new(MockProjectRepository)
		volunteerRepo := new(MockVolunteerRepository)
		service := newAuditService(auditRepo, userRepo, projectRepo, volunteerRepo)

		entries := []model.AuditLog{
			{ID: 2, Entity: model.EntityProject, EntityID: 10, Action: model.ActionUpdate, UserID: 99},
		}
		auditRepo.On("Query", mock.Anything, mock.AnythingOfType("repository.AuditFilters")).Return(entries, int64(1), nil)
		userRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, domainerrors.ErrUserNotFound)
		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(nil, domainerrors.ErrProjectNotFound)

		result, _, err := service.Query(ctx, dto.AuditQuery{}, entity.PaginationParams{Page: 1, Limit: 20}, quality)

		require.NoError(t, err)
		assert.Equal(t, "(deleted)", result[0].ActorName)
		assert.Equal(t, "(deleted)", result[0].EntityName)
	})

	t.Run("regular users cannot read the trail", func(t *testing.T) {
		auditRepo := new(MockAuditRepository)
		userRepo := new(MockUserRepository)
		projectRepo := new(MockProjectRepository)
		volunteerRepo := new(MockVolunteerRepository)
		service := newAuditService(auditRepo, userRepo, projectRepo, volunteerRepo)

		user := policy.Actor{ID: 3, Role: model.RoleUser}
		_, _, err := service.Query(ctx, dto.AuditQuery{}, entity.PaginationParams{Page: 1, Limit: 20}, user)

		var forbidden *domainerrors.ForbiddenError
		assert.ErrorAs(t, err, &forbidden)
		auditRepo.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
	})
}
