package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/domain/bmi"
	"github.com/nutrilab/imc-registry/internal/domain/entity"
	domainerrors "github.com/nutrilab/imc-registry/internal/domain/errors"
	"github.com/nutrilab/imc-registry/internal/domain/model"
	"github.com/nutrilab/imc-registry/internal/domain/policy"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
	"github.com/nutrilab/imc-registry/internal/usecase"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newVolunteerService(volunteerRepo *MockVolunteerRepository, projectRepo *MockProjectRepository) *usecase.VolunteerService {
	return usecase.NewVolunteerService(
		volunteerRepo,
		projectRepo,
		bmi.NewEngine(bmi.DefaultThresholds()),
		policy.NewEvaluator(),
		zap.NewNop(),
	)
}

func activeProject(responsibleID int64) *model.Project {
	return &model.Project{
		ID:            10,
		Name:          "Nutrition Study",
		ResponsibleID: responsibleID,
		Status:        model.ProjectStatusActive,
		StartDate:     time.Now(),
	}
}

func TestVolunteerService_Create(t *testing.T) {
	ctx := context.Background()
	owner := policy.Actor{ID: 3, Role: model.RoleUser}
	meta := dto.RequestMeta{IPAddress: "10.0.0.1", RequestID: "req-1"}

	t.Run("derives BMI fields and emits a CREATE audit entry", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(activeProject(owner.ID), nil)
		volunteerRepo.On("CreateWithAudit", mock.Anything, mock.AnythingOfType("*model.Volunteer"), mock.AnythingOfType("*model.AuditLog")).
			Run(func(args mock.Arguments) {
				v := args.Get(1).(*model.Volunteer)
				v.ID = 1
				v.Correlative = 1
			}).
			Return(nil)

		volunteer, err := service.Create(ctx, 10, dto.VolunteerCreate{
			Gender:   model.GenderFemale,
			WeightKg: d("70.50"),
			HeightM:  d("1.75"),
		}, owner, meta)

		require.NoError(t, err)
		assert.Equal(t, "23.02", volunteer.BMI.StringFixed(2))
		assert.Equal(t, model.BMICategoryNormal, volunteer.Category)
		assert.Equal(t, model.BMIColorGreen, volunteer.Color)
		assert.Equal(t, "Volunteer 1", volunteer.Label())
		assert.Equal(t, owner.ID, volunteer.RegisteredBy)

		audit := volunteerRepo.Calls[0].Arguments.Get(2).(*model.AuditLog)
		assert.Equal(t, model.EntityVolunteer, audit.Entity)
		assert.Equal(t, model.ActionCreate, audit.Action)
		assert.Equal(t, owner.ID, audit.UserID)
		assert.Equal(t, "10.0.0.1", audit.IPAddress)
		volunteerRepo.AssertExpectations(t)
	})

	t.Run("rejects out-of-range measurements before persistence", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(activeProject(owner.ID), nil)

		_, err := service.Create(ctx, 10, dto.VolunteerCreate{
			Gender:   model.GenderMale,
			WeightKg: d("501.00"),
			HeightM:  d("1.75"),
		}, owner, meta)

		var invalid *domainerrors.InvalidMeasurementError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "weight_kg", invalid.Field)
		volunteerRepo.AssertNotCalled(t, "CreateWithAudit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("archived project is frozen even for administrators", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		project := activeProject(owner.ID)
		project.Status = model.ProjectStatusArchived
		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(project, nil)

		admin := policy.Actor{ID: 1, Role: model.RoleAdministrator}
		_, err := service.Create(ctx, 10, dto.VolunteerCreate{
			Gender:   model.GenderMale,
			WeightKg: d("70.00"),
			HeightM:  d("1.75"),
		}, admin, meta)

		assert.ErrorIs(t, err, domainerrors.ErrProjectArchived)
	})

	t.Run("non-responsible user is forbidden", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(activeProject(owner.ID), nil)

		stranger := policy.Actor{ID: 99, Role: model.RoleUser}
		_, err := service.Create(ctx, 10, dto.VolunteerCreate{
			Gender:   model.GenderMale,
			WeightKg: d("70.00"),
			HeightM:  d("1.75"),
		}, stranger, meta)

		var forbidden *domainerrors.ForbiddenError
		assert.ErrorAs(t, err, &forbidden)
	})
}

func existingVolunteer(registrarID int64) *model.Volunteer {
	return &model.Volunteer{
		ID:           5,
		ProjectID:    10,
		Correlative:  2,
		Gender:       model.GenderMale,
		WeightKg:     d("70.50"),
		HeightM:      d("1.75"),
		BMI:          d("23.02"),
		Category:     model.BMICategoryNormal,
		Color:        model.BMIColorGreen,
		RegisteredBy: registrarID,
		RegisteredAt: time.Now(),
	}
}

func TestVolunteerService_Update(t *testing.T) {
	ctx := context.Background()
	owner := policy.Actor{ID: 3, Role: model.RoleUser}
	meta := dto.RequestMeta{RequestID: "req-2"}

	t.Run("recomputes BMI when weight changes", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(activeProject(owner.ID), nil)
		volunteerRepo.On("GetByID", mock.Anything, int64(10), int64(5)).Return(existingVolunteer(owner.ID), nil)
		volunteerRepo.On("UpdateWithAudit", mock.Anything, mock.AnythingOfType("*model.Volunteer"), mock.AnythingOfType("*model.AuditLog")).Return(nil)

		weight := d("120.00")
		updated, err := service.Update(ctx, 10, 5, dto.VolunteerUpdate{WeightKg: &weight}, owner, meta)

		require.NoError(t, err)
		assert.Equal(t, "39.18", updated.BMI.StringFixed(2))
		assert.Equal(t, model.BMICategoryHigh, updated.Category)
		assert.Equal(t, model.BMIColorRed, updated.Color)
	})

	t.Run("gender-only patch leaves derived fields untouched", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(activeProject(owner.ID), nil)
		volunteerRepo.On("GetByID", mock.Anything, int64(10), int64(5)).Return(existingVolunteer(owner.ID), nil)
		volunteerRepo.On("UpdateWithAudit", mock.Anything, mock.AnythingOfType("*model.Volunteer"), mock.AnythingOfType("*model.AuditLog")).Return(nil)

		gender := model.GenderFemale
		updated, err := service.Update(ctx, 10, 5, dto.VolunteerUpdate{Gender: &gender}, owner, meta)

		require.NoError(t, err)
		assert.Equal(t, "23.02", updated.BMI.StringFixed(2))
		assert.Equal(t, model.GenderFemale, updated.Gender)
	})

	t.Run("equal measurement values do not trigger recomputation", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(activeProject(owner.ID), nil)
		volunteerRepo.On("GetByID", mock.Anything, int64(10), int64(5)).Return(existingVolunteer(owner.ID), nil)
		volunteerRepo.On("UpdateWithAudit", mock.Anything, mock.AnythingOfType("*model.Volunteer"), mock.AnythingOfType("*model.AuditLog")).Return(nil)

		sameWeight := d("70.50")
		updated, err := service.Update(ctx, 10, 5, dto.VolunteerUpdate{WeightKg: &sameWeight}, owner, meta)

		require.NoError(t, err)
		assert.Equal(t, "23.02", updated.BMI.StringFixed(2))
	})

	t.Run("deleted volunteer cannot be updated", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		deleted := existingVolunteer(owner.ID)
		deleted.IsDeleted = true
		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(activeProject(owner.ID), nil)
		volunteerRepo.On("GetByID", mock.Anything, int64(10), int64(5)).Return(deleted, nil)

		weight := d("80.00")
		_, err := service.Update(ctx, 10, 5, dto.VolunteerUpdate{WeightKg: &weight}, owner, meta)

		assert.ErrorIs(t, err, domainerrors.ErrVolunteerDeleted)
	})
}

func TestVolunteerService_List(t *testing.T) {
	ctx := context.Background()
	owner := policy.Actor{ID: 3, Role: model.RoleUser}
	page := entity.PaginationParams{Page: 1, Limit: 20}

	t.Run("search term is forwarded to the repository", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(activeProject(owner.ID), nil)
		volunteerRepo.On("List", mock.Anything, int64(10), mock.AnythingOfType("repository.VolunteerFilters")).
			Return([]model.Volunteer{*existingVolunteer(owner.ID)}, int64(1), nil)

		volunteers, meta, err := service.List(ctx, 10, dto.VolunteerListFilters{Search: "Volunteer 2"}, page, owner)

		require.NoError(t, err)
		assert.Len(t, volunteers, 1)
		assert.Equal(t, int64(1), meta.Total)

		filters := volunteerRepo.Calls[0].Arguments.Get(2).(domainRepo.VolunteerFilters)
		assert.Equal(t, "Volunteer 2", filters.Search)
		assert.False(t, filters.IncludeDeleted)
	})

	t.Run("gender and category filters pass through alongside paging", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(activeProject(owner.ID), nil)
		volunteerRepo.On("List", mock.Anything, int64(10), mock.AnythingOfType("repository.VolunteerFilters")).
			Return([]model.Volunteer{}, int64(0), nil)

		gender := model.GenderFemale
		category := model.BMICategoryHigh
		_, _, err := service.List(ctx, 10, dto.VolunteerListFilters{Gender: &gender, Category: &category}, entity.PaginationParams{Page: 2, Limit: 10}, owner)

		require.NoError(t, err)
		filters := volunteerRepo.Calls[0].Arguments.Get(2).(domainRepo.VolunteerFilters)
		assert.Equal(t, model.GenderFemale, *filters.Gender)
		assert.Equal(t, model.BMICategoryHigh, *filters.Category)
		assert.Empty(t, filters.Search)
		assert.Equal(t, 10, filters.Offset)
		assert.Equal(t, 10, filters.Limit)
	})
}

func TestVolunteerService_SoftDelete(t *testing.T) {
	ctx := context.Background()
	owner := policy.Actor{ID: 3, Role: model.RoleUser}
	meta := dto.RequestMeta{RequestID: "req-3"}

	t.Run("marks deleted and records reason", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(activeProject(owner.ID), nil)
		volunteerRepo.On("GetByID", mock.Anything, int64(10), int64(5)).Return(existingVolunteer(owner.ID), nil)
		volunteerRepo.On("UpdateWithAudit", mock.Anything, mock.AnythingOfType("*model.Volunteer"), mock.AnythingOfType("*model.AuditLog")).Return(nil)

		err := service.SoftDelete(ctx, 10, 5, "withdrew consent", owner, meta)
		require.NoError(t, err)

		var updateCall *mock.Call
		for i := range volunteerRepo.Calls {
			if volunteerRepo.Calls[i].Method == "UpdateWithAudit" {
				updateCall = &volunteerRepo.Calls[i]
			}
		}
		require.NotNil(t, updateCall)
		v := updateCall.Arguments.Get(1).(*model.Volunteer)
		audit := updateCall.Arguments.Get(2).(*model.AuditLog)
		assert.True(t, v.IsDeleted)
		assert.Equal(t, owner.ID, *v.DeletedBy)
		assert.Equal(t, "withdrew consent", *v.DeletionReason)
		assert.Equal(t, model.ActionDelete, audit.Action)
		assert.Contains(t, audit.Description, "withdrew consent")
	})

	t.Run("double delete is rejected", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		deleted := existingVolunteer(owner.ID)
		deleted.IsDeleted = true
		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(activeProject(owner.ID), nil)
		volunteerRepo.On("GetByID", mock.Anything, int64(10), int64(5)).Return(deleted, nil)

		err := service.SoftDelete(ctx, 10, 5, "", owner, meta)

		assert.ErrorIs(t, err, domainerrors.ErrAlreadyDeleted)
	})

	t.Run("archived project freezes deletion for administrators too", func(t *testing.T) {
		volunteerRepo := new(MockVolunteerRepository)
		projectRepo := new(MockProjectRepository)
		service := newVolunteerService(volunteerRepo, projectRepo)

		project := activeProject(owner.ID)
		project.Status = model.ProjectStatusArchived
		projectRepo.On("GetByID", mock.Anything, int64(10)).Return(project, nil)

		admin := policy.Actor{ID: 1, Role: model.RoleAdministrator}
		err := service.SoftDelete(ctx, 10, 5, "", admin, meta)

		assert.ErrorIs(t, err, domainerrors.ErrProjectArchived)
	})
}
