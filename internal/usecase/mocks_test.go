package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nutrilab/imc-registry/internal/domain/model"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) CreateWithAudit(ctx context.Context, user *model.User, audit *model.AuditLog) error {
	args := m.Called(ctx, user, audit)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateWithAudit(ctx context.Context, user *model.User, audit *model.AuditLog) error {
	args := m.Called(ctx, user, audit)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLoginState(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, filters domainRepo.ProjectFilters) ([]model.Project, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]model.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepository) CreateWithAudit(ctx context.Context, project *model.Project, audit *model.AuditLog) error {
	args := m.Called(ctx, project, audit)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateWithAudit(ctx context.Context, project *model.Project, audit *model.AuditLog) error {
	args := m.Called(ctx, project, audit)
	return args.Error(0)
}

func (m *MockProjectRepository) ListClosedBefore(ctx context.Context, cutoff time.Time) ([]model.Project, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]model.Project), args.Error(1)
}

// MockVolunteerRepository is a mock implementation of VolunteerRepository
type MockVolunteerRepository struct {
	mock.Mock
}

func (m *MockVolunteerRepository) GetByID(ctx context.Context, projectID, id int64) (*model.Volunteer, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Volunteer), args.Error(1)
}

func (m *MockVolunteerRepository) FindByID(ctx context.Context, id int64) (*model.Volunteer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Volunteer), args.Error(1)
}

func (m *MockVolunteerRepository) List(ctx context.Context, projectID int64, filters domainRepo.VolunteerFilters) ([]model.Volunteer, int64, error) {
	args := m.Called(ctx, projectID, filters)
	return args.Get(0).([]model.Volunteer), args.Get(1).(int64), args.Error(2)
}

func (m *MockVolunteerRepository) ListAllActive(ctx context.Context, projectID int64) ([]model.Volunteer, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]model.Volunteer), args.Error(1)
}

func (m *MockVolunteerRepository) Statistics(ctx context.Context, projectID int64) (*domainRepo.ProjectStatistics, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainRepo.ProjectStatistics), args.Error(1)
}

func (m *MockVolunteerRepository) CreateWithAudit(ctx context.Context, volunteer *model.Volunteer, audit *model.AuditLog) error {
	args := m.Called(ctx, volunteer, audit)
	return args.Error(0)
}

func (m *MockVolunteerRepository) UpdateWithAudit(ctx context.Context, volunteer *model.Volunteer, audit *model.AuditLog) error {
	args := m.Called(ctx, volunteer, audit)
	return args.Error(0)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) GetByID(ctx context.Context, id int64) (*model.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditLog), args.Error(1)
}

func (m *MockAuditRepository) Query(ctx context.Context, filters domainRepo.AuditFilters) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]model.AuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditRepository) PurgeBefore(ctx context.Context, cutoff time.Time, actions []model.ActionType) (int64, error) {
	args := m.Called(ctx, cutoff, actions)
	return args.Get(0).(int64), args.Error(1)
}

// MockPasswordHasher is a mock implementation of PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) bool {
	args := m.Called(hash, password)
	return args.Bool(0)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(user *model.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}
