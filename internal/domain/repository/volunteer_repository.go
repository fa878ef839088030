package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nutrilab/imc-registry/internal/domain/model"
)

// VolunteerFilters narrows volunteer listings within a project. Search is
// matched case-insensitively against the correlative label.
type VolunteerFilters struct {
	Gender         *model.Gender
	Category       *model.BMICategory
	Search         string
	IncludeDeleted bool
	Offset         int
	Limit          int
}

// ProjectStatistics aggregates the non-deleted volunteers of a project.
type ProjectStatistics struct {
	Total      int64            `json:"total"`
	AverageBMI *decimal.Decimal `json:"average_bmi,omitempty"`
	MinBMI     *decimal.Decimal `json:"min_bmi,omitempty"`
	MaxBMI     *decimal.Decimal `json:"max_bmi,omitempty"`
	ByCategory map[string]int64 `json:"by_category"`
	ByGender   map[string]int64 `json:"by_gender"`
	ByColor    map[string]int64 `json:"by_color"`
}

// VolunteerRepository persists volunteer records. CreateWithAudit assigns the
// per-project correlative inside its transaction, retrying on the unique
// constraint so concurrent creates never produce duplicates.
type VolunteerRepository interface {
	GetByID(ctx context.Context, projectID, id int64) (*model.Volunteer, error)
	// FindByID looks a volunteer up without project scoping; used for
	// best-effort name resolution on audit reads.
	FindByID(ctx context.Context, id int64) (*model.Volunteer, error)
	List(ctx context.Context, projectID int64, filters VolunteerFilters) ([]model.Volunteer, int64, error)
	ListAllActive(ctx context.Context, projectID int64) ([]model.Volunteer, error)
	Statistics(ctx context.Context, projectID int64) (*ProjectStatistics, error)

	CreateWithAudit(ctx context.Context, volunteer *model.Volunteer, audit *model.AuditLog) error
	UpdateWithAudit(ctx context.Context, volunteer *model.Volunteer, audit *model.AuditLog) error
}
