package repository

import (
	"context"
	"time"

	"github.com/nutrilab/imc-registry/internal/domain/model"
)

// ProjectFilters narrows project listings.
type ProjectFilters struct {
	Status *model.ProjectStatus
	Search string
	Offset int
	Limit  int
}

// ProjectRepository persists projects. Mutations are transactional with their
// audit entry.
type ProjectRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context, filters ProjectFilters) ([]model.Project, int64, error)

	CreateWithAudit(ctx context.Context, project *model.Project, audit *model.AuditLog) error
	UpdateWithAudit(ctx context.Context, project *model.Project, audit *model.AuditLog) error

	// ListClosedBefore returns Closed projects whose last update precedes the
	// cutoff; used by the archival sweep.
	ListClosedBefore(ctx context.Context, cutoff time.Time) ([]model.Project, error)
}
