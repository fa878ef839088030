package repository

import (
	"context"
	"time"

	"github.com/nutrilab/imc-registry/internal/domain/model"
)

// AuditFilters narrows audit trail queries.
type AuditFilters struct {
	Entity    *model.EntityType
	Action    *model.ActionType
	UserID    *int64
	ProjectID *int64
	From      *time.Time
	To        *time.Time
	// Search matches actor usernames and project names, case-insensitively.
	Search string
	Offset int
	Limit  int
}

// AuditRepository reads and appends audit trail entries. There is no update
// or single-row delete: the trail is append-only, and PurgeBefore exists only
// for the retention sweep.
type AuditRepository interface {
	// Record appends one entry outside any domain transaction. Mutations that
	// must be atomic with their audit entry go through the entity
	// repositories' *WithAudit methods instead; Record serves session and
	// export events that have no domain write.
	Record(ctx context.Context, entry *model.AuditLog) error

	GetByID(ctx context.Context, id int64) (*model.AuditLog, error)
	Query(ctx context.Context, filters AuditFilters) ([]model.AuditLog, int64, error)

	// PurgeBefore removes entries older than the cutoff, optionally limited
	// to the given actions. Returns the number of rows removed.
	PurgeBefore(ctx context.Context, cutoff time.Time, actions []model.ActionType) (int64, error)
}
