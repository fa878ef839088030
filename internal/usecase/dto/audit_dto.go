package dto

import (
	"time"

	"github.com/nutrilab/imc-registry/internal/domain/model"
)

// AuditQuery narrows audit trail listings.
type AuditQuery struct {
	Entity    *model.EntityType `query:"entity"`
	Action    *model.ActionType `query:"action"`
	UserID    *int64            `query:"user_id"`
	ProjectID *int64            `query:"project_id"`
	From      *time.Time        `query:"from"`
	To        *time.Time        `query:"to"`
	Search    string            `query:"search"`
}
