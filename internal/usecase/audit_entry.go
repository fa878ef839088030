package usecase

import (
	"time"

	"github.com/nutrilab/imc-registry/internal/domain/model"
	"github.com/nutrilab/imc-registry/internal/domain/policy"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

// newAuditEntry builds the common part of an audit row: who acted, on what
// kind of entity, and the request fingerprint. Callers fill EntityID,
// ProjectID, snapshots and description.
func newAuditEntry(entity model.EntityType, action model.ActionType, actor policy.Actor, meta dto.RequestMeta) *model.AuditLog {
	return &model.AuditLog{
		Entity:    entity,
		Action:    action,
		UserID:    actor.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		RequestID: meta.RequestID,
		CreatedAt: time.Now().UTC(),
	}
}
