package repository

import (
	"context"

	"github.com/nutrilab/imc-registry/internal/domain/model"
)

// UserRepository persists accounts. Mutating methods take the audit entry
// recorded in the same transaction as the write.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, int64, error)

	CreateWithAudit(ctx context.Context, user *model.User, audit *model.AuditLog) error
	UpdateWithAudit(ctx context.Context, user *model.User, audit *model.AuditLog) error

	// UpdateLoginState persists only the lockout bookkeeping columns; login
	// attempts are audited separately by the caller.
	UpdateLoginState(ctx context.Context, user *model.User) error
}
