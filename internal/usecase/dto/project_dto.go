package dto

import (
	"time"

	"github.com/nutrilab/imc-registry/internal/domain/model"
)

// ProjectCreate is the payload for opening a project. ResponsibleID is only
// honored for Administrators; everyone else becomes responsible themselves.
type ProjectCreate struct {
	Name          string     `json:"name" validate:"required,max=150"`
	Description   string     `json:"description,omitempty"`
	ResponsibleID *int64     `json:"responsible_id,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
}

// ProjectUpdate is a partial patch. Status changes are validated against the
// one-directional transition rules.
type ProjectUpdate struct {
	Name          *string              `json:"name,omitempty" validate:"omitempty,max=150"`
	Description   *string              `json:"description,omitempty"`
	ResponsibleID *int64               `json:"responsible_id,omitempty"`
	Status        *model.ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=Active Closed Archived"`
}

// ProjectListFilters narrows project listings.
type ProjectListFilters struct {
	Status *model.ProjectStatus `query:"status"`
	Search string               `query:"search"`
}
