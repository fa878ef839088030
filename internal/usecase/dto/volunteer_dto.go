package dto

import (
	"github.com/shopspring/decimal"

	"github.com/nutrilab/imc-registry/internal/domain/model"
)

// VolunteerCreate is the payload for registering a volunteer. BMI, category
// and color are derived server-side and deliberately absent here; correlative
// and project are assigned by the system.
type VolunteerCreate struct {
	Gender   model.Gender    `json:"gender" validate:"required,oneof=Male Female Unspecified"`
	WeightKg decimal.Decimal `json:"weight_kg" validate:"required"`
	HeightM  decimal.Decimal `json:"height_m" validate:"required"`
}

// VolunteerUpdate is a partial patch. Nil fields are left untouched.
// Correlative and project reference are immutable and not patchable.
type VolunteerUpdate struct {
	Gender   *model.Gender    `json:"gender,omitempty" validate:"omitempty,oneof=Male Female Unspecified"`
	WeightKg *decimal.Decimal `json:"weight_kg,omitempty"`
	HeightM  *decimal.Decimal `json:"height_m,omitempty"`
}

// VolunteerDelete carries the reason recorded in the deletion audit entry.
type VolunteerDelete struct {
	Reason string `json:"reason" validate:"max=255"`
}

// VolunteerListFilters narrows volunteer listings. Search matches against the
// correlative label ("Volunteer N").
type VolunteerListFilters struct {
	Gender         *model.Gender      `query:"gender"`
	Category       *model.BMICategory `query:"category"`
	Search         string             `query:"search"`
	IncludeDeleted bool               `query:"include_deleted"`
}
