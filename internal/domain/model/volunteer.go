package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Gender enumerates volunteer gender values.
type Gender string

const (
	GenderMale        Gender = "Male"
	GenderFemale      Gender = "Female"
	GenderUnspecified Gender = "Unspecified"
)

// BMICategory enumerates the derived BMI bands.
type BMICategory string

const (
	BMICategoryLow    BMICategory = "Low"
	BMICategoryNormal BMICategory = "Normal"
	BMICategoryHigh   BMICategory = "High"
)

// BMIColor enumerates the display color derived from the category.
type BMIColor string

const (
	BMIColorYellow BMIColor = "Yellow"
	BMIColorGreen  BMIColor = "Green"
	BMIColorRed    BMIColor = "Red"
)

// Volunteer is one biometric record. Weight, height and the derived BMI fields
// are stored as fixed-point decimals; BMI, category and color are always
// recomputed from weight/height at write time and never accepted from clients.
type Volunteer struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID      int64           `gorm:"not null;uniqueIndex:uq_volunteer_project_correlative,priority:1" json:"project_id"`
	Correlative    int             `gorm:"not null;uniqueIndex:uq_volunteer_project_correlative,priority:2" json:"correlative"`
	Gender         Gender          `gorm:"size:20;not null" json:"gender"`
	WeightKg       decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"weight_kg"`
	HeightM        decimal.Decimal `gorm:"type:decimal(3,2);not null" json:"height_m"`
	BMI            decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"bmi"`
	Category       BMICategory     `gorm:"size:10;not null;index" json:"category"`
	Color          BMIColor        `gorm:"size:10;not null" json:"color"`
	IsDeleted      bool            `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedBy      *int64          `json:"deleted_by,omitempty"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
	DeletionReason *string         `gorm:"size:255" json:"deletion_reason,omitempty"`
	RegisteredBy   int64           `gorm:"not null" json:"registered_by"`
	RegisteredAt   time.Time       `gorm:"not null;default:now()" json:"registered_at"`
	CreatedAt      time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"default:now()" json:"updated_at"`

	// Relations
	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Registrar *User    `gorm:"foreignKey:RegisteredBy" json:"registrar,omitempty"`
}

// TableName specifies the table name for GORM
func (Volunteer) TableName() string {
	return "volunteers"
}

// Label returns the human-readable per-project identifier.
func (v *Volunteer) Label() string {
	return fmt.Sprintf("Volunteer %d", v.Correlative)
}

// Snapshot returns the audit representation of the volunteer.
func (v *Volunteer) Snapshot() JSONB {
	snap := JSONB{
		"id":            v.ID,
		"project_id":    v.ProjectID,
		"correlative":   v.Correlative,
		"label":         v.Label(),
		"gender":        string(v.Gender),
		"weight_kg":     v.WeightKg.StringFixed(2),
		"height_m":      v.HeightM.StringFixed(2),
		"bmi":           v.BMI.StringFixed(2),
		"category":      string(v.Category),
		"color":         string(v.Color),
		"is_deleted":    v.IsDeleted,
		"registered_by": v.RegisteredBy,
		"registered_at": v.RegisteredAt.Format(time.RFC3339),
	}
	if v.DeletedAt != nil {
		snap["deleted_at"] = v.DeletedAt.Format(time.RFC3339)
	}
	if v.DeletedBy != nil {
		snap["deleted_by"] = *v.DeletedBy
	}
	if v.DeletionReason != nil {
		snap["deletion_reason"] = *v.DeletionReason
	}
	return snap
}
