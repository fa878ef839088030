package model

import (
	"time"
)

// ProjectStatus enumerates project lifecycle states. Transitions only move
// toward Archived: Active -> Closed -> Archived, Active -> Archived.
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "Active"
	ProjectStatusClosed   ProjectStatus = "Closed"
	ProjectStatusArchived ProjectStatus = "Archived"
)

// CanTransitionTo reports whether a status change is allowed. Equal statuses
// are allowed so idempotent updates pass through.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case ProjectStatusActive:
		return next == ProjectStatusClosed || next == ProjectStatusArchived
	case ProjectStatusClosed:
		return next == ProjectStatusArchived
	default:
		return false
	}
}

// Project groups volunteer records under a named research effort.
type Project struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string        `gorm:"size:150;not null" json:"name"`
	Description   string        `gorm:"type:text" json:"description,omitempty"`
	ResponsibleID int64         `gorm:"not null;index" json:"responsible_id"`
	Status        ProjectStatus `gorm:"size:20;not null;default:'Active';index" json:"status"`
	StartDate     time.Time     `gorm:"type:date;not null" json:"start_date"`
	CreatedBy     int64         `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time     `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"default:now()" json:"updated_at"`

	// Relations
	Responsible *User `gorm:"foreignKey:ResponsibleID" json:"responsible,omitempty"`

	// VolunteerCount is filled on read paths, not persisted.
	VolunteerCount int64 `gorm:"-" json:"volunteer_count"`
}

// TableName specifies the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// Snapshot returns the audit representation of the project.
func (p *Project) Snapshot() JSONB {
	return JSONB{
		"id":             p.ID,
		"name":           p.Name,
		"description":    p.Description,
		"responsible_id": p.ResponsibleID,
		"status":         string(p.Status),
		"start_date":     p.StartDate.Format("2006-01-02"),
		"created_by":     p.CreatedBy,
		"created_at":     p.CreatedAt.Format(time.RFC3339),
		"updated_at":     p.UpdatedAt.Format(time.RFC3339),
	}
}
