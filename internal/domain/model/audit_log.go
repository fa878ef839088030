package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// EntityType classifies what kind of entity an audit entry refers to.
type EntityType string

const (
	EntityProject   EntityType = "PROJECT"
	EntityVolunteer EntityType = "VOLUNTEER"
	EntityUser      EntityType = "USER"
	EntitySession   EntityType = "SESSION"
	EntityReport    EntityType = "REPORT"
)

// ActionType classifies what happened to the entity.
type ActionType string

const (
	ActionCreate      ActionType = "CREATE"
	ActionUpdate      ActionType = "UPDATE"
	ActionDelete      ActionType = "DELETE"
	ActionExport      ActionType = "EXPORT"
	ActionLogin       ActionType = "LOGIN"
	ActionLogout      ActionType = "LOGOUT"
	ActionLoginFailed ActionType = "LOGIN_FAILED"
)

// AuditLog is an immutable audit trail entry. Application code only ever
// inserts rows; the retention sweep is the single place rows are removed.
type AuditLog struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID   *int64     `gorm:"index" json:"project_id,omitempty"`
	Entity      EntityType `gorm:"size:20;not null;index:idx_audit_entity" json:"entity"`
	EntityID    int64      `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Action      ActionType `gorm:"size:20;not null;index" json:"action"`
	UserID      int64      `gorm:"not null;index" json:"user_id"`
	Before      JSONB      `gorm:"type:jsonb" json:"before,omitempty"`
	After       JSONB      `gorm:"type:jsonb" json:"after,omitempty"`
	Description string     `gorm:"size:255" json:"description,omitempty"`
	IPAddress   string     `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent   string     `gorm:"size:255" json:"user_agent,omitempty"`
	RequestID   string     `gorm:"size:36" json:"request_id,omitempty"`
	CreatedAt   time.Time  `gorm:"default:now();index" json:"created_at"`

	// Resolved on read paths, not persisted.
	ActorName  string `gorm:"-" json:"actor_name,omitempty"`
	EntityName string `gorm:"-" json:"entity_name,omitempty"`
}

// TableName specifies the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSONB represents a JSONB database type
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		*j = make(JSONB)
		return nil
	}
}
