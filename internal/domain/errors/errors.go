package errors

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "github.com/nutrilab/imc-registry/pkg/errors"
)

// Shared domain errors. Usecases return these; the HTTP layer maps their
// codes to response statuses.
var (
	ErrUserNotFound      = apperrors.NewAppError(apperrors.ErrNotFound, "user not found", nil)
	ErrProjectNotFound   = apperrors.NewAppError(apperrors.ErrNotFound, "project not found", nil)
	ErrVolunteerNotFound = apperrors.NewAppError(apperrors.ErrNotFound, "volunteer not found", nil)
	ErrAuditLogNotFound  = apperrors.NewAppError(apperrors.ErrNotFound, "audit log entry not found", nil)

	ErrEmailTaken    = apperrors.NewAppError(apperrors.ErrConflict, "email is already registered", nil)
	ErrUsernameTaken = apperrors.NewAppError(apperrors.ErrConflict, "username is already registered", nil)

	ErrAlreadyDeleted   = apperrors.NewAppError(apperrors.ErrAlreadyDeleted, "volunteer is already deleted", nil)
	ErrProjectArchived  = apperrors.NewAppError(apperrors.ErrInvalidState, "project is archived and can no longer be modified", nil)
	ErrProjectNotActive = apperrors.NewAppError(apperrors.ErrInvalidState, "project is not active", nil)
	ErrVolunteerDeleted = apperrors.NewAppError(apperrors.ErrInvalidState, "volunteer has been deleted", nil)

	ErrInvalidCredentials = apperrors.NewAppError(apperrors.ErrUnauthenticated, "invalid credentials", nil)
	ErrUserInactive       = apperrors.NewAppError(apperrors.ErrForbidden, "user account is inactive", nil)
	ErrUserLocked         = apperrors.NewAppError(apperrors.ErrForbidden, "user account is temporarily locked", nil)
	ErrSelfDeactivation   = apperrors.NewAppError(apperrors.ErrInvalidState, "cannot deactivate own account", nil)
)

// InvalidTransition builds an invalid-state error for a disallowed project
// status change.
func InvalidTransition(from, to string) error {
	return apperrors.NewAppError(apperrors.ErrInvalidState,
		fmt.Sprintf("project status cannot change from %s to %s", from, to), nil)
}

// ForbiddenError carries the denied action and acting role so callers can log
// the attempt without leaking resource details to the client.
type ForbiddenError struct {
	Action string
	Role   string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %s is not allowed to perform %s", e.Role, e.Action)
}

// Code implements pkg/errors.Error.
func (e *ForbiddenError) Code() string {
	return apperrors.ErrForbidden
}

func (e *ForbiddenError) Unwrap() error { return nil }

// NewForbiddenError creates a new ForbiddenError.
func NewForbiddenError(action, role string) *ForbiddenError {
	return &ForbiddenError{Action: action, Role: role}
}

// InvalidMeasurementError is returned when weight or height fall outside the
// accepted ranges. Detected before persistence.
type InvalidMeasurementError struct {
	Field string
	Value decimal.Decimal
	Min   decimal.Decimal
	Max   decimal.Decimal
}

func (e *InvalidMeasurementError) Error() string {
	return fmt.Sprintf("%s %s is outside the allowed range %s to %s",
		e.Field, e.Value.String(), e.Min.String(), e.Max.String())
}

// Code implements pkg/errors.Error.
func (e *InvalidMeasurementError) Code() string {
	return apperrors.ErrInvalidMeasurement
}

func (e *InvalidMeasurementError) Unwrap() error { return nil }

// NewInvalidMeasurementError creates a new InvalidMeasurementError.
func NewInvalidMeasurementError(field string, value, min, max decimal.Decimal) *InvalidMeasurementError {
	return &InvalidMeasurementError{Field: field, Value: value, Min: min, Max: max}
}

// AuditWriteError signals that the audit half of a transactional mutation
// failed; the surrounding transaction must have rolled the mutation back.
type AuditWriteError struct {
	Err error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("audit trail write failed: %v", e.Err)
}

// Code implements pkg/errors.Error.
func (e *AuditWriteError) Code() string {
	return apperrors.ErrAuditWriteFailure
}

func (e *AuditWriteError) Unwrap() error { return e.Err }

// NewAuditWriteError wraps the underlying store failure.
func NewAuditWriteError(err error) *AuditWriteError {
	return &AuditWriteError{Err: err}
}
