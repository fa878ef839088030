package errors

// Error codes shared across the application. The HTTP layer maps these to
// response statuses; usecases attach them at the point a rule is violated.
const (
	ErrInternal           = "INTERNAL"
	ErrNotFound           = "NOT_FOUND"
	ErrInvalidArgument    = "INVALID_ARGUMENT"
	ErrInvalidMeasurement = "INVALID_MEASUREMENT"
	ErrInvalidState       = "INVALID_STATE"
	ErrAlreadyDeleted     = "ALREADY_DELETED"
	ErrUnauthenticated    = "UNAUTHENTICATED"
	ErrForbidden          = "FORBIDDEN"
	ErrConflict           = "CONFLICT"
	ErrAuditWriteFailure  = "AUDIT_WRITE_FAILURE"
)
