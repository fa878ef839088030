package dto

// RequestMeta carries per-request client facts stamped onto audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
	RequestID string
}
