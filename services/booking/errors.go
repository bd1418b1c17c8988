package booking

import "errors"

// Lifecycle error codes. Handlers map these onto HTTP statuses; the service
// layer never imports net/http.
const (
	CodeValidation       = "VALIDATION"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeInvalidState     = "INVALID_STATE"
	CodeAlreadyCancelled = "ALREADY_CANCELLED"
	CodeAuthenticity     = "AUTHENTICITY"
)

// LifecycleError is a typed failure from a lifecycle operation. Code selects
// the failure class, Message is safe to surface to the client.
type LifecycleError struct {
	Code    string
	Message string
}

func (e *LifecycleError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *LifecycleError {
	return &LifecycleError{Code: CodeValidation, Message: msg}
}

func NewNotFoundError(msg string) *LifecycleError {
	return &LifecycleError{Code: CodeNotFound, Message: msg}
}

func NewConflictError(msg string) *LifecycleError {
	return &LifecycleError{Code: CodeConflict, Message: msg}
}

func NewInvalidStateError(msg string) *LifecycleError {
	return &LifecycleError{Code: CodeInvalidState, Message: msg}
}

func NewAlreadyCancelledError(msg string) *LifecycleError {
	return &LifecycleError{Code: CodeAlreadyCancelled, Message: msg}
}

// NewAuthenticityError marks a payload that failed signature verification.
// No booking state is mutated when this is returned.
func NewAuthenticityError(msg string) *LifecycleError {
	return &LifecycleError{Code: CodeAuthenticity, Message: msg}
}

// CodeOf extracts the lifecycle code from an error chain, or "" when the
// error is not a LifecycleError.
func CodeOf(err error) string {
	var le *LifecycleError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
