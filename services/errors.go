package services

// Error kinds surfaced to callers. Handlers map each type to an HTTP
// status; messages are meant to be shown to the caller as-is.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{Message: msg}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(msg string) *ConflictError {
	return &ConflictError{Message: msg}
}
