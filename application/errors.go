package application

import "errors"

var (
	// ErrConfigNotFound is returned when a guild has no configuration
	ErrConfigNotFound = errors.New("guild is not configured")

	// ErrParseFailure is returned when message text does not match a form
	ErrParseFailure = errors.New("message does not match the expected form")

	// ErrStorage is returned when a database write fails
	ErrStorage = errors.New("storage operation failed")

	// ErrPermissionDenied is returned when a non-administrator runs a config command
	ErrPermissionDenied = errors.New("administrator permission required")

	// ErrValidation is the base error for malformed commands
	ErrValidation = errors.New("invalid command")
)

// ValidationError describes why a command was rejected
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid command: " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
