package service

import "errors"

var (
	// ErrInvalidConfig is returned when a configuration carries a zero identifier
	ErrInvalidConfig = errors.New("invalid guild configuration")

	// ErrInvalidRegistration is returned when a registration is missing a field
	ErrInvalidRegistration = errors.New("invalid registration")
)
