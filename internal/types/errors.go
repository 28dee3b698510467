package types

import "errors"

var (
	// ErrNotFound is returned by stores when the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when caller-supplied parameters are missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
)
