package fpcase

import "errors"

var (
	// ErrInvalidRange reports malformed sampling bounds or counts.
	ErrInvalidRange = errors.New("fpcase: invalid range")

	// ErrDimensionMismatch reports a vector or matrix whose shape does not
	// match the shape a builder was asked for.
	ErrDimensionMismatch = errors.New("fpcase: dimension mismatch")

	// ErrUnknownVariant reports a cache or variant name that was never registered.
	ErrUnknownVariant = errors.New("fpcase: unknown variant")

	// ErrUndefinedInterval reports operands outside an operation's domain
	// when the caller asked for strict evaluation.
	ErrUndefinedInterval = errors.New("fpcase: undefined interval")

	// ErrAlreadyRegistered reports a second registration of a cache name.
	ErrAlreadyRegistered = errors.New("fpcase: cache already registered")
)
