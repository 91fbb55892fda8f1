package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidPrior     = fmt.Errorf("%w: prior shape parameters must be positive", ErrInvalidInput)
	ErrInvalidCounts    = fmt.Errorf("%w: counts must satisfy n >= s >= 0", ErrInvalidInput)
	ErrInvalidThreshold = fmt.Errorf("%w: threshold must lie in (0,1)", ErrInvalidInput)
	ErrInvalidBudget    = fmt.Errorf("%w: FDR budget must lie in (0,1)", ErrInvalidInput)
	ErrInvalidDirection = fmt.Errorf("%w: unknown decision direction", ErrInvalidInput)

	// Numeric errors
	ErrNumericInstability = errors.New("numeric instability")
)

// Error constructors with context

func NewInvalidCountsError(entity string, s, n int64) error {
	return fmt.Errorf("%w: entity %s has s=%d, n=%d", ErrInvalidCounts, entity, s, n)
}

func NewInvalidPriorError(alpha, beta float64) error {
	return fmt.Errorf("%w: got (%g, %g)", ErrInvalidPrior, alpha, beta)
}

func NewNumericInstabilityError(what string, a, b, x float64) error {
	return fmt.Errorf("%w: %s for a=%g b=%g x=%g", ErrNumericInstability, what, a, b, x)
}

// Error checking helpers

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsNumericInstability(err error) bool {
	return errors.Is(err, ErrNumericInstability)
}
