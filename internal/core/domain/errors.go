package domain

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound  = errors.New("merge job not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrLayout marks crop geometry that collapsed to a non-positive area,
	// i.e. the assumed physical layout does not match the actual page.
	ErrLayout = errors.New("layout mismatch")

	// ErrReconciliation marks an order id that could not be paired with an
	// extracted label half.
	ErrReconciliation = errors.New("unreconciled order")

	ErrTemporary = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
