package service

import (
	"errors"
	"fmt"

	"github.com/JonnyWalker81/habitual/internal/repository"
)

var (
	// ErrNotFound covers both missing and foreign-owned records.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for input the binding layer cannot reject.
	ErrValidation = errors.New("validation failed")
	// ErrConcurrencyConflict means a goal kept changing under a write. The
	// caller may retry.
	ErrConcurrencyConflict = errors.New("concurrent modification")
	// ErrInvalidID is returned for a malformed path id.
	ErrInvalidID = errors.New("invalid id")
)

// mapRepoErr translates repository sentinels into service sentinels.
func mapRepoErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, repository.ErrVersionConflict):
		return fmt.Errorf("%s: %w", what, ErrConcurrencyConflict)
	default:
		return err
	}
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
