package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Reasons an id from a request path is refused. ValidateID wraps them in
// ErrInvalidID.
var (
	ErrInvalidUUID     = errors.New("invalid UUID format")
	ErrNotUUIDv7       = errors.New("UUID must be version 7")
	ErrFutureTimestamp = errors.New("UUID timestamp is too far in the future")
)

// idClockSkew is how far ahead of now an id's embedded timestamp may be.
const idClockSkew = time.Minute

// ValidateID checks a habit, goal, progress or journal id. The repository
// mints every id with uuid.NewV7, so anything else cannot exist.
func ValidateID(id string) error {
	if err := ValidateUUIDv7(id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return nil
}

// ValidateUUIDv7 reports why id is not a plausible UUIDv7, or nil.
func ValidateUUIDv7(id string) error {
	parsed, err := uuid.Parse(id)
	switch {
	case err != nil:
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	case parsed.Version() != 7:
		return fmt.Errorf("%w: got version %d", ErrNotUUIDv7, parsed.Version())
	}

	minted := time.Unix(parsed.Time().UnixTime())
	if horizon := time.Now().Add(idClockSkew); minted.After(horizon) {
		return fmt.Errorf("%w: minted at %s", ErrFutureTimestamp, minted.UTC().Format(time.RFC3339))
	}
	return nil
}
