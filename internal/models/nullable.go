package models

import (
	"encoding/json"
	"time"

	"github.com/JonnyWalker81/habitual/internal/clock"
)

// Nullable is an update field that tells apart an absent key (Set=false), an
// explicit null (Set=true, Valid=false) and a value (both true). A decoded
// pointer cannot make the first distinction.
type Nullable[T any] struct {
	Value T
	Valid bool
	Set   bool
}

type (
	NullableString = Nullable[string]
	// NullableTime accepts a YYYY-MM-DD date or an RFC 3339 timestamp.
	NullableTime = Nullable[time.Time]
)

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	var zero T
	n.Set = true
	n.Value = zero
	n.Valid = false
	if string(data) == "null" {
		return nil
	}

	if t, ok := any(&n.Value).(*time.Time); ok {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := clock.ParseDate(s)
		if err != nil {
			if parsed, err = time.Parse(time.RFC3339, s); err != nil {
				return err
			}
		}
		*t = parsed
	} else if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// ToPtr returns nil for null, otherwise a pointer to a copy of the value.
func (n Nullable[T]) ToPtr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// Apply overwrites *dst when the key was present in the request.
func (n Nullable[T]) Apply(dst **T) {
	if n.Set {
		*dst = n.ToPtr()
	}
}
