package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// uuidV7At builds a UUIDv7 whose embedded timestamp is t.
func uuidV7At(t time.Time) uuid.UUID {
	var id uuid.UUID
	ms := uint64(t.UnixMilli())
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}
	id[6] = 0x70
	id[8] = 0x80
	id[15] = 0x01
	return id
}

func TestValidateUUIDv7(t *testing.T) {
	v7, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("uuid.NewV7() failed: %v", err)
	}

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"fresh v7", v7.String(), nil},
		{"slightly ahead", uuidV7At(time.Now().Add(30 * time.Second)).String(), nil},
		{"past timestamp", uuidV7At(time.Now().AddDate(-1, 0, 0)).String(), nil},
		{"v4", uuid.New().String(), ErrNotUUIDv7},
		{"far future", uuidV7At(time.Now().Add(time.Hour)).String(), ErrFutureTimestamp},
		{"malformed", "not-a-uuid", ErrInvalidUUID},
		{"empty", "", ErrInvalidUUID},
		{"truncated", "019471a0-0000-7000-8000-", ErrInvalidUUID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUUIDv7(tt.id)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateUUIDv7(%q) = %v, want nil", tt.id, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateUUIDv7(%q) = %v, want %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateID_WrapsInvalidID(t *testing.T) {
	err := ValidateID("nope")
	if !errors.Is(err, ErrInvalidID) {
		t.Errorf("ValidateID() = %v, want ErrInvalidID", err)
	}
	if err := ValidateID(uuid.Must(uuid.NewV7()).String()); err != nil {
		t.Errorf("ValidateID(v7) = %v, want nil", err)
	}
}
