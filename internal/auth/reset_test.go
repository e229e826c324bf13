package auth

import (
	"testing"
	"time"

	apperrors "github.com/louisbranch/decisionlog/internal/platform/errors"
)

func TestResetTokenRoundtrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 23, 14, 0, 0, 0, time.UTC)
	store := NewResetTokenStore(time.Hour, func() time.Time { return now })

	token, err := store.Create("user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(token))
	}

	userID, err := store.Consume(token)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("user id = %q, want user-1", userID)
	}

	if _, err := store.Consume(token); !apperrors.IsCode(err, apperrors.CodeResetTokenInvalid) {
		t.Fatalf("second consume err = %v, want code %s", err, apperrors.CodeResetTokenInvalid)
	}
}

func TestResetTokenExpires(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 23, 14, 30, 0, 0, time.UTC)
	current := now
	store := NewResetTokenStore(time.Hour, func() time.Time { return current })

	token, err := store.Create("user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("live tokens = %d, want 1", store.Len())
	}

	current = now.Add(2 * time.Hour)
	if _, err := store.Consume(token); !apperrors.IsCode(err, apperrors.CodeResetTokenInvalid) {
		t.Fatalf("expired token err = %v, want code %s", err, apperrors.CodeResetTokenInvalid)
	}
	if store.Len() != 0 {
		t.Fatalf("live tokens after expiry = %d, want 0", store.Len())
	}
}
