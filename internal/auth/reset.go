package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/louisbranch/decisionlog/internal/platform/errors"
)

const defaultResetTTL = time.Hour

// ResetTokenStore holds single-use password reset tokens keyed by the
// SHA-256 of the raw token. Entries expire after a fixed TTL; expired
// entries are evicted on every access.
type ResetTokenStore struct {
	mu      sync.Mutex
	entries map[string]resetEntry
	ttl     time.Duration
	clock   func() time.Time
}

type resetEntry struct {
	userID    string
	expiresAt time.Time
}

// NewResetTokenStore constructs a reset token store. A zero ttl falls back
// to one hour.
func NewResetTokenStore(ttl time.Duration, clock func() time.Time) *ResetTokenStore {
	if ttl <= 0 {
		ttl = defaultResetTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &ResetTokenStore{
		entries: make(map[string]resetEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Create issues a raw reset token for the user and stores its hash.
func (s *ResetTokenStore) Create(userID string) (string, error) {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	token := hex.EncodeToString(raw[:])

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()
	s.entries[hashToken(token)] = resetEntry{
		userID:    userID,
		expiresAt: s.clock().Add(s.ttl),
	}
	return token, nil
}

// Consume validates a raw token and removes it, returning the user id it
// was issued for.
func (s *ResetTokenStore) Consume(rawToken string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()

	key := hashToken(rawToken)
	entry, ok := s.entries[key]
	if !ok {
		return "", apperrors.New(apperrors.CodeResetTokenInvalid, "invalid or expired reset token")
	}
	delete(s.entries, key)
	return entry.userID, nil
}

// Len reports the number of live tokens, for tests and introspection.
func (s *ResetTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()
	return len(s.entries)
}

func (s *ResetTokenStore) evictExpiredLocked() {
	now := s.clock()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
