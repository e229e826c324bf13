// Package auth implements user accounts, password credentials, and API
// tokens for the decisionlog service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/louisbranch/decisionlog/internal/platform/errors"
	"github.com/louisbranch/decisionlog/internal/platform/id"
	"github.com/louisbranch/decisionlog/internal/storage"
)

const minPasswordLength = 8

// User represents one registered account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Store is the persistence boundary for user accounts.
type Store interface {
	CreateUser(ctx context.Context, user User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, userID string) (User, error)
	UpdateUserPassword(ctx context.Context, userID string, passwordHash string) error
}

// Service implements registration, login, and password lifecycle.
type Service struct {
	store  Store
	tokens *TokenIssuer
	resets *ResetTokenStore
	clock  func() time.Time
	newID  func() (string, error)
}

// NewService constructs auth use-cases.
func NewService(store Store, tokens *TokenIssuer, resets *ResetTokenStore, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{store: store, tokens: tokens, resets: resets, clock: clock, newID: newID}
}

// Register creates an account and returns the user with a signed API token.
func (s *Service) Register(ctx context.Context, name string, email string, password string) (User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, "", apperrors.New(apperrors.CodeUserNameEmpty, "name is required")
	}
	email = normalizeEmail(email)
	if email == "" {
		return User{}, "", apperrors.New(apperrors.CodeUserEmailEmpty, "email is required")
	}
	if len(password) < minPasswordLength {
		return User{}, "", apperrors.New(apperrors.CodePasswordTooShort, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, "", fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.newID()
	if err != nil {
		return User{}, "", fmt.Errorf("generate user id: %w", err)
	}
	user := User{
		ID:           userID,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return User{}, "", apperrors.New(apperrors.CodeUserEmailTaken, "an account with this email already exists")
		}
		return User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed API token.
func (s *Service) Login(ctx context.Context, email string, password string) (User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return User{}, "", apperrors.New(apperrors.CodeCredentialsInvalid, "invalid email or password")
		}
		return User{}, "", fmt.Errorf("get user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, "", apperrors.New(apperrors.CodeCredentialsInvalid, "invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to a user.
func (s *Service) Authenticate(ctx context.Context, token string) (User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return User{}, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return User{}, apperrors.New(apperrors.CodeTokenInvalid, "token subject no longer exists")
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ForgotPassword issues a single-use reset token for the account. The raw
// token is returned so the transport can deliver it; only its hash is kept.
// A missing account yields storage-level not found, which callers are
// expected to mask behind a generic response.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperrors.New(apperrors.CodeUserNotFound, "no account with this email")
		}
		return "", fmt.Errorf("get user by email: %w", err)
	}
	token, err := s.resets.Create(user.ID)
	if err != nil {
		return "", fmt.Errorf("create reset token: %w", err)
	}
	return token, nil
}

// ResetPassword consumes a reset token and stores a new password hash.
func (s *Service) ResetPassword(ctx context.Context, rawToken string, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.New(apperrors.CodePasswordTooShort, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	userID, err := s.resets.Consume(rawToken)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
