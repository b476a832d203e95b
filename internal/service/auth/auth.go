package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"secure_chat/internal/repository/session"
)

var (
	// ErrInvalidCredentials is returned by Login for a bad username or
	// password; the two cases are deliberately not distinguished.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMissingAuth is returned when no credential was presented at all.
	ErrMissingAuth = errors.New("missing authorization header")
	// ErrMalformedAuth is returned when a credential was presented but is
	// not a two-part bearer value.
	ErrMalformedAuth = errors.New("invalid authorization header")
	// ErrInvalidToken is returned for a well-formed bearer credential whose
	// token is unknown or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)

type (
	// CredentialVerifier is the slice of the credential service Login needs.
	CredentialVerifier interface {
		Verify(ctx context.Context, username, password string) bool
	}

	// Service issues and validates bearer tokens. Tokens are opaque
	// 32-byte crypto/rand values kept server-side, so Logout revokes them
	// immediately. A zero ttl means sessions never expire.
	Service struct {
		creds    CredentialVerifier
		sessions session.Store
		ttl      time.Duration
	}
)

func NewService(creds CredentialVerifier, sessions session.Store, ttl time.Duration) *Service {
	return &Service{
		creds:    creds,
		sessions: sessions,
		ttl:      ttl,
	}
}

// Login verifies the credentials and mints a fresh token bound to the
// username. A user may hold any number of concurrent tokens.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if !s.creds.Verify(ctx, username, password) {
		return "", ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}

	if err := s.sessions.Put(ctx, token, username, s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Authenticate resolves a "Bearer <token>" credential to its username.
// The scheme is case-insensitive; anything other than exactly two parts
// with a bearer scheme is malformed, which is reported distinctly from a
// missing header.
func (s *Service) Authenticate(ctx context.Context, header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuth
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMalformedAuth
	}

	username, err := s.sessions.Get(ctx, parts[1])
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("session lookup: %w", err)
	}
	return username, nil
}

// Logout revokes the token. Revoking an unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
