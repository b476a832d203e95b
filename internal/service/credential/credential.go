package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"secure_chat/internal/model"
	"secure_chat/internal/repository/user"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUsernameTaken is returned when registering a name that exists.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidKey is returned when the identity public key is empty.
	ErrInvalidKey = errors.New("identity_public_key required")
)

// dummyHash keeps Verify doing bcrypt work for unknown usernames, so the
// response does not reveal whether the name or the password was wrong.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("-"), bcrypt.DefaultCost)

type (
	// Service owns credential records: registration, password verification
	// and public-key lookup. Passwords are stored only as salted bcrypt
	// verifiers.
	Service struct {
		users user.Repository
	}
)

func NewService(users user.Repository) *Service {
	return &Service{
		users: users,
	}
}

// Register creates a new user. The repository's create is the atomic
// duplicate check, so two racing registrations of one name cannot both win.
func (s *Service) Register(ctx context.Context, username, password string, identityPublicKey []byte) error {
	if len(identityPublicKey) == 0 {
		return ErrInvalidKey
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Username:          username,
		PasswordHash:      hash,
		IdentityPublicKey: identityPublicKey,
		CreatedAt:         time.Now(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Verify reports whether the password matches the stored verifier. An
// unknown username and a wrong password are indistinguishable to the caller.
func (s *Service) Verify(ctx context.Context, username, password string) bool {
	u, err := s.users.GetByName(ctx, username)
	if err != nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

// LookupPublicKey returns the identity public key published at
// registration. Fails with user.ErrNotFound for unknown names.
func (s *Service) LookupPublicKey(ctx context.Context, username string) ([]byte, error) {
	u, err := s.users.GetByName(ctx, username)
	if err != nil {
		return nil, err
	}
	return u.IdentityPublicKey, nil
}
