package credential

import (
	"context"
	"testing"

	"secure_chat/internal/repository/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *Service {
	return NewService(user.NewMemoryRepo())
}

func TestRegisterAndVerify(t *testing.T) {
	t.Parallel()

	s := newService()
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", "pw1", []byte("key_a")))

	assert.True(t, s.Verify(ctx, "alice", "pw1"))
	assert.False(t, s.Verify(ctx, "alice", "wrongpw"))
}

func TestVerifyUnknownUser(t *testing.T) {
	t.Parallel()

	s := newService()
	// Unknown user and wrong password look identical to the caller.
	assert.False(t, s.Verify(context.Background(), "nobody", "pw"))
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()

	s := newService()
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", "pw1", []byte("key_a")))
	err := s.Register(ctx, "alice", "pw2", []byte("key_b"))
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterEmptyKey(t *testing.T) {
	t.Parallel()

	s := newService()
	ctx := context.Background()

	assert.ErrorIs(t, s.Register(ctx, "alice", "pw1", nil), ErrInvalidKey)
	assert.ErrorIs(t, s.Register(ctx, "alice", "pw1", []byte{}), ErrInvalidKey)

	// A failed registration must not claim the name.
	require.NoError(t, s.Register(ctx, "alice", "pw1", []byte("key_a")))
}

func TestLookupPublicKey(t *testing.T) {
	t.Parallel()

	s := newService()
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", "pw1", []byte("key_a")))

	key, err := s.LookupPublicKey(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("key_a"), key)

	_, err = s.LookupPublicKey(ctx, "nobody")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestPasswordIsNotStoredInTheClear(t *testing.T) {
	t.Parallel()

	repo := user.NewMemoryRepo()
	s := NewService(repo)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", "pw1", []byte("key_a")))

	u, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.NotContains(t, string(u.PasswordHash), "pw1")
	assert.NotEmpty(t, u.PasswordHash)
	assert.False(t, u.CreatedAt.IsZero())
}
