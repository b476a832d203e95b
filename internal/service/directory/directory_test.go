package directory

import (
	"context"
	"testing"

	"secure_chat/internal/model"
	"secure_chat/internal/repository/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPublicKey(t *testing.T) {
	t.Parallel()

	repo := user.NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.User{
		Username:          "alice",
		IdentityPublicKey: []byte("key_a"),
	}))

	s := NewService(repo)

	resp, err := s.GetPublicKey(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, []byte("key_a"), resp.IdentityPublicKey)
}

func TestGetPublicKeyUnknownUser(t *testing.T) {
	t.Parallel()

	s := NewService(user.NewMemoryRepo())
	_, err := s.GetPublicKey(context.Background(), "nobody")
	assert.ErrorIs(t, err, user.ErrNotFound)
}
