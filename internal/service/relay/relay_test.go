package relay

import (
	"context"
	"sync"
	"testing"
	"time"

	"secure_chat/internal/model"
	"secure_chat/internal/repository/message"
	"secure_chat/internal/repository/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, usernames ...string) *Service {
	t.Helper()

	repo := user.NewMemoryRepo()
	for _, name := range usernames {
		require.NoError(t, repo.Create(context.Background(), &model.User{
			Username:          name,
			IdentityPublicKey: []byte("key-" + name),
		}))
	}
	return NewService(repo, message.NewMemoryLog())
}

func TestSendAndFetch(t *testing.T) {
	t.Parallel()

	s := newService(t, "alice", "bob")
	ctx := context.Background()

	id, err := s.Send(ctx, "alice", "bob", []byte("C1"), []byte("N1"), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	envs, err := s.Fetch(ctx, "bob", 0)
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, int64(1), envs[0].ID)
	assert.Equal(t, "alice", envs[0].From)
	assert.Equal(t, "bob", envs[0].To)
	assert.Equal(t, []byte("C1"), envs[0].Ciphertext)
	assert.Equal(t, []byte("N1"), envs[0].Nonce)
	assert.Equal(t, int64(42), envs[0].Timestamp)
}

func TestSendUnknownRecipient(t *testing.T) {
	t.Parallel()

	s := newService(t, "alice")
	_, err := s.Send(context.Background(), "alice", "nonexistent", []byte("C"), []byte("N"), 0)
	assert.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestSendTimestampPolicy(t *testing.T) {
	t.Parallel()

	s := newService(t, "alice", "bob")
	ctx := context.Background()

	// zero falls back to server time
	before := time.Now().Unix()
	_, err := s.Send(ctx, "alice", "bob", []byte("C"), []byte("N"), 0)
	require.NoError(t, err)
	after := time.Now().Unix()

	// past and future timestamps pass through untouched
	_, err = s.Send(ctx, "alice", "bob", []byte("C"), []byte("N"), 1)
	require.NoError(t, err)
	future := time.Now().Add(24 * time.Hour).Unix()
	_, err = s.Send(ctx, "alice", "bob", []byte("C"), []byte("N"), future)
	require.NoError(t, err)

	envs, err := s.Fetch(ctx, "bob", 0)
	require.NoError(t, err)
	require.Len(t, envs, 3)
	assert.GreaterOrEqual(t, envs[0].Timestamp, before)
	assert.LessOrEqual(t, envs[0].Timestamp, after)
	assert.Equal(t, int64(1), envs[1].Timestamp)
	assert.Equal(t, future, envs[2].Timestamp)
}

func TestFetchScopedToRecipient(t *testing.T) {
	t.Parallel()

	s := newService(t, "alice", "bob", "carol")
	ctx := context.Background()

	_, err := s.Send(ctx, "alice", "bob", []byte("C1"), []byte("N1"), 1)
	require.NoError(t, err)
	_, err = s.Send(ctx, "alice", "carol", []byte("C2"), []byte("N2"), 1)
	require.NoError(t, err)
	_, err = s.Send(ctx, "carol", "bob", []byte("C3"), []byte("N3"), 1)
	require.NoError(t, err)

	envs, err := s.Fetch(ctx, "bob", 0)
	require.NoError(t, err)
	require.Len(t, envs, 2)
	for _, env := range envs {
		assert.Equal(t, "bob", env.To)
	}

	envs, err = s.Fetch(ctx, "carol", 0)
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, "carol", envs[0].To)
}

func TestFetchCursorAndIdempotency(t *testing.T) {
	t.Parallel()

	s := newService(t, "alice", "bob")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Send(ctx, "alice", "bob", []byte("C"), []byte("N"), 1)
		require.NoError(t, err)
	}

	first, err := s.Fetch(ctx, "bob", 1)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, int64(2), first[0].ID)
	assert.Equal(t, int64(3), first[1].ID)

	second, err := s.Fetch(ctx, "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConcurrentSendsKeepIDsGapless(t *testing.T) {
	t.Parallel()

	s := newService(t, "alice", "bob")
	ctx := context.Background()

	const senders = 20
	const perSender = 10

	var wg sync.WaitGroup
	ids := make(chan int64, senders*perSender)

	for g := 0; g < senders; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				id, err := s.Send(ctx, "alice", "bob", []byte("C"), []byte("N"), 1)
				if err != nil {
					t.Error(err)
					return
				}
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	require.Len(t, seen, senders*perSender)
	for want := int64(1); want <= senders*perSender; want++ {
		assert.True(t, seen[want], "missing id %d", want)
	}
}

func TestSubscribeReceivesPush(t *testing.T) {
	t.Parallel()

	s := newService(t, "alice", "bob")
	ctx := context.Background()

	envs, cancel := s.Subscribe("bob")
	defer cancel()

	id, err := s.Send(ctx, "alice", "bob", []byte("C1"), []byte("N1"), 1)
	require.NoError(t, err)

	select {
	case env := <-envs:
		assert.Equal(t, id, env.ID)
		assert.Equal(t, "alice", env.From)
	case <-time.After(time.Second):
		t.Fatal("no push received")
	}

	// pushes go only to the addressed recipient
	other, cancelOther := s.Subscribe("carol")
	defer cancelOther()
	_, err = s.Send(ctx, "alice", "bob", []byte("C2"), []byte("N2"), 1)
	require.NoError(t, err)

	select {
	case env := <-other:
		t.Fatalf("carol received envelope addressed to %s", env.To)
	case <-time.After(50 * time.Millisecond):
	}
}
