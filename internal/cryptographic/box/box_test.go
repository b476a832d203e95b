package box

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundtrip(t *testing.T) {
	t.Parallel()

	alice, err := NewIdentity()
	require.NoError(t, err)
	bob, err := NewIdentity()
	require.NoError(t, err)

	// both sides derive the same pairwise key
	aliceKey, err := alice.SessionKey(bob.Public[:])
	require.NoError(t, err)
	bobKey, err := bob.SessionKey(alice.Public[:])
	require.NoError(t, err)
	assert.Equal(t, aliceKey, bobKey)

	ciphertext, nonce, err := Seal(aliceKey, []byte("hello bob"))
	require.NoError(t, err)
	require.Len(t, nonce, 24)
	assert.NotContains(t, string(ciphertext), "hello bob")

	plain, err := Open(bobKey, ciphertext, nonce)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello bob"), plain)
}

func TestOpenRejectsTampering(t *testing.T) {
	t.Parallel()

	alice, err := NewIdentity()
	require.NoError(t, err)
	bob, err := NewIdentity()
	require.NoError(t, err)

	key, err := alice.SessionKey(bob.Public[:])
	require.NoError(t, err)

	ciphertext, nonce, err := Seal(key, []byte("payload"))
	require.NoError(t, err)

	ciphertext[0] ^= 0xff
	_, err = Open(key, ciphertext, nonce)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestOpenWrongKey(t *testing.T) {
	t.Parallel()

	alice, err := NewIdentity()
	require.NoError(t, err)
	bob, err := NewIdentity()
	require.NoError(t, err)
	eve, err := NewIdentity()
	require.NoError(t, err)

	key, err := alice.SessionKey(bob.Public[:])
	require.NoError(t, err)
	eveKey, err := eve.SessionKey(alice.Public[:])
	require.NoError(t, err)

	ciphertext, nonce, err := Seal(key, []byte("secret"))
	require.NoError(t, err)

	_, err = Open(eveKey, ciphertext, nonce)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestSessionKeyValidatesLength(t *testing.T) {
	t.Parallel()

	alice, err := NewIdentity()
	require.NoError(t, err)

	_, err = alice.SessionKey([]byte("short"))
	assert.Error(t, err)
}

func TestSealUsesFreshNonces(t *testing.T) {
	t.Parallel()

	alice, err := NewIdentity()
	require.NoError(t, err)
	bob, err := NewIdentity()
	require.NoError(t, err)

	key, err := alice.SessionKey(bob.Public[:])
	require.NoError(t, err)

	_, n1, err := Seal(key, []byte("m"))
	require.NoError(t, err)
	_, n2, err := Seal(key, []byte("m"))
	require.NoError(t, err)
	assert.NotEqual(t, n1, n2)
}
