package box

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"
)

// Client-side crypto. The server never calls into this package: it only
// relays the ciphertext and nonce this code produces.
//
// Scheme: each client holds a long-term X25519 identity keypair and
// publishes the public half through the directory. A pairwise session key
// is the precomputed box key (X25519 shared secret + HSalsa20), and each
// message is sealed with XSalsa20-Poly1305 under a fresh random nonce.
// Both directions derive the same session key, so one key covers the
// conversation.

// ErrDecrypt is returned when a ciphertext fails authentication.
var ErrDecrypt = errors.New("decryption failed")

type (
	Identity struct {
		Public  *[32]byte
		Private *[32]byte
	}
)

func NewIdentity() (*Identity, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate identity: %w", err)
	}
	return &Identity{Public: pub, Private: priv}, nil
}

// SessionKey derives the symmetric key shared with the peer.
func (id *Identity) SessionKey(peerPublic []byte) (*[32]byte, error) {
	if len(peerPublic) != 32 {
		return nil, fmt.Errorf("peer public key must be 32 bytes, got %d", len(peerPublic))
	}

	var peer [32]byte
	copy(peer[:], peerPublic)

	key := new([32]byte)
	box.Precompute(key, &peer, id.Private)
	return key, nil
}

// Seal encrypts plaintext under the session key with a fresh random
// nonce. Ciphertext and nonce are returned separately because they travel
// in separate envelope fields.
func Seal(key *[32]byte, plaintext []byte) (ciphertext, nonce []byte, err error) {
	var n [24]byte
	if _, err := io.ReadFull(rand.Reader, n[:]); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext = secretbox.Seal(nil, plaintext, &n, key)
	return ciphertext, n[:], nil
}

// Open decrypts a sealed message.
func Open(key *[32]byte, ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) != 24 {
		return nil, fmt.Errorf("nonce must be 24 bytes, got %d", len(nonce))
	}

	var n [24]byte
	copy(n[:], nonce)

	plain, ok := secretbox.Open(nil, ciphertext, &n, key)
	if !ok {
		return nil, ErrDecrypt
	}
	return plain, nil
}
