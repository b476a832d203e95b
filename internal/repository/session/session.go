package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a token is unknown or has expired.
var ErrNotFound = errors.New("session not found")

type (
	// Store keeps token → username bindings. A token maps to exactly one
	// username for its lifetime; a username may hold any number of tokens.
	// ttl of zero means the session never expires.
	Store interface {
		Put(ctx context.Context, token, username string, ttl time.Duration) error
		Get(ctx context.Context, token string) (string, error)
		Delete(ctx context.Context, token string) error
	}
)
