package user

import (
	"context"
	"errors"
	"secure_chat/internal/model"
)

var (
	// ErrNotFound is returned when no user exists under the given name.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when the username is already registered.
	ErrDuplicate = errors.New("username already exists")
)

type (
	// Repository stores credential records. Usernames are unique and
	// records are immutable once created.
	Repository interface {
		Create(ctx context.Context, user *model.User) error
		GetByName(ctx context.Context, name string) (*model.User, error)
	}
)
