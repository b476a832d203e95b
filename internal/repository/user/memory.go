package user

import (
	"context"
	"sync"

	"secure_chat/internal/model"
)

type (
	// MemoryRepo is the default in-process store. The single lock makes
	// duplicate-check and insert one critical section, so two concurrent
	// registrations of the same name cannot both succeed.
	MemoryRepo struct {
		mu    sync.RWMutex
		users map[string]*model.User
	}
)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users: make(map[string]*model.User),
	}
}

func (r *MemoryRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return ErrDuplicate
	}
	r.users[user.Username] = user
	return nil
}

func (r *MemoryRepo) GetByName(_ context.Context, name string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[name]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}
