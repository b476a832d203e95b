package directory

import (
	"context"

	"secure_chat/internal/model"
	"secure_chat/internal/repository/user"
)

type (
	// Service is the public key directory: a read-only projection over the
	// credential records. Lookups require no authentication, since clients
	// need a peer's key before they can talk to anyone.
	Service struct {
		users user.Repository
	}
)

func NewService(users user.Repository) *Service {
	return &Service{
		users: users,
	}
}

// GetPublicKey resolves a username to its published identity key. Fails
// with user.ErrNotFound for unknown names.
func (s *Service) GetPublicKey(ctx context.Context, username string) (*model.PublicKeyResponse, error) {
	u, err := s.users.GetByName(ctx, username)
	if err != nil {
		return nil, err
	}
	return &model.PublicKeyResponse{
		Username:          u.Username,
		IdentityPublicKey: u.IdentityPublicKey,
	}, nil
}
