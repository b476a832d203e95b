package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"secure_chat/internal/model"
	"secure_chat/internal/repository/message"
	"secure_chat/internal/repository/user"
)

// ErrRecipientNotFound is returned when sending to an unknown user.
var ErrRecipientNotFound = errors.New("target user not found")

type (
	// Service is the store-and-forward relay. It appends opaque envelopes
	// to the log and serves cursor reads scoped to the authenticated
	// recipient. Fetch never consumes anything: a client that retries with
	// a stale cursor simply sees the same envelopes again.
	Service struct {
		users user.Repository
		log   message.Log
		hub   *Hub
	}
)

func NewService(users user.Repository, log message.Log) *Service {
	return &Service{
		users: users,
		log:   log,
		hub:   NewHub(),
	}
}

// Send validates the recipient and appends the envelope. The sender name
// must come from an authenticated caller context; it is never read from
// the request body, so a caller cannot spoof from_user.
//
// timestamp is taken as-is, past or future; only a zero value falls back
// to server time. Clock skew is the clients' problem.
func (s *Service) Send(ctx context.Context, sender, recipient string, ciphertext, nonce []byte, timestamp int64) (int64, error) {
	if _, err := s.users.GetByName(ctx, recipient); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return 0, ErrRecipientNotFound
		}
		return 0, fmt.Errorf("resolve recipient: %w", err)
	}

	ts := timestamp
	if ts == 0 {
		ts = time.Now().Unix()
	}

	env := &model.Envelope{
		From:       sender,
		To:         recipient,
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Timestamp:  ts,
	}

	id, err := s.log.Append(ctx, env)
	if err != nil {
		return 0, fmt.Errorf("append envelope: %w", err)
	}

	// Live push is best effort; the log remains the source of truth.
	s.hub.Notify(env)

	return id, nil
}

// Fetch returns all envelopes addressed to the recipient with id greater
// than sinceID, in ascending id order.
func (s *Service) Fetch(ctx context.Context, recipient string, sinceID int64) ([]*model.Envelope, error) {
	return s.log.After(ctx, recipient, sinceID)
}

// Subscribe registers a live-delivery channel for the recipient. The
// returned cancel func must be called when the subscriber goes away.
func (s *Service) Subscribe(recipient string) (<-chan *model.Envelope, func()) {
	return s.hub.Subscribe(recipient)
}
