package message

import (
	"context"
	"secure_chat/internal/model"
)

type (
	// Log is an append-only ordered store of envelopes. Append assigns the
	// next id and inserts in one atomic step, so ids are strictly
	// increasing with no gaps or reuse even under concurrent senders.
	// Envelopes are retained forever: there is no deletion or expiry, and
	// unbounded growth is an accepted cost of the design.
	Log interface {
		// Append stores the envelope and returns its assigned id. The
		// envelope's ID field is set as a side effect.
		Append(ctx context.Context, env *model.Envelope) (int64, error)
		// After returns all envelopes with id > sinceID addressed to the
		// recipient, in ascending id order. It never mutates the log, so
		// repeated calls with the same cursor are idempotent.
		After(ctx context.Context, recipient string, sinceID int64) ([]*model.Envelope, error)
	}
)
