package message

import (
	"context"
	"sync"

	"secure_chat/internal/model"
)

type (
	// MemoryLog is the default in-process log. Allocating the id and
	// appending the record happen under one lock, which is what keeps the
	// id sequence gapless when senders race.
	MemoryLog struct {
		mu       sync.RWMutex
		nextID   int64
		messages []*model.Envelope
	}
)

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		nextID: 1,
	}
}

func (l *MemoryLog) Append(_ context.Context, env *model.Envelope) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored := *env
	stored.ID = l.nextID
	l.nextID++

	l.messages = append(l.messages, &stored)
	env.ID = stored.ID
	return stored.ID, nil
}

func (l *MemoryLog) After(_ context.Context, recipient string, sinceID int64) ([]*model.Envelope, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// The slice is already in ascending id order; ids are gapless and
	// 1-based, so the first candidate sits at index sinceID.
	start := sinceID
	if start < 0 {
		start = 0
	}
	if start > int64(len(l.messages)) {
		start = int64(len(l.messages))
	}

	out := make([]*model.Envelope, 0)
	for _, m := range l.messages[start:] {
		if m.To != recipient {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}
