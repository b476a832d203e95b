package message

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"secure_chat/internal/model"
	redisSvc "secure_chat/internal/service/redis"
)

const logKey = "messages"

type (
	// RedisLog persists the envelope log as a redis list. The id of an
	// envelope is its 1-based position in the list, so the sequence stays
	// gapless across restarts without a separate counter that could drift
	// from the list on a crash.
	//
	// The append lock serializes LLEN+RPUSH. The store assumes a single
	// server process owns the key; there is no cross-process coordination.
	RedisLog struct {
		mu           sync.Mutex
		redisService *redisSvc.RedisService
	}
)

func NewRedisLog(redisService *redisSvc.RedisService) *RedisLog {
	return &RedisLog{
		redisService: redisService,
	}
}

func (l *RedisLog) Append(ctx context.Context, env *model.Envelope) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.redisService.LLen(ctx, logKey)
	if err != nil {
		return 0, fmt.Errorf("message log length: %w", err)
	}

	stored := *env
	stored.ID = n + 1

	data, err := json.Marshal(&stored)
	if err != nil {
		return 0, fmt.Errorf("marshal envelope: %w", err)
	}

	if err := l.redisService.RPush(ctx, logKey, data); err != nil {
		return 0, fmt.Errorf("append envelope: %w", err)
	}

	env.ID = stored.ID
	return stored.ID, nil
}

func (l *RedisLog) After(ctx context.Context, recipient string, sinceID int64) ([]*model.Envelope, error) {
	start := sinceID
	if start < 0 {
		start = 0
	}

	// List index of id N is N-1, so entries with id > sinceID begin at
	// index sinceID.
	vals, err := l.redisService.LRange(ctx, logKey, start, -1)
	if err != nil {
		return nil, fmt.Errorf("read message log: %w", err)
	}

	out := make([]*model.Envelope, 0)
	for _, v := range vals {
		var m model.Envelope
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, fmt.Errorf("unmarshal envelope: %w", err)
		}
		if m.To != recipient {
			continue
		}
		out = append(out, &m)
	}
	return out, nil
}
