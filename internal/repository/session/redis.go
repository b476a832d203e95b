package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisSvc "secure_chat/internal/service/redis"
)

type (
	// RedisStore keeps sessions in redis so they survive a server restart.
	// TTL handling is delegated to redis key expiry.
	RedisStore struct {
		redisService *redisSvc.RedisService
	}
)

func NewRedisStore(redisService *redisSvc.RedisService) *RedisStore {
	return &RedisStore{
		redisService: redisService,
	}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (s *RedisStore) Put(ctx context.Context, token, username string, ttl time.Duration) error {
	return s.redisService.Set(ctx, sessionKey(token), username, ttl)
}

func (s *RedisStore) Get(ctx context.Context, token string) (string, error) {
	username, err := s.redisService.Get(ctx, sessionKey(token))
	if errors.Is(err, redisSvc.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.redisService.Del(ctx, sessionKey(token))
}
