package redis

import (
	// Go Internal Packages
	"context"
	"errors"
	"time"

	// External Packages
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps the console bearer token under a single key so every console process
// on the host shares one login.
type SessionStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, key string, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, key: key, ttl: ttl}
}

// Load returns the stored token, empty when none is stored.
func (s *SessionStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (s *SessionStore) Save(ctx context.Context, token string) error {
	return s.client.Set(ctx, s.key, token, s.ttl).Err()
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
