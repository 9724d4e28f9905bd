package authservice

import (
	"context"
	"errors"
	"time"

	"sghss/internal/pkg/cache"
)

const attemptsPrefix = "login-attempts:"

// CacheAttemptStore conta falhas de login por e-mail no cache, numa janela que
// começa na primeira falha e dura window.
type CacheAttemptStore struct {
	client cache.Client
	window time.Duration
}

func NewCacheAttemptStore(client cache.Client, window time.Duration) *CacheAttemptStore {
	return &CacheAttemptStore{client: client, window: window}
}

func (s *CacheAttemptStore) Failures(ctx context.Context, email string) (int, error) {
	n, err := s.client.GetInt(ctx, attemptsPrefix+email)
	if errors.Is(err, cache.ErrCacheMiss) {
		return 0, nil
	}
	return n, err
}

func (s *CacheAttemptStore) RegisterFailure(ctx context.Context, email string) (int, error) {
	n, err := s.client.Incr(ctx, attemptsPrefix+email, s.window)
	return int(n), err
}

func (s *CacheAttemptStore) Reset(ctx context.Context, email string) error {
	return s.client.Delete(ctx, attemptsPrefix+email)
}
