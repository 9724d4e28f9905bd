package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sghss/internal/pkg/cache"
)

// cancelAfterFirst cancela o contexto do chamador assim que o primeiro comando termina,
// simulando um cliente HTTP que desconecta no meio da operação.
type cancelAfterFirst struct {
	cancel context.CancelFunc
}

func (h cancelAfterFirst) BeforeProcess(ctx context.Context, _ redis.Cmder) (context.Context, error) {
	return ctx, nil
}

func (h cancelAfterFirst) AfterProcess(context.Context, redis.Cmder) error {
	h.cancel()
	return nil
}

func (h cancelAfterFirst) BeforeProcessPipeline(ctx context.Context, _ []redis.Cmder) (context.Context, error) {
	return ctx, nil
}

func (h cancelAfterFirst) AfterProcessPipeline(context.Context, []redis.Cmder) error {
	return nil
}

func newRedisClient(t *testing.T) (*cache.RedisClient, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return cache.NewFromRedis(rdb, time.Second), rdb, mr
}

func TestRedisClient_IncrAppliesWindowOnce(t *testing.T) {
	ctx := context.Background()
	c, _, mr := newRedisClient(t)

	n, err := c.Incr(ctx, "login-attempts:maria@example.com", 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 30*time.Minute, mr.TTL("login-attempts:maria@example.com"))

	mr.FastForward(10 * time.Minute)
	n, err = c.Incr(ctx, "login-attempts:maria@example.com", 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 20*time.Minute, mr.TTL("login-attempts:maria@example.com"), "a janela não é renovada")

	mr.FastForward(20 * time.Minute)
	assert.False(t, mr.Exists("login-attempts:maria@example.com"))
}

func TestRedisClient_IncrSurvivesCallerCancellation(t *testing.T) {
	c, rdb, mr := newRedisClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rdb.AddHook(cancelAfterFirst{cancel: cancel})

	n, err := c.Incr(ctx, "rate-limit:10.0.0.1", time.Minute)

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.True(t, mr.Exists("rate-limit:10.0.0.1"))
	assert.Equal(t, time.Minute, mr.TTL("rate-limit:10.0.0.1"), "contador nunca fica sem expiração")
}

func TestRedisClient_IncrRepairsCounterWithoutTTL(t *testing.T) {
	c, _, mr := newRedisClient(t)
	require.NoError(t, mr.Set("login-attempts:joao@example.com", "4"))

	n, err := c.Incr(context.Background(), "login-attempts:joao@example.com", 30*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, 30*time.Minute, mr.TTL("login-attempts:joao@example.com"))
}

func TestRedisClient_GetSetExists(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newRedisClient(t)

	_, err := c.Get(ctx, "patient:user:u-1")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "patient:user:u-1", "{}", time.Minute))
	ok, err := c.Exists(ctx, "patient:user:u-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Set(ctx, "counter", 7, 0))
	v, err := c.GetInt(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
