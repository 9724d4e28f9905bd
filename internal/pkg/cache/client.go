package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client define o contrato de cache usado pelos repositórios, pelo rate limiter,
// pelo bloqueio de login e pela revogação de tokens.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	GetInt(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Incr incrementa o contador; aplica a expiração quando a chave é criada ou não tem TTL.
	Incr(ctx context.Context, key string, expiration time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// ErrCacheMiss é retornado quando a chave não é encontrada no cache.
var ErrCacheMiss = redis.Nil

// RedisClient é a implementação de Client sobre Redis.
type RedisClient struct {
	rdb     *redis.Client
	timeout time.Duration
}

// NewRedisClient cria o cliente e faz um PING inicial.
func NewRedisClient(addr string, timeout time.Duration) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	c := &RedisClient{rdb: rdb, timeout: timeout}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("falha ao conectar ao Redis em %s: %w", addr, err)
	}

	return c, nil
}

// NewFromRedis envolve um *redis.Client já configurado.
func NewFromRedis(rdb *redis.Client, timeout time.Duration) *RedisClient {
	return &RedisClient{rdb: rdb, timeout: timeout}
}

func (c *RedisClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Get recupera o valor associado a uma chave.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// GetInt recupera um contador. Chave ausente devolve ErrCacheMiss.
func (c *RedisClient) GetInt(ctx context.Context, key string) (int, error) {
	val, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("valor não numérico em %s: %w", key, err)
	}
	return n, nil
}

// Set define um valor para uma chave com um tempo de expiração.
func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Delete remove uma chave do cache.
func (c *RedisClient) Delete(ctx context.Context, key string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.rdb.Del(ctx, key).Err()
}

// Exists informa se a chave está presente.
func (c *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// incrWithTTL incrementa e aplica a expiração no mesmo comando atômico. Um contador
// sem TTL (PTTL -1) recebe a janela; contadores em curso mantêm a expiração original.
var incrWithTTL = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if tonumber(ARGV[1]) > 0 and (n == 1 or redis.call("PTTL", KEYS[1]) == -1) then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Incr incrementa o contador. O TTL é aplicado apenas quando o INCR cria a chave,
// de modo que a janela não é renovada a cada incremento. O cancelamento do contexto
// do chamador não interrompe o script; vale apenas o timeout do cliente.
func (c *RedisClient) Incr(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	ctx, cancel := c.withTimeout(context.WithoutCancel(ctx))
	defer cancel()

	return incrWithTTL.Run(ctx, c.rdb, []string{key}, expiration.Milliseconds()).Int64()
}

// Ping verifica a disponibilidade do Redis.
func (c *RedisClient) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.rdb.Ping(ctx).Err()
}

// Close encerra as conexões com o Redis.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
