package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryClient é um Client em memória para um único processo.
// Usado como fallback quando o Redis está indisponível e nos testes.
type MemoryClient struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{entries: make(map[string]memoryEntry), now: time.Now}
}

// WithClock substitui a fonte de tempo usada para expirar chaves.
func (m *MemoryClient) WithClock(now func() time.Time) *MemoryClient {
	m.now = now
	return m
}

// lookup deve ser chamado com o mutex travado.
func (m *MemoryClient) lookup(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (m *MemoryClient) expiry(expiration time.Duration) time.Time {
	if expiration <= 0 {
		return time.Time{}
	}
	return m.now().Add(expiration)
}

func (m *MemoryClient) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return e.value, nil
}

func (m *MemoryClient) GetInt(ctx context.Context, key string) (int, error) {
	val, err := m.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("valor não numérico em %s: %w", key, err)
	}
	return n, nil
}

func (m *MemoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}
	m.entries[key] = memoryEntry{value: s, expiresAt: m.expiry(expiration)}
	return nil
}

func (m *MemoryClient) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *MemoryClient) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.lookup(key)
	return ok, nil
}

func (m *MemoryClient) Incr(_ context.Context, key string, expiration time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key)
	if !ok {
		m.entries[key] = memoryEntry{value: "1", expiresAt: m.expiry(expiration)}
		return 1, nil
	}
	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("valor não numérico em %s: %w", key, err)
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	if e.expiresAt.IsZero() {
		e.expiresAt = m.expiry(expiration)
	}
	m.entries[key] = e
	return n, nil
}

func (m *MemoryClient) Ping(context.Context) error {
	return nil
}
