package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists carts keyed by cart id and notifies subscribers on change.
// Subscribe returns an unsubscribe func; callbacks receive the cart id and
// run synchronously on the mutating goroutine.
type Store interface {
	Get(ctx context.Context, id string) ([]Line, error)
	Set(ctx context.Context, id string, lines []Line) error
	Add(ctx context.Context, id string, lines ...Line) error
	Clear(ctx context.Context, id string) error
	Subscribe(fn func(cartID string)) (unsubscribe func())
}

type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(string)
}

func (n *notifier) Subscribe(fn func(string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(string))
	}
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *notifier) notify(cartID string) {
	n.mu.Lock()
	fns := make([]func(string), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(cartID)
	}
}

// RedisStore keeps each cart as a JSON array under its own key. A corrupt
// payload reads as an empty cart rather than an error.
type RedisStore struct {
	R   *redis.Client
	TTL time.Duration

	notifier
}

func redisKey(id string) string { return "cart:" + id }

// Get loads the cart, treating missing or corrupt data as empty.
func (s *RedisStore) Get(ctx context.Context, id string) ([]Line, error) {
	data, err := s.R.Get(ctx, redisKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, nil
	}
	return lines, nil
}

// Set replaces the cart contents.
func (s *RedisStore) Set(ctx context.Context, id string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := s.R.Set(ctx, redisKey(id), data, s.TTL).Err(); err != nil {
		return err
	}
	s.notify(id)
	return nil
}

// Add appends entries. The same service added twice is two entries.
func (s *RedisStore) Add(ctx context.Context, id string, lines ...Line) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.Set(ctx, id, append(current, lines...))
}

// Clear removes the cart entirely.
func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if err := s.R.Del(ctx, redisKey(id)).Err(); err != nil {
		return err
	}
	s.notify(id)
	return nil
}

// MemoryStore is the in-process Store used by tests.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]Line

	notifier
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]Line)}
}

// Get returns a copy of the stored cart.
func (s *MemoryStore) Get(ctx context.Context, id string) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := s.carts[id]
	out := make([]Line, len(lines))
	copy(out, lines)
	return out, nil
}

// Set replaces the cart contents.
func (s *MemoryStore) Set(ctx context.Context, id string, lines []Line) error {
	cp := make([]Line, len(lines))
	copy(cp, lines)
	s.mu.Lock()
	s.carts[id] = cp
	s.mu.Unlock()
	s.notify(id)
	return nil
}

// Add appends entries.
func (s *MemoryStore) Add(ctx context.Context, id string, lines ...Line) error {
	s.mu.Lock()
	s.carts[id] = append(s.carts[id], lines...)
	s.mu.Unlock()
	s.notify(id)
	return nil
}

// Clear removes the cart entirely.
func (s *MemoryStore) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.carts, id)
	s.mu.Unlock()
	s.notify(id)
	return nil
}
