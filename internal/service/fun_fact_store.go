package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// FunFactStore guarda, por sesion, los indices de fun facts ya compartidos.
type FunFactStore interface {
	Shared(ctx context.Context, sessionID string) ([]int, error)
	MarkShared(ctx context.Context, sessionID string, indices ...int) error
	Reset(ctx context.Context, sessionID string) error
}

type sharedFacts struct {
	indices map[int]struct{}
	expires time.Time
}

type memoryFunFactStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	items     map[string]*sharedFacts
	now       func() time.Time
	lastSweep time.Time
}

// sweepInterval acota cada cuanto se recorren las sesiones vencidas.
const sweepInterval = time.Minute

func NewMemoryFunFactStore(ttl time.Duration) FunFactStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &memoryFunFactStore{
		ttl:   ttl,
		items: make(map[string]*sharedFacts),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryFunFactStore) Shared(_ context.Context, sessionID string) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[sessionID]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expires) {
		delete(s.items, sessionID)
		return nil, nil
	}
	out := make([]int, 0, len(entry.indices))
	for idx := range entry.indices {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out, nil
}

func (s *memoryFunFactStore) MarkShared(_ context.Context, sessionID string, indices ...int) error {
	if strings.TrimSpace(sessionID) == "" || len(indices) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	entry, ok := s.items[sessionID]
	if !ok || s.now().After(entry.expires) {
		entry = &sharedFacts{indices: make(map[int]struct{})}
		s.items[sessionID] = entry
	}
	for _, idx := range indices {
		entry.indices[idx] = struct{}{}
	}
	entry.expires = s.now().Add(s.ttl)
	return nil
}

// sweepLocked borra las sesiones vencidas que nadie volvio a leer. Requiere s.mu tomado.
func (s *memoryFunFactStore) sweepLocked() {
	now := s.now()
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for id, entry := range s.items {
		if now.After(entry.expires) {
			delete(s.items, id)
		}
	}
}

func (s *memoryFunFactStore) Reset(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}

type redisSetClient interface {
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisFunFactStore struct {
	client redisSetClient
	ttl    time.Duration
	prefix string
}

func NewRedisFunFactStore(client *redis.Client, ttl time.Duration) FunFactStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &redisFunFactStore{
		client: client,
		ttl:    ttl,
		prefix: "chat:funfacts:",
	}
}

func (s *redisFunFactStore) Shared(ctx context.Context, sessionID string) ([]int, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	members, err := s.client.SMembers(ctx, s.prefix+sessionID).Result()
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(members))
	for _, m := range members {
		idx, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out = append(out, idx)
	}
	sort.Ints(out)
	return out, nil
}

func (s *redisFunFactStore) MarkShared(ctx context.Context, sessionID string, indices ...int) error {
	if strings.TrimSpace(sessionID) == "" || len(indices) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	key := s.prefix + sessionID
	members := make([]interface{}, 0, len(indices))
	for _, idx := range indices {
		members = append(members, strconv.Itoa(idx))
	}
	if err := s.client.SAdd(ctx, key, members...).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}

func (s *redisFunFactStore) Reset(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}
