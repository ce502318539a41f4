package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoDraft is returned by Store.Load when the user has no saved draft.
var ErrNoDraft = errors.New("no draft")

type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (Draft, error)
	Save(ctx context.Context, userID uuid.UUID, d Draft) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

func draftKey(userID uuid.UUID) string {
	return fmt.Sprintf("editor:draft:%s", userID)
}

// RedisStore keeps drafts as JSON strings that expire after TTL.
type RedisStore struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{RDB: rdb, TTL: ttl}
}

func (s *RedisStore) Load(ctx context.Context, userID uuid.UUID) (Draft, error) {
	raw, err := s.RDB.Get(ctx, draftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Draft{}, ErrNoDraft
	}
	if err != nil {
		return Draft{}, err
	}

	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	return d.normalized(), nil
}

func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, d Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, draftKey(userID), raw, s.TTL).Err()
}

func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.RDB.Del(ctx, draftKey(userID)).Err()
}

// MemoryStore is a process-local Store, used when Redis is not configured.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[uuid.UUID]Draft)}
}

func (s *MemoryStore) Load(_ context.Context, userID uuid.UUID) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[userID]
	if !ok {
		return Draft{}, ErrNoDraft
	}
	return d, nil
}

func (s *MemoryStore) Save(_ context.Context, userID uuid.UUID, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = d
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}
