package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
)

const snapshotKeySuffix = "latest"

// MemorySnapshotStore keeps the latest snapshot in process.
type MemorySnapshotStore struct {
	mu       sync.RWMutex
	snapshot *dto.DashboardSnapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

// Load returns nil when nothing has been saved yet.
func (s *MemorySnapshotStore) Load(_ context.Context) (*dto.DashboardSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, nil
}

// Save replaces the snapshot. Readers see either the old or the new one.
func (s *MemorySnapshotStore) Save(_ context.Context, snapshot *dto.DashboardSnapshot) error {
	if snapshot == nil {
		return errors.New("snapshot cannot be nil")
	}
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	return nil
}

// Invalidate drops the cached snapshot.
func (s *MemorySnapshotStore) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}

// RedisSnapshotStore shares the latest snapshot between server replicas and
// the worker. The snapshot is written with a single SET.
type RedisSnapshotStore struct {
	client *redis.Client
	prefix string        // Key prefix, e.g., "dash2:snapshot:"
	ttl    time.Duration // Expiration of the stored snapshot
}

func NewRedisSnapshotStore(client *redis.Client, prefix string, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisSnapshotStore) Load(ctx context.Context) (*dto.DashboardSnapshot, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot from redis: %w", err)
	}

	var snapshot dto.DashboardSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

func (s *RedisSnapshotStore) Save(ctx context.Context, snapshot *dto.DashboardSnapshot) error {
	if snapshot == nil {
		return errors.New("snapshot cannot be nil")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot in redis: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) key() string {
	return s.prefix + snapshotKeySuffix
}

// TieredSnapshotStore serves reads from memory and falls back to Redis.
// Saves go to both. Invalidate is called when another process publishes.
type TieredSnapshotStore struct {
	local  *MemorySnapshotStore
	shared *RedisSnapshotStore
}

func NewTieredSnapshotStore(local *MemorySnapshotStore, shared *RedisSnapshotStore) *TieredSnapshotStore {
	return &TieredSnapshotStore{local: local, shared: shared}
}

func (s *TieredSnapshotStore) Load(ctx context.Context) (*dto.DashboardSnapshot, error) {
	if snapshot, _ := s.local.Load(ctx); snapshot != nil {
		return snapshot, nil
	}

	snapshot, err := s.shared.Load(ctx)
	if err != nil || snapshot == nil {
		return nil, err
	}
	_ = s.local.Save(ctx, snapshot)
	return snapshot, nil
}

func (s *TieredSnapshotStore) Save(ctx context.Context, snapshot *dto.DashboardSnapshot) error {
	if err := s.shared.Save(ctx, snapshot); err != nil {
		return err
	}
	return s.local.Save(ctx, snapshot)
}

func (s *TieredSnapshotStore) Invalidate() {
	s.local.Invalidate()
}
