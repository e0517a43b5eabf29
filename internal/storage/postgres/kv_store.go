package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/challenge-blueprint/internal/storage"
)

// KVStore implements storage.KVStore on the preferences table.
type KVStore struct {
	pool *Pool
	now  func() time.Time
}

// Compile-time interface check.
var _ storage.KVStore = (*KVStore)(nil)

// NewKVStore creates a store on an already migrated pool.
func NewKVStore(pool *Pool) *KVStore {
	return &KVStore{pool: pool, now: time.Now}
}

// Get returns storage.ErrNotFound for absent keys.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM preferences WHERE key = $1`, key).Scan(&value)
	if isNotFoundError(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set upserts value.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key if present.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM preferences WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// DeleteOlderThan removes rows last written before cutoff.
func (s *KVStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM preferences WHERE updated_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete stale preferences: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ping verifies database connectivity
func (s *KVStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the underlying pool.
func (s *KVStore) Close() error {
	s.pool.Close()
	return nil
}
