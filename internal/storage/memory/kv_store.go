// Package memory provides in-process storage backends.
package memory

import (
	"context"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/challenge-blueprint/internal/storage"
)

type entry struct {
	value     []byte
	updatedAt time.Time
}

// KVStore implements storage.KVStore on top of go-cache.
type KVStore struct {
	cache  *cache.Cache
	now    func() time.Time
	mu     sync.RWMutex
	closed bool
}

// Compile-time interface check.
var _ storage.KVStore = (*KVStore)(nil)

// NewKVStore creates an empty store whose entries never expire on their own.
func NewKVStore() *KVStore {
	return &KVStore{
		cache: cache.New(cache.NoExpiration, 0),
		now:   time.Now,
	}
}

func (s *KVStore) check(key string) error {
	if s.closed {
		return storage.ErrClosed
	}
	return storage.ValidateKey(key)
}

// Get returns a copy of the stored value.
func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(key); err != nil {
		return nil, err
	}
	item, found := s.cache.Get(key)
	if !found {
		return nil, storage.ErrNotFound
	}
	e := item.(entry)
	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value.
func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(key); err != nil {
		return err
	}
	s.cache.Set(key, entry{value: append([]byte(nil), value...), updatedAt: s.now()}, cache.NoExpiration)
	return nil
}

// Delete removes key if present.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(key); err != nil {
		return err
	}
	s.cache.Delete(key)
	return nil
}

// DeleteOlderThan removes entries last written before cutoff.
func (s *KVStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, storage.ErrClosed
	}
	var deleted int64
	for k, item := range s.cache.Items() {
		if e, ok := item.Object.(entry); ok && e.updatedAt.Before(cutoff) {
			s.cache.Delete(k)
			deleted++
		}
	}
	return deleted, nil
}

// Ping fails only after Close.
func (s *KVStore) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return storage.ErrClosed
	}
	return nil
}

// Close drops all entries.
func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cache.Flush()
	return nil
}
