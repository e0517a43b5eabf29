package memory

import (
	"context"
	"sync"

	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/storage"
)

// DefaultHistoryCapacity bounds the in-memory run history.
const DefaultHistoryCapacity = 500

// RunHistoryStore keeps the most recent runs in a bounded slice.
type RunHistoryStore struct {
	mu       sync.RWMutex
	records  []models.RunRecord
	capacity int
}

// Compile-time interface check.
var _ storage.RunHistoryStore = (*RunHistoryStore)(nil)

// NewRunHistoryStore creates a store holding at most capacity records.
func NewRunHistoryStore(capacity int) *RunHistoryStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &RunHistoryStore{capacity: capacity}
}

// Record appends rec, evicting the oldest record when full.
func (s *RunHistoryStore) Record(_ context.Context, rec models.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if len(s.records) > s.capacity {
		s.records = s.records[len(s.records)-s.capacity:]
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *RunHistoryStore) Recent(_ context.Context, limit int) ([]models.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]models.RunRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Close is a no-op.
func (s *RunHistoryStore) Close() error {
	return nil
}
