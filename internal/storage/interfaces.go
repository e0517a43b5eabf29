// Package storage defines the persistence contracts for user preferences and
// simulation history. Backends live in the memory, sqlite, postgres and
// clickhouse subpackages.
package storage

import (
	"context"
	"time"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

// KVStore is a small string-keyed blob store. Values are opaque to the store.
type KVStore interface {
	// Get returns ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set inserts or replaces a value and stamps its update time.
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	// DeleteOlderThan removes values last written before cutoff and returns how many went.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// RunHistoryStore records completed simulation runs.
type RunHistoryStore interface {
	Record(ctx context.Context, rec models.RunRecord) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]models.RunRecord, error)
	Close() error
}

// ValidateKey rejects keys no backend can store.
func ValidateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}
