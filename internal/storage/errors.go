package storage

import (
	"errors"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

// Storage errors shared by every backend.
var (
	// ErrNotFound is returned when a requested key does not exist.
	ErrNotFound = models.ErrNotFound

	// ErrInvalidKey is returned for empty keys.
	ErrInvalidKey = errors.New("invalid key")

	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("store is closed")
)
