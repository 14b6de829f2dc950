package cache

import (
	"context"

	"github.com/rs/zerolog"
)

// EvictCallback is called with the key of an evicted entry.
// The memory provider also reports TTL expiry; Redis only reports capacity evictions.
type EvictCallback func(key string)

// Cache stores raw upstream response bodies keyed by request URL.
// Implementations may use in-memory storage or external backends like Redis/Valkey.
type Cache interface {
	// Get retrieves a value by key. Returns the value and true if found, or nil and false if not.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with the given key, overwriting any existing entry.
	Set(ctx context.Context, key string, value []byte)

	// Len returns the number of live entries. Redis reports an approximation.
	Len(ctx context.Context) int

	// Close releases any resources held by the cache (e.g., network connections).
	Close() error
}

// Logger receives errors from cache backends that cannot surface them to the caller.
type Logger interface {
	Error(msg string, err error)
}

type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger adapts a zerolog.Logger to the cache Logger interface.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return &zerologLogger{logger: logger.With().Str("component", "cache").Logger()}
}

func (z *zerologLogger) Error(msg string, err error) {
	z.logger.Error().Err(err).Msg(msg)
}
