// Package store persists zenith records as JSON values under string keys.
//
// A Backend only moves bytes. The typed Load and Save helpers own the JSON
// encoding and the best-effort policy: a missing or unreadable value falls
// back to the caller's default, and a failed write is logged, never returned.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/theirongolddev/zenith/internal/logger"
)

// Backend is a durable key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Batcher is a Backend that can write several keys at once.
type Batcher interface {
	SetMany(ctx context.Context, values map[string][]byte) error
}

// Lister is a Backend that tracks when each key was last written.
type Lister interface {
	Keys(ctx context.Context) (map[string]time.Time, error)
}

// Backend kinds accepted by Open.
const (
	KindSQLite = "sqlite"
	KindRedis  = "redis"
	KindMemory = "memory"
)

// Open builds the backend named by kind. dataDir holds the SQLite file;
// redisURL is only read for the redis kind.
func Open(kind, dataDir, redisURL string) (Backend, error) {
	switch kind {
	case "", KindSQLite:
		return OpenSQLite(filepath.Join(dataDir, "zenith.db"))
	case KindRedis:
		return OpenRedis(redisURL)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}

// Load decodes the value at key into a T. It returns def when the key is
// missing, the backend fails, or the stored bytes are not valid JSON for T.
func Load[T any](ctx context.Context, b Backend, key string, def T) T {
	raw, ok, err := b.Get(ctx, key)
	if err != nil {
		logger.FromContext(ctx).Warn("store read failed", "key", key, "error", err)
		return def
	}
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.FromContext(ctx).Warn("store value unreadable, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Save encodes v and writes it at key. It reports whether the write landed.
func Save(ctx context.Context, b Backend, key string, v any) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		logger.FromContext(ctx).Warn("store encode failed", "key", key, "error", err)
		return false
	}
	if err := b.Set(ctx, key, raw); err != nil {
		logger.FromContext(ctx).Warn("store write failed", "key", key, "error", err)
		return false
	}
	return true
}

// SaveMany encodes every value and writes them together. Backends that are
// not Batchers get one Set per key. It reports whether every write landed.
func SaveMany(ctx context.Context, b Backend, values map[string]any) bool {
	raw := make(map[string][]byte, len(values))
	for k, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			logger.FromContext(ctx).Warn("store encode failed", "key", k, "error", err)
			return false
		}
		raw[k] = data
	}
	if bt, ok := b.(Batcher); ok {
		if err := bt.SetMany(ctx, raw); err != nil {
			logger.FromContext(ctx).Warn("store batch write failed", "keys", len(raw), "error", err)
			return false
		}
		return true
	}
	landed := true
	for k, v := range raw {
		if err := b.Set(ctx, k, v); err != nil {
			logger.FromContext(ctx).Warn("store write failed", "key", k, "error", err)
			landed = false
		}
	}
	return landed
}

// Record describes one app key as the backend holds it.
type Record struct {
	Key       string
	Present   bool
	Size      int
	UpdatedAt time.Time
}

// Inspect reports every key in AllKeys. UpdatedAt is only set when the
// backend is a Lister.
func Inspect(ctx context.Context, b Backend) ([]Record, error) {
	var times map[string]time.Time
	if l, ok := b.(Lister); ok {
		t, err := l.Keys(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing keys: %w", err)
		}
		times = t
	}
	out := make([]Record, 0, len(AllKeys))
	for _, k := range AllKeys {
		raw, ok, err := b.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{Key: k, Present: ok, Size: len(raw), UpdatedAt: times[k]})
	}
	return out, nil
}
