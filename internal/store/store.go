// Package store provides the session key/value store with per-key expiry.
//
// The store holds two kinds of session state: the provider continuation
// handle (keyed by the raw session key) and a parked attachment URL (keyed
// by a derived key). Both are plain strings with independent TTLs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/genesys-ai/botconnector/internal/config"
	"github.com/genesys-ai/botconnector/internal/logging"
)

// Store is the session store capability. Get reports a missing or expired
// key through ok == false, never through an error. Set with ttl > 0 makes
// the key unreadable once ttl elapses; ttl == 0 keeps it until overwritten.
// Re-setting a key always replaces any previously installed expiry.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// ErrUnconfigured is returned when the selected backend is missing its
// required connection settings. Startup must fail rather than silently
// downgrade to the in-process store.
var ErrUnconfigured = errors.New("store: selected backend is not configured")

// New selects the store backend from configuration. The selection happens
// once at startup; callers only ever see the Store interface.
func New(cfg *config.Config) (Store, error) {
	switch cfg.SessionStore {
	case config.StoreRedis:
		if cfg.RedisAddr == "" {
			return nil, ErrUnconfigured
		}
		logging.Info().Str("addr", cfg.RedisAddr).Msg("using redis session store")
		return NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		logging.Info().Msg("using in-memory session store")
		return NewMemory(), nil
	}
}
