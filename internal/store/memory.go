package store

import (
	"context"
	"sync"
	"time"
)

// sweepInterval is how often the background sweep evicts expired entries.
// Reads never return expired values regardless of sweep timing.
const sweepInterval = 30 * time.Second

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is the in-process store backend. Expiry is a per-entry deadline
// checked on read; overwriting a key installs a fresh deadline, so a stale
// deadline can never evict a value that was legitimately refreshed.
// State is lost on process restart.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry

	done chan struct{}
	once sync.Once
}

// NewMemory creates an in-process store and starts its background sweep.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Get returns the value for key, or ok == false if the key is missing or
// its deadline has passed.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return "", false, nil
	}
	return e.value, true, nil
}

// Set stores value under key. A positive ttl installs an expiry deadline;
// zero ttl clears any previous deadline.
func (m *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

// Close stops the background sweep. Safe to call more than once.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

// sweep periodically evicts expired entries so abandoned sessions do not
// accumulate.
func (m *Memory) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for key, e := range m.entries {
				if e.expired(now) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
