package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"themelab-hq/triton/pkg/issue"
)

// Entry is one cached validation result.
type Entry struct {
	Issues []issue.Issue `json:"issues"`
}

// Cache is a per-file result store. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the cached entry for the key, if present.
	Get(key string) (Entry, bool)

	// Put stores an entry under the key, replacing any previous value.
	Put(key string, entry Entry) error

	// Close releases backend resources.
	Close() error
}

// Key derives the cache key for one file. The profile participates so
// switching profiles never serves stale results, and the engine version
// invalidates everything when the rule set changes between releases.
func Key(path, source, profile, version string) string {
	h := sha256.New()
	h.Write([]byte(version))
	h.Write([]byte{0})
	h.Write([]byte(profile))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}

// Memory is the in-process cache backend.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: map[string]Entry{}}
}

// Get returns the cached entry for the key, if present.
func (m *Memory) Get(key string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	return e, ok
}

// Put stores an entry under the key.
func (m *Memory) Put(key string, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry
	return nil
}

// Close is a no-op for the in-process backend.
func (m *Memory) Close() error { return nil }

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
