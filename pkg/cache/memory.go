package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/inventory/pkg/metrics"
)

// entry is one cached value with its absolute expiry.
type entry struct {
	data     []byte
	expireAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expireAt)
}

// Memory is an in-process TTL store. A single mutex guards both the entry
// map and the live-key index, so Set/Get/RemoveByPrefix can never interleave
// into a state where a key is indexed but has no value (or vice versa).
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	keys    map[string]struct{} // live-key index, co-maintained with entries
	done    chan struct{}
	once    sync.Once
}

// NewMemory constructs an empty memory store and starts a janitor goroutine
// that sweeps expired entries. Call Close to stop the janitor.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		keys:    make(map[string]struct{}),
		done:    make(chan struct{}),
	}
	go m.janitor(time.Minute)
	return m
}

// Set stores value under key for ttl. Values are kept as marshaled JSON so a
// later Get can never alias memory a caller still mutates.
func (m *Memory) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries[key] = entry{data: data, expireAt: time.Now().Add(ttl)}
	m.keys[key] = struct{}{}
	m.mu.Unlock()
	return nil
}

// Get reads key into dest. An expired entry reads as absent and is purged
// lazily. Unmarshal failures also read as a miss.
func (m *Memory) Get(key string, dest interface{}) bool {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false
	}

	if e.expired(time.Now()) {
		m.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// refreshed the key since the read above.
		if cur, still := m.entries[key]; still && cur.expired(time.Now()) {
			delete(m.entries, key)
			delete(m.keys, key)
		}
		m.mu.Unlock()
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false
	}

	if err := json.Unmarshal(e.data, dest); err != nil {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues("memory").Inc()
	return true
}

// Remove deletes one key from storage and index.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	delete(m.keys, key)
	m.mu.Unlock()
	return nil
}

// RemoveByPrefix deletes every live key that starts with prefix. Only the
// key index is scanned.
func (m *Memory) RemoveByPrefix(prefix string) error {
	m.mu.Lock()
	for key := range m.keys {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			delete(m.keys, key)
		}
	}
	m.mu.Unlock()
	return nil
}

// Len reports the number of tracked keys, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keys)
}

// Close stops the janitor goroutine. The store stays usable afterwards;
// expired entries are then only purged lazily on Get.
func (m *Memory) Close() {
	m.once.Do(func() { close(m.done) })
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
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
					delete(m.keys, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
