package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// BackendConfig holds the configuration needed to create a cache instance.
type BackendConfig struct {
	// Size is the maximum number of entries for LRU caches.
	Size int

	// TTL is the time-to-live for cache entries.
	TTL time.Duration

	// OnEvict is called when an entry is evicted. Not all backends support this.
	OnEvict EvictCallback

	// Logger receives error reports from cache operations. If nil, errors are silently ignored.
	Logger Logger

	// RedisAddress is the Redis/Valkey server address (e.g., "localhost:6379").
	RedisAddress string

	// RedisPassword is the password for the Redis/Valkey server.
	RedisPassword string

	// RedisDB is the Redis/Valkey database number.
	RedisDB int
}

// Backend is a constructor function that creates a Cache from config.
type Backend func(cfg BackendConfig) (Cache, error)

var (
	mu       sync.RWMutex
	backends = make(map[string]Backend)
)

// Register registers a cache backend under the given name.
// It panics if the name is already registered or the backend is nil.
func Register(name string, b Backend) {
	mu.Lock()
	defer mu.Unlock()

	if b == nil {
		panic("cache: Register backend is nil")
	}
	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("cache: backend %q already registered", name))
	}
	backends[name] = b
}

// New creates a new Cache using the named backend and the given config.
func New(name string, cfg BackendConfig) (Cache, error) {
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cache: unknown backend %q (registered: %v)", name, RegisteredBackends())
	}

	return b(cfg)
}

// RegisteredBackends returns a sorted list of registered backend names.
func RegisteredBackends() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
