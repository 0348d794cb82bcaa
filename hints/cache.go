package hints

import (
	"container/list"

	"github.com/dgryski/go-farm"
)

// CacheKey identifies one compiled hint: the program location plus a
// hash of the body, so a location whose hint text changes between loads
// never serves a stale artifact.
type CacheKey struct {
	Location uint64
	CodeHash uint64
}

func NewCacheKey(location uint64, code string) CacheKey {
	return CacheKey{
		Location: location,
		CodeHash: farm.Hash64([]byte(code)),
	}
}

// LRUCache keeps compiled hint artifacts with LRU eviction. The caller
// owns the compile step; the cache only stores its results.
type LRUCache struct {
	cache     map[CacheKey]*list.Element
	evictList *list.List
	maxSize   int
}

type cacheEntry struct {
	key      CacheKey
	compiled any
}

// NewLRUCache creates a cache holding at most maxSize artifacts
// (0 or negative means the default size).
func NewLRUCache(maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &LRUCache{
		cache:     make(map[CacheKey]*list.Element),
		evictList: list.New(),
		maxSize:   maxSize,
	}
}

// Get returns the cached artifact and marks it most recently used.
func (l *LRUCache) Get(key CacheKey) (any, bool) {
	elem, ok := l.cache[key]
	if !ok {
		return nil, false
	}
	l.evictList.MoveToFront(elem)
	return elem.Value.(*cacheEntry).compiled, true
}

// Add stores an artifact, evicting the oldest entry when full.
func (l *LRUCache) Add(key CacheKey, compiled any) {
	if elem, ok := l.cache[key]; ok {
		l.evictList.MoveToFront(elem)
		elem.Value.(*cacheEntry).compiled = compiled
		return
	}

	elem := l.evictList.PushFront(&cacheEntry{key: key, compiled: compiled})
	l.cache[key] = elem

	if l.evictList.Len() > l.maxSize {
		l.evictOldest()
	}
}

func (l *LRUCache) evictOldest() {
	elem := l.evictList.Back()
	if elem != nil {
		l.evictList.Remove(elem)
		delete(l.cache, elem.Value.(*cacheEntry).key)
	}
}

// CacheStats reports cache usage for monitoring.
type CacheStats struct {
	Size    int
	MaxSize int
}

func (l *LRUCache) Stats() CacheStats {
	return CacheStats{
		Size:    len(l.cache),
		MaxSize: l.maxSize,
	}
}
