package geolib

import (
	"net/netip"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const (
	DefaultCacheSize = 10000
	DefaultCacheTTL  = 300 * time.Second
)

type cacheEntry struct {
	country    CountryCode
	insertedAt time.Time
}

// LookupCache keeps resolved countries for a limited time. It has a
// fixed capacity and evicts least recently used entries on overflow.
//
// Unknown countries are cached as well. All methods are safe for
// concurrent use, the whole structure is guarded by a single mutex.
type LookupCache struct {
	mutex sync.Mutex
	lru   *simplelru.LRU[netip.Addr, cacheEntry]
	ttl   time.Duration
	size  int
}

// Get returns a cached country if entry is present and it is not
// older than TTL. Stale entries are removed.
func (l *LookupCache) Get(ip netip.Addr, now time.Time) (CountryCode, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	entry, ok := l.lru.Get(ip)
	if !ok {
		return "", false
	}

	if now.Sub(entry.insertedAt) > l.ttl {
		l.lru.Remove(ip)

		return "", false
	}

	return entry.country, true
}

// Put stores a country for the address and marks it as most recently
// used. It returns true if some other entry was evicted.
func (l *LookupCache) Put(ip netip.Addr, country CountryCode, now time.Time) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.lru.Add(ip, cacheEntry{
		country:    country,
		insertedAt: now,
	})
}

func (l *LookupCache) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.lru.Len()
}

func (l *LookupCache) Capacity() int {
	return l.size
}

func (l *LookupCache) TTL() time.Duration {
	return l.ttl
}

// NewLookupCache creates a new cache. Capacity has to be positive, ttl
// has to be at least a second.
func NewLookupCache(capacity int, ttl time.Duration) (*LookupCache, error) {
	if capacity < 1 {
		return nil, ErrInvalidCacheSize
	}

	if ttl < time.Second {
		return nil, ErrInvalidCacheTTL
	}

	lru, err := simplelru.NewLRU[netip.Addr, cacheEntry](capacity, nil)
	if err != nil {
		return nil, err
	}

	return &LookupCache{
		lru:  lru,
		ttl:  ttl,
		size: capacity,
	}, nil
}
