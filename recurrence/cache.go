package recurrence

import "time"

// dateCache memoizes per-date validity results. Entries are never evicted and
// the cache holds no lock; it lives exactly as long as its Recurrence.
type dateCache struct {
	entries map[int64]bool
	hits    int
	misses  int
}

func newDateCache() *dateCache {
	return &dateCache{
		entries: make(map[int64]bool),
	}
}

// key normalizes date so any time of day maps to the same entry
func (c *dateCache) key(date time.Time) int64 {
	return DateOf(date).Unix() / secondsPerDay
}

// Get retrieves a cached validity result
func (c *dateCache) Get(date time.Time) (valid bool, found bool) {
	valid, found = c.entries[c.key(date)]
	if found {
		c.hits++
	} else {
		c.misses++
	}
	return valid, found
}

// Set stores a validity result
func (c *dateCache) Set(date time.Time, valid bool) {
	c.entries[c.key(date)] = valid
}

// Stats returns cache statistics
func (c *dateCache) Stats() CacheStats {
	return CacheStats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// CacheStats provides information about validity cache usage
type CacheStats struct {
	Entries int
	Hits    int
	Misses  int
}
