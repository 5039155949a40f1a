package scanner

import (
	"container/list"
	"sync"
)

// defaultCacheSize is how many distinct candidates a Scanner remembers.
const defaultCacheSize = 4096

// wordsCache is an LRU cache of conversions keyed by candidate text.
// Spreadsheets and logs repeat the same figures often.
type wordsCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key   string
	words string
	valid bool
}

// newWordsCache creates a cache holding up to capacity entries. A capacity
// below one disables caching.
func newWordsCache(capacity int) *wordsCache {
	if capacity < 1 {
		return nil
	}
	return &wordsCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// get returns the cached conversion for key if present. A nil cache always misses.
func (c *wordsCache) get(key string) (words string, valid, ok bool) {
	if c == nil {
		return "", false, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, hit := c.cache[key]; hit {
		c.lru.MoveToFront(elem)
		e := elem.Value.(*cacheEntry)
		return e.words, e.valid, true
	}
	return "", false, false
}

// set stores the conversion for key, evicting the least recently used entry
// when at capacity.
func (c *wordsCache) set(key, words string, valid bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		e := elem.Value.(*cacheEntry)
		e.words, e.valid = words, valid
		return
	}

	c.cache[key] = c.lru.PushFront(&cacheEntry{key: key, words: words, valid: valid})
	if c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

func (c *wordsCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
