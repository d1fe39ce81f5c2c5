package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

type cacheKey struct {
	word string
	topK int
}

// ResultCache keeps the most recently used remote results so that
// re-checking the same word does not hit the network again.
type ResultCache struct {
	results     map[cacheKey][]Candidate
	accessTime  map[cacheKey]int64
	accessCount int64
	hits        int64
	maxEntries  int
	mu          sync.Mutex
}

// NewResultCache creates a cache holding up to maxEntries results.
func NewResultCache(maxEntries int) *ResultCache {
	return &ResultCache{
		results:    make(map[cacheKey][]Candidate, maxEntries),
		accessTime: make(map[cacheKey]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns a copy of the cached result for (word, topK).
func (rc *ResultCache) Get(word string, topK int) ([]Candidate, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	key := cacheKey{word: word, topK: topK}
	cached, ok := rc.results[key]
	if !ok {
		return nil, false
	}
	rc.hits++
	rc.markAccessed(key)
	return cloneCandidates(cached), true
}

// Put stores result for (word, topK), evicting the least recently used
// entry when full.
func (rc *ResultCache) Put(word string, topK int, result []Candidate) {
	if rc.maxEntries <= 0 {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	key := cacheKey{word: word, topK: topK}
	if _, exists := rc.results[key]; !exists && len(rc.results) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.results[key] = cloneCandidates(result)
	rc.markAccessed(key)
}

// Stats reports cache occupancy and hits.
func (rc *ResultCache) Stats() map[string]int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return map[string]int{
		"cachedResults": len(rc.results),
		"maxResults":    rc.maxEntries,
		"cacheHits":     int(rc.hits),
	}
}

func (rc *ResultCache) markAccessed(key cacheKey) {
	rc.accessCount++
	rc.accessTime[key] = rc.accessCount
}

func (rc *ResultCache) evictLRU() {
	var oldest cacheKey
	var oldestTime int64 = math.MaxInt64
	found := false

	for key, accessTime := range rc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldest = key
			found = true
		}
	}

	if found {
		delete(rc.results, oldest)
		delete(rc.accessTime, oldest)
		log.Debugf("Evicted '%s' from result cache", oldest.word)
	}
}

func cloneCandidates(cs []Candidate) []Candidate {
	out := make([]Candidate, len(cs))
	copy(out, cs)
	return out
}
