package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCacheEvictsLeastRecentlyUsed(t *testing.T) {
	rc := NewResultCache(2)
	rc.Put("a", 5, []Candidate{{Word: "aa"}})
	rc.Put("b", 5, []Candidate{{Word: "bb"}})

	_, ok := rc.Get("a", 5)
	require.True(t, ok)

	rc.Put("c", 5, []Candidate{{Word: "cc"}})

	_, ok = rc.Get("b", 5)
	assert.False(t, ok, "b was least recently used")
	got, ok := rc.Get("a", 5)
	require.True(t, ok)
	assert.Equal(t, []string{"aa"}, Words(got))
	_, ok = rc.Get("c", 5)
	assert.True(t, ok)

	stats := rc.Stats()
	assert.Equal(t, 2, stats["cachedResults"])
	assert.Equal(t, 3, stats["cacheHits"])
}

func TestResultCacheReturnsCopies(t *testing.T) {
	rc := NewResultCache(1)
	in := []Candidate{{Word: "aa"}}
	rc.Put("a", 5, in)
	in[0].Word = "changed"

	got, _ := rc.Get("a", 5)
	got[0].Word = "mutated"

	again, _ := rc.Get("a", 5)
	assert.Equal(t, "aa", again[0].Word)

	_, ok := rc.Get("a", 4)
	assert.False(t, ok, "topK is part of the key")
}

func TestResultCacheDisabled(t *testing.T) {
	rc := NewResultCache(0)
	rc.Put("a", 5, []Candidate{{Word: "aa"}})
	_, ok := rc.Get("a", 5)
	assert.False(t, ok)
}
