package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUSetGet(t *testing.T) {
	c := NewLRU[string, int](4)

	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evicts a

	assert.False(t, c.Contains("a"))
	assert.True(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Evictions)
	assert.Equal(t, 2, stats.Size)
}

func TestLRURecencyOrder(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Set("a", 1)
	c.Set("b", 2)

	// touch a so b becomes oldest
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3) // evicts b, not a
	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
}

func TestLRUUpdateExisting(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Set("a", 1)
	c.Set("a", 10)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, uint64(0), c.Stats().Evictions)
}

func TestLRUDelAndClear(t *testing.T) {
	c := NewLRU[string, int](4)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Del("a")
	assert.False(t, c.Contains("a"))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok)
}

func TestLRUStatsCounters(t *testing.T) {
	c := NewLRU[string, int](4)
	c.Set("a", 1)

	c.Get("a")
	c.Get("a")
	c.Get("nope")

	stats := c.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 4, stats.Capacity)
}

func TestLRUMinimumCapacity(t *testing.T) {
	c := NewLRU[string, int](0)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 1, c.Len())
}

func TestLRUConcurrentAccess(t *testing.T) {
	c := NewLRU[string, int](128)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%64)
				c.Set(key, g*1000+i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 128)
}
