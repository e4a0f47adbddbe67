package clipboard

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastHash(t *testing.T) {
	var l LastHash
	assert.True(t, l.Observe("a"))
	assert.False(t, l.Observe("a"))
	assert.True(t, l.Observe("b"))
	assert.True(t, l.Observe("a"))

	l.Reset()
	assert.True(t, l.Observe("a"))
}

func TestRecencySet(t *testing.T) {
	r := NewRecencySet(3)
	for _, h := range []string{"a", "b", "c"} {
		assert.True(t, r.Observe(h))
	}
	assert.Equal(t, 3, r.Len())
	assert.False(t, r.Observe("a"))

	// d evicts a, the oldest
	assert.True(t, r.Observe("d"))
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Observe("a"))
	assert.False(t, r.Observe("c"))

	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.True(t, r.Observe("c"))
}

func TestNewNoveltyTracker(t *testing.T) {
	assert.IsType(t, &LastHash{}, NewNoveltyTracker(0))
	assert.IsType(t, &LastHash{}, NewNoveltyTracker(1))
	assert.IsType(t, &RecencySet{}, NewNoveltyTracker(16))
}

func TestRecencySet_Concurrent(t *testing.T) {
	r := NewRecencySet(64)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Observe(fmt.Sprintf("%d-%d", i, j))
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 64, r.Len())
}
