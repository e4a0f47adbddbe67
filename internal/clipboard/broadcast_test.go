package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster[int]()
	fast, unsubFast := b.Subscribe(4)
	slow, unsubSlow := b.Subscribe(1)
	defer unsubFast()
	require.Equal(t, 2, b.Subscribers())

	assert.Equal(t, 2, b.Publish(1))
	assert.Equal(t, 1, b.Publish(2))
	assert.EqualValues(t, 1, b.Dropped())

	assert.Equal(t, 1, <-fast)
	assert.Equal(t, 2, <-fast)
	assert.Equal(t, 1, <-slow)

	unsubSlow()
	unsubSlow()
	_, open := <-slow
	assert.False(t, open)
	assert.Equal(t, 1, b.Subscribers())
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster[string]()
	ch, unsubscribe := b.Subscribe(1)
	b.Close()
	b.Close()

	_, open := <-ch
	assert.False(t, open)
	unsubscribe()

	late, _ := b.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
	assert.Equal(t, 0, b.Publish("ignored"))
}
