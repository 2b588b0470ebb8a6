package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache_RoundTrip(t *testing.T) {
	c := NewTTLCache()

	c.Set("q:1", map[string]any{"rows": 5.0}, time.Minute)

	value, ok := c.Get("q:1")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"rows": 5.0}, value)
	assert.Equal(t, uint64(1), c.Hits())
}

func TestTTLCache_ReturnsCopies(t *testing.T) {
	c := NewTTLCache()

	c.Set("k", map[string]any{"n": 1.0}, time.Minute)

	first, ok := c.Get("k")
	require.True(t, ok)
	first.(map[string]any)["n"] = 99.0

	second, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1.0, second.(map[string]any)["n"])
}

func TestTTLCache_ExpiryIsPermanent(t *testing.T) {
	c := NewTTLCache()

	c.Set("q:123", map[string]any{"rows": 5.0}, 10*time.Millisecond)
	require.Equal(t, 1, c.Len())

	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("q:123")
	assert.False(t, ok)
	// Lazy eviction removed the entry; the miss is permanent.
	assert.Equal(t, 0, c.Len())

	_, ok = c.Get("q:123")
	assert.False(t, ok)
	assert.Zero(t, c.Hits())
}

func TestTTLCache_SetOverwritesAndRestamps(t *testing.T) {
	c := NewTTLCache()

	c.Set("k", "old", 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	c.Set("k", "new", time.Minute)

	value, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", value)
}

func TestTTLCache_DefaultTTL(t *testing.T) {
	c := NewTTLCache()

	c.Set("k", "v", 0)

	value, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestTTLCache_SweepIdempotence(t *testing.T) {
	c := NewTTLCache()

	c.Set("short-1", "v", 10*time.Millisecond)
	c.Set("short-2", "v", 10*time.Millisecond)
	c.Set("long", "v", time.Minute)

	assert.True(t, c.LastCleanup().IsZero())

	time.Sleep(25 * time.Millisecond)

	evicted := c.Sweep()
	assert.Equal(t, 2, evicted)
	assert.Equal(t, 1, c.Len())
	assert.False(t, c.LastCleanup().IsZero())

	// A second consecutive sweep with no intervening writes evicts nothing.
	assert.Equal(t, 0, c.Sweep())
	assert.Equal(t, 1, c.Len())
}

func TestTTLCache_Delete(t *testing.T) {
	c := NewTTLCache()

	c.Set("k", "v", time.Minute)
	c.Delete("k")
	c.Delete("k") // idempotent

	_, ok := c.Get("k")
	assert.False(t, ok)
}
