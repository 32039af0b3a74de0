package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache[string, int]()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("answer", 42, time.Minute)
	got, ok := c.Get("answer")
	assert.True(t, ok)
	assert.Equal(t, 42, got)
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string, string]()

	c.Set("ephemeral", "value", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("ephemeral")
	assert.False(t, ok)
}

func TestTTLCacheNonPositiveTTLIsNoop(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("zero", 1, 0)
	c.Set("negative", 2, -time.Second)

	_, ok := c.Get("zero")
	assert.False(t, ok)
	_, ok = c.Get("negative")
	assert.False(t, ok)
}

func TestTTLCacheDelete(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("key", 7, time.Minute)
	c.Delete("key")

	_, ok := c.Get("key")
	assert.False(t, ok)
}
