package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedCache(t *testing.T) (*Cache, *time.Time) {
	t.Helper()
	c := New(0)
	now := time.Now()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestSetGetWithinTTL(t *testing.T) {
	c, _ := newClockedCache(t)

	c.Set("customers:page=1", []byte(`{"count":2}`), time.Minute)
	got, ok := c.Get("customers:page=1")
	require.True(t, ok)
	assert.JSONEq(t, `{"count":2}`, string(got))
}

func TestGetAfterTTLExpiresAndEvicts(t *testing.T) {
	c, now := newClockedCache(t)

	c.Set("k", []byte(`1`), time.Minute)
	*now = now.Add(time.Minute + time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry must be evicted on read")
}

func TestSetOverwrites(t *testing.T) {
	c, _ := newClockedCache(t)

	c.Set("k", []byte(`"old"`), time.Minute)
	c.Set("k", []byte(`"new"`), time.Minute)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, `"new"`, string(got))
}

func TestMalformedEntryIsAMiss(t *testing.T) {
	c, _ := newClockedCache(t)

	c.Set("k", []byte(`{"truncated":`), time.Minute)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "malformed entry must be evicted, not returned")
}

func TestSnapshotIsolation(t *testing.T) {
	c, _ := newClockedCache(t)

	src := []byte(`{"a":1}`)
	c.Set("k", src, time.Minute)
	src[2] = 'X' // mutate the caller's slice after Set

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(got))

	got[0] = 'X' // mutate the returned slice
	again, ok := c.Get("k")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(again))
}

func TestDeletePrefix(t *testing.T) {
	c, _ := newClockedCache(t)

	c.Set("customers:7:detail", []byte(`{}`), time.Minute)
	c.Set("customers:7:feedback", []byte(`[]`), time.Minute)
	c.Set("customers:71:detail", []byte(`{}`), time.Minute)
	c.Set("health-summary", []byte(`[]`), time.Minute)

	n := c.DeletePrefix("customers:7:")
	assert.Equal(t, 2, n)

	_, ok := c.Get("customers:71:detail")
	assert.True(t, ok, "prefix eviction must not touch other customers")
	_, ok = c.Get("health-summary")
	assert.True(t, ok)
}

func TestClearAndDelete(t *testing.T) {
	c, _ := newClockedCache(t)

	c.Set("a", []byte(`1`), time.Minute)
	c.Set("b", []byte(`2`), time.Minute)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestDefaultTTLApplied(t *testing.T) {
	c, now := newClockedCache(t)

	c.Set("k", []byte(`1`), 0)
	*now = now.Add(DefaultTTL - time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	*now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}
