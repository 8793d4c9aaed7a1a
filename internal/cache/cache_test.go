package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	c := New(time.Minute)

	c.Set("tshirts:list", "x")
	v, ok := c.GetValue("tshirts:list")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	c.Delete("tshirts:list")
	_, ok = c.GetValue("tshirts:list")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute)
	c.Set("short", 1, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, ok := c.GetValue("short")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestDeleteByPrefix(t *testing.T) {
	c := New(time.Minute)
	c.Set("tshirts:list", 1)
	c.Set("tshirts:item:a", 2)
	c.Set("tshirts_details:list", 3)
	c.Set("hoodies:list", 4)

	c.DeleteByPrefix("tshirts:")

	assert.Equal(t, 2, c.Size())
	_, ok := c.GetValue("tshirts_details:list")
	assert.True(t, ok)
}

func TestMarshalAndBytes(t *testing.T) {
	c := New(time.Minute)

	data, err := c.Marshal("k", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	got, ok := c.Bytes("k")
	require.True(t, ok)
	assert.Equal(t, data, got)
}

func TestZeroTTLDisables(t *testing.T) {
	c := New(0)
	c.Set("k", 1)

	_, ok := c.GetValue("k")
	assert.False(t, ok)
	assert.Zero(t, c.Size())
	assert.False(t, c.Enabled())
}
