package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("melon:")

	_, err := c.Get(ctx, "tok:abc")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "tok:abc", "acc-1", time.Minute))
	v, err := c.Get(ctx, "tok:abc")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", v)

	require.NoError(t, c.Delete(ctx, "tok:abc"))
	_, err = c.Get(ctx, "tok:abc")
	assert.True(t, IsNotFound(err))

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "memory", st.Driver)
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(2), st.Misses)
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")

	require.NoError(t, c.Set(ctx, "k", "v", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.True(t, IsNotFound(err))
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "memcached"})
	require.Error(t, err)
}
