package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
)

func TestMemoryAdapter_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAdapter()

	require.NoError(t, c.Set(ctx, "doctors:count", []byte("3"), time.Minute))

	got, err := c.Get(ctx, "doctors:count")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), got)

	exists, err := c.Exists(ctx, "doctors:count")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryAdapter_Miss(t *testing.T) {
	_, err := NewMemoryAdapter().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAdapter()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	now = now.Add(2 * time.Second)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAdapter()
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, c.Delete(ctx, "a", "b"))

	exists, _ := c.Exists(ctx, "a")
	assert.False(t, exists)
	exists, _ = c.Exists(ctx, "b")
	assert.False(t, exists)
}

func TestMemoryAdapter_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAdapter()
	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryAdapter_EvictsBeyondSize(t *testing.T) {
	ctx := context.Background()
	c := NewBoundedMemoryAdapter(100, time.Hour)

	for i := 0; i < 10000; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("symptom_analysis:%d", i), []byte("{}"), time.Hour))
	}

	assert.Equal(t, 100, c.Len())
	_, err := c.Get(ctx, "symptom_analysis:0")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
	_, err = c.Get(ctx, "symptom_analysis:9999")
	assert.NoError(t, err)
}

func TestMemoryAdapter_SweepsUnreadEntries(t *testing.T) {
	ctx := context.Background()
	c := NewBoundedMemoryAdapter(100, 50*time.Millisecond)

	for i := 0; i < 50; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0))
	}
	require.Equal(t, 50, c.Len())

	// Entries expire without ever being read again
	assert.Eventually(t, func() bool { return c.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
