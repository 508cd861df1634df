package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemcachedSetGet(t *testing.T) {
	t.Parallel()

	mc := NewMemcached[string](time.Minute, time.Minute)
	defer mc.Close()

	_, ok := mc.Get("missing")
	require.False(t, ok)

	mc.Set("a", "first")
	got, ok := mc.Get("a")
	require.True(t, ok)
	require.Equal(t, "first", got)

	mc.Set("a", "second")
	got, ok = mc.Get("a")
	require.True(t, ok)
	require.Equal(t, "second", got)

	require.False(t, mc.IsEmpty())
}

func TestMemcachedExpiry(t *testing.T) {
	t.Parallel()

	mc := NewMemcached[int](10*time.Millisecond, time.Minute)
	defer mc.Close()

	mc.Set("k", 1)
	time.Sleep(50 * time.Millisecond)

	_, ok := mc.Get("k")
	require.False(t, ok)
}

func TestMemcachedClose(t *testing.T) {
	t.Parallel()

	mc := NewMemcached[string](time.Minute, time.Minute)
	mc.Set("k", "v")

	require.NoError(t, mc.Close())
	require.ErrorIs(t, mc.Close(), ErrMemcachedClosed)

	_, ok := mc.Get("k")
	require.False(t, ok)
	require.True(t, mc.IsEmpty())

	// New keys are rejected once closed.
	mc.Set("other", "v")
	_, ok = mc.Get("other")
	require.False(t, ok)
}

func TestMemcachedShutdownEmpty(t *testing.T) {
	t.Parallel()

	mc := NewMemcached[string](time.Minute, time.Minute)
	require.NoError(t, mc.Shutdown(context.Background()))
}

func TestMemcachedShutdownDrains(t *testing.T) {
	t.Parallel()

	mc := NewMemcached[string](30*time.Millisecond, time.Minute)
	mc.Set("k", "v")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, mc.Shutdown(ctx))
	require.True(t, mc.IsEmpty())
}

func TestMemcachedShutdownHonorsContext(t *testing.T) {
	t.Parallel()

	mc := NewMemcached[string](time.Hour, time.Minute)
	mc.Set("k", "v")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, mc.Shutdown(ctx), context.DeadlineExceeded)
}
