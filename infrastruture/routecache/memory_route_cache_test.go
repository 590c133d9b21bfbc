package routecache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ i.RouteCache = (*MemoryRouteCache)(nil)

func TestMemoryRouteCache(t *testing.T) {
	ctx := context.Background()
	route := []grid.Position{{Row: 0, Col: 1}, {Row: 0, Col: 2}}

	t.Run("Miss then hit", func(t *testing.T) {
		c := NewMemoryRouteCache(time.Minute)
		calls := 0
		compute := func() ([]grid.Position, error) {
			calls++
			return route, nil
		}

		got, hit, err := c.Fetch(ctx, "k", compute)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Equal(t, route, got)

		got, hit, err = c.Fetch(ctx, "k", compute)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, route, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("Compute errors are not stored", func(t *testing.T) {
		c := NewMemoryRouteCache(time.Minute)
		boom := errors.New("boom")
		_, _, err := c.Fetch(ctx, "k", func() ([]grid.Position, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Entries expire", func(t *testing.T) {
		c := NewMemoryRouteCache(time.Second)
		now := time.Unix(100, 0)
		c.now = func() time.Time { return now }

		_, _, err := c.Fetch(ctx, "k", func() ([]grid.Position, error) { return route, nil })
		require.NoError(t, err)

		now = now.Add(2 * time.Second)
		_, hit, err := c.Fetch(ctx, "k", func() ([]grid.Position, error) { return route, nil })
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("Hits are copies", func(t *testing.T) {
		c := NewMemoryRouteCache(0)
		_, _, err := c.Fetch(ctx, "k", func() ([]grid.Position, error) {
			return []grid.Position{{Row: 1, Col: 1}}, nil
		})
		require.NoError(t, err)

		got, _, err := c.Fetch(ctx, "k", nil)
		require.NoError(t, err)
		got[0].Row = 9

		again, hit, err := c.Fetch(ctx, "k", nil)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, 1, again[0].Row)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		c := NewMemoryRouteCache(time.Minute)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := c.Fetch(cctx, "k", nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
