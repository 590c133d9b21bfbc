package i

import (
	"context"

	"github.com/beka-birhanu/vinom-nav/grid"
)

// RouteCache stores computed routes keyed by grid layout and endpoints.
type RouteCache interface {
	// Fetch returns the cached route for key, reporting a hit. On a miss it calls
	// compute, stores a successful result and returns it. Errors from compute are
	// returned as is and nothing is stored.
	Fetch(ctx context.Context, key string, compute func() ([]grid.Position, error)) ([]grid.Position, bool, error)
}
