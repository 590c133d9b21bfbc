package i

import (
	"context"
	"errors"

	"github.com/beka-birhanu/vinom-nav/grid"
)

var ErrLayoutNotFound = errors.New("layout not found")

// LayoutRepo defines the interface for grid layout persistence operations.
type LayoutRepo interface {
	// Save inserts or replaces a layout, keyed by its name.
	Save(ctx context.Context, layout grid.Layout) error

	// ByName retrieves a layout by its name.
	// Returns ErrLayoutNotFound if no layout has that name.
	ByName(ctx context.Context, name string) (grid.Layout, error)
}
