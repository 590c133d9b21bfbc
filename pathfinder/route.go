package pathfinder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/vinom-nav/grid"
)

var ErrInvalidRoute = errors.New("invalid route")

// Route is an ordered sequence of cells from just after the start to the goal.
type Route []grid.Cell

// Len returns the number of steps in the route.
func (r Route) Len() int {
	return len(r)
}

// Goal returns the final cell of the route.
func (r Route) Goal() (grid.Cell, bool) {
	if len(r) == 0 {
		return grid.Cell{}, false
	}
	return r[len(r)-1], true
}

// Contains reports whether the route visits cell.
func (r Route) Contains(cell grid.Cell) bool {
	for _, c := range r {
		if c.Equal(cell) {
			return true
		}
	}
	return false
}

// Clone returns a copy with independent backing storage.
func (r Route) Clone() Route {
	if r == nil {
		return nil
	}
	return append(Route{}, r...)
}

// Positions returns the route's cells as positions.
func (r Route) Positions() []grid.Position {
	out := make([]grid.Position, len(r))
	for i, c := range r {
		out[i] = c.Position()
	}
	return out
}

// Validate checks that every step is orthogonally adjacent to the previous one, starting
// from start, and that no step enters an obstacle of g.
func (r Route) Validate(g *grid.Grid, start grid.Cell) error {
	prev := start
	for i, step := range r {
		cell, err := g.At(step.Row, step.Col)
		if err != nil {
			return fmt.Errorf("%w: step %d: %w", ErrInvalidRoute, i, err)
		}
		if cell.Obstacle {
			return fmt.Errorf("%w: step %d enters obstacle %s", ErrInvalidRoute, i, cell)
		}
		if Manhattan(prev.Position(), cell.Position()) != 1 {
			return fmt.Errorf("%w: step %d from %s to %s is not orthogonal", ErrInvalidRoute, i, prev, cell)
		}
		prev = cell
	}
	return nil
}

// String renders the route as "(r,c) -> (r,c)".
func (r Route) String() string {
	parts := make([]string, len(r))
	for i, c := range r {
		parts[i] = c.Position().String()
	}
	return strings.Join(parts, " -> ")
}
