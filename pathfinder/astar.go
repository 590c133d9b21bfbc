/*
Package pathfinder computes orthogonal routes across a grid.Grid with A*.

The search treats obstacle cells as impassable, charges one unit per step and never
moves diagonally. A Pathfinder holds configuration only; every FindRoute call owns its
own open list, closed set and node arena, so one Pathfinder can serve concurrent searches
over grids that are not being mutated.
*/
package pathfinder

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-nav/grid"
)

const (
	stepCost = 1

	// expansionFactor bounds the number of open-list pops per cell.
	expansionFactor = 4
)

var (
	ErrNoRoute         = errors.New("no route exists")
	ErrExpansionLimit  = errors.New("search expansion limit reached")
	ErrInvalidEndpoint = errors.New("route endpoint is out of the grid")
)

// Option configures a Pathfinder.
type Option func(*Pathfinder)

// WithHeuristic replaces the default squared Euclidean heuristic.
func WithHeuristic(h Heuristic) Option {
	return func(p *Pathfinder) {
		if h != nil {
			p.heuristic = h
		}
	}
}

// WithMaxExpansions caps the open-list pops of a single search. A search that hits the
// cap fails with ErrNoRoute. Zero or less restores the default of four pops per cell.
func WithMaxExpansions(n int) Option {
	return func(p *Pathfinder) {
		p.maxExpansions = n
	}
}

// Pathfinder finds minimum-step routes between grid cells.
type Pathfinder struct {
	heuristic     Heuristic
	maxExpansions int
}

// New creates a Pathfinder.
func New(opts ...Option) *Pathfinder {
	p := &Pathfinder{heuristic: SquaredEuclidean}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FindRoute returns the cells leading from start (excluded) to goal (included).
//
// When start equals goal the route is empty. An unreachable goal yields ErrNoRoute,
// which callers should treat as an absent result. Endpoints outside the grid fail with
// an error wrapping grid.ErrInvalidCoordinates. An obstacle start is searched from as
// given; an obstacle goal is never entered, so it is only "reached" when it is the start.
func (p *Pathfinder) FindRoute(g *grid.Grid, start, goal grid.Cell) (Route, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidEndpoint)
	}
	startCell, err := g.At(start.Row, start.Col)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %w", ErrInvalidEndpoint, err)
	}
	if _, err := g.At(goal.Row, goal.Col); err != nil {
		return nil, fmt.Errorf("%w: goal: %w", ErrInvalidEndpoint, err)
	}

	limit := p.maxExpansions
	if limit <= 0 {
		limit = expansionFactor * g.Rows() * g.Cols()
	}

	goalPos := goal.Position()
	queued := make(map[grid.Position]int)
	closed := make(map[grid.Position]struct{})
	open := &openList{}
	heap.Init(open)

	seq := 0
	push := func(node *pathNode) {
		node.seq = seq
		seq++
		queued[node.cell.Position()] = node.costFromStart
		heap.Push(open, node)
	}

	push(&pathNode{cell: startCell})

	for pops := 0; open.Len() > 0; pops++ {
		if pops >= limit {
			return nil, fmt.Errorf("%w: %w after %d expansions", ErrNoRoute, ErrExpansionLimit, pops)
		}

		current := heap.Pop(open).(*pathNode)
		pos := current.cell.Position()
		if _, done := closed[pos]; done {
			continue
		}

		if pos == goalPos {
			return reconstruct(current), nil
		}

		closed[pos] = struct{}{}

		neighbors, err := g.Neighbors(current.cell)
		if err != nil {
			return nil, err
		}

		for _, neighbor := range neighbors {
			nPos := neighbor.Position()
			if neighbor.Obstacle {
				continue
			}
			if _, done := closed[nPos]; done {
				continue
			}

			costFromStart := current.costFromStart + stepCost
			if cost, ok := queued[nPos]; ok && cost <= costFromStart {
				continue
			}

			costToEnd := p.heuristic(nPos, goalPos)
			push(&pathNode{
				cell:          neighbor,
				costFromStart: costFromStart,
				costToEnd:     costToEnd,
				costTotal:     costFromStart + costToEnd,
				parent:        current,
			})
		}
	}

	return nil, ErrNoRoute
}

// reconstruct follows predecessor links back to the start node and returns the
// route in travel order without the start cell.
func reconstruct(end *pathNode) Route {
	route := Route{}
	for node := end; node.parent != nil; node = node.parent {
		route = append(route, node.cell)
	}
	for i := 0; i < len(route)/2; i++ {
		j := len(route) - 1 - i
		route[i], route[j] = route[j], route[i]
	}
	return route
}
