package pathfinder

import "github.com/beka-birhanu/vinom-nav/grid"

// Heuristic estimates the remaining cost from a position to the goal.
type Heuristic func(from, goal grid.Position) int

// SquaredEuclidean returns the squared straight-line distance. It overestimates on long
// stretches, so routes through obstacles are not guaranteed to be the shortest; on
// obstacle-free grids it still yields Manhattan-length routes.
func SquaredEuclidean(from, goal grid.Position) int {
	dr := from.Row - goal.Row
	dc := from.Col - goal.Col
	return dr*dr + dc*dc
}

// Manhattan returns the orthogonal step distance. It never overestimates, which makes
// every returned route a shortest one.
func Manhattan(from, goal grid.Position) int {
	return abs(from.Row-goal.Row) + abs(from.Col-goal.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
