/*
Package grid provides the static tile grid that agents navigate.

A Grid is a fixed-size rectangular arrangement of cells indexed [row][col]. Each cell is
either passable or an obstacle. The package covers random generation from a caller-supplied
random source, orthogonal neighbor lookup, edge-cell sampling and ASCII rendering.
*/
package grid

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
)

const (
	// DefaultGridSize is the side length used when no size is requested.
	DefaultGridSize = 10

	// obstacleThreshold gives every generated cell a 20% chance of being an obstacle.
	obstacleThreshold = 0.8
)

var (
	ErrInvalidDimensions  = errors.New("invalid grid dimensions")
	ErrInvalidCoordinates = errors.New("cell is out of the grid")
	ErrNotRectangular     = errors.New("grid rows must have equal length")
	ErrEmptyEdgeSet       = errors.New("no passable edge cell")
	ErrNilRandomSource    = errors.New("random source is required")
)

// Grid is a fixed-size rectangular arrangement of cells.
type Grid struct {
	rows  int      // Number of rows
	cols  int      // Number of columns
	cells [][]Cell // Cells indexed [row][col]
}

// New creates a rows × cols grid with every cell passable.
func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	cells := make([][]Cell, rows)
	for row := range cells {
		cells[row] = make([]Cell, cols)
		for col := range cells[row] {
			cells[row][col] = Cell{Row: row, Col: col}
		}
	}

	return &Grid{rows: rows, cols: cols, cells: cells}, nil
}

// Build creates a size × size grid where each cell independently becomes an obstacle
// with a 20% probability drawn from rng. The result is deterministic for a seeded rng.
// Reachability between cells is not guaranteed.
func Build(size int, rng *rand.Rand) (*Grid, error) {
	if rng == nil {
		return nil, ErrNilRandomSource
	}

	g, err := New(size, size)
	if err != nil {
		return nil, err
	}

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			g.cells[row][col].Obstacle = rng.Float64() >= obstacleThreshold
		}
	}

	return g, nil
}

// FromRows builds a grid from an obstacle matrix where true marks an obstacle.
func FromRows(obstacles [][]bool) (*Grid, error) {
	if len(obstacles) == 0 || len(obstacles[0]) == 0 {
		return nil, ErrInvalidDimensions
	}

	cols := len(obstacles[0])
	for _, row := range obstacles {
		if len(row) != cols {
			return nil, ErrNotRectangular
		}
	}

	g, err := New(len(obstacles), cols)
	if err != nil {
		return nil, err
	}
	for row := range obstacles {
		for col, blocked := range obstacles[row] {
			g.cells[row][col].Obstacle = blocked
		}
	}

	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the cell stored at (row, col).
func (g *Grid) At(row, col int) (Cell, error) {
	if !g.InBounds(row, col) {
		return Cell{}, fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrInvalidCoordinates, row, col, g.rows, g.cols)
	}
	return g.cells[row][col], nil
}

// SetObstacle changes the passability of a cell. Grids must not be mutated once a
// session or search is using them.
func (g *Grid) SetObstacle(row, col int, obstacle bool) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrInvalidCoordinates, row, col, g.rows, g.cols)
	}
	g.cells[row][col].Obstacle = obstacle
	return nil
}

// Cells returns a copy of the grid's cells in row-major order.
func (g *Grid) Cells() [][]Cell {
	out := make([][]Cell, g.rows)
	for row := range g.cells {
		out[row] = append([]Cell(nil), g.cells[row]...)
	}
	return out
}

// Neighbors returns the orthogonally adjacent cells of cell that exist within the grid,
// in the order above, below, left, right. There is no wraparound.
func (g *Grid) Neighbors(cell Cell) ([]Cell, error) {
	if !g.InBounds(cell.Row, cell.Col) {
		return nil, fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrInvalidCoordinates, cell.Row, cell.Col, g.rows, g.cols)
	}

	row, col := cell.Row, cell.Col
	result := make([]Cell, 0, 4)
	if row > 0 {
		result = append(result, g.cells[row-1][col])
	}
	if row < g.rows-1 {
		result = append(result, g.cells[row+1][col])
	}
	if col > 0 {
		result = append(result, g.cells[row][col-1])
	}
	if col < g.cols-1 {
		result = append(result, g.cells[row][col+1])
	}

	return result, nil
}

// edgeCells returns every cell on the outer ring exactly once: the first row, the last
// row, then the first and last column of the interior rows.
func (g *Grid) edgeCells() []Cell {
	edges := make([]Cell, 0, 2*(g.rows+g.cols))
	edges = append(edges, g.cells[0]...)
	if g.rows > 1 {
		edges = append(edges, g.cells[g.rows-1]...)
	}
	for row := 1; row < g.rows-1; row++ {
		edges = append(edges, g.cells[row][0])
		if g.cols > 1 {
			edges = append(edges, g.cells[row][g.cols-1])
		}
	}
	return edges
}

// RandomEdgeCell returns a uniformly chosen passable cell from the outer ring.
func (g *Grid) RandomEdgeCell(rng *rand.Rand) (Cell, error) {
	if rng == nil {
		return Cell{}, ErrNilRandomSource
	}

	var candidates []Cell
	for _, cell := range g.edgeCells() {
		if !cell.Obstacle {
			candidates = append(candidates, cell)
		}
	}

	if len(candidates) == 0 {
		return Cell{}, ErrEmptyEdgeSet
	}

	return candidates[rng.Intn(len(candidates))], nil
}

// PassableCount returns the number of non-obstacle cells.
func (g *Grid) PassableCount() int {
	count := 0
	for _, row := range g.cells {
		for _, cell := range row {
			if !cell.Obstacle {
				count++
			}
		}
	}
	return count
}

// Fingerprint returns a stable hash of the grid dimensions and obstacle layout.
func (g *Grid) Fingerprint() string {
	hasher := fnv.New64a()
	fmt.Fprintf(hasher, "%dx%d:", g.rows, g.cols)
	hasher.Write([]byte(g.String()))
	return fmt.Sprintf("%016x", hasher.Sum64())
}

// Obstacles returns the obstacle matrix of the grid, the inverse of FromRows.
func (g *Grid) Obstacles() [][]bool {
	out := make([][]bool, g.rows)
	for row := range g.cells {
		out[row] = make([]bool, g.cols)
		for col, cell := range g.cells[row] {
			out[row][col] = cell.Obstacle
		}
	}
	return out
}

// String renders the grid with '#' for obstacles and '.' for passable cells, one row per line.
func (g *Grid) String() string {
	var b strings.Builder
	for _, row := range g.cells {
		for _, cell := range row {
			if cell.Obstacle {
				b.WriteByte(obstacleGlyph)
			} else {
				b.WriteByte(floorGlyph)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
