package agent

import (
	"math"

	"github.com/beka-birhanu/vinom-nav/grid"
	"gonum.org/v1/gonum/spatial/r3"
)

// PlaneHeight is the world Y coordinate agents walk on.
const PlaneHeight = 0.0

// WorldPosition maps a cell to the world position of its center:
// column to X, the fixed plane height to Y, row to Z.
func WorldPosition(cell grid.Cell) r3.Vec {
	return r3.Vec{X: float64(cell.Col), Y: PlaneHeight, Z: float64(cell.Row)}
}

// CellAt returns the row and column whose center is nearest to pos.
// The result may lie outside any particular grid; callers check bounds.
func CellAt(pos r3.Vec) (row, col int) {
	return int(math.Round(pos.Z)), int(math.Round(pos.X))
}
