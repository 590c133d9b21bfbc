package grid

import "fmt"

// Position identifies a grid location independent of its passability.
type Position struct {
	Row int `json:"row" bson:"row"` // Row index of the cell
	Col int `json:"col" bson:"col"` // Column index of the cell
}

// String renders the position as "(row,col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Cell represents a single location in the grid.
// Two cells are the same location when Row and Col match; Obstacle is not part of identity.
type Cell struct {
	Row      int  `json:"row"`      // Row index of the cell
	Col      int  `json:"col"`      // Column index of the cell
	Obstacle bool `json:"obstacle"` // Obstacle marks the cell as impassable
}

// Equal reports whether c and other refer to the same grid location.
func (c Cell) Equal(other Cell) bool {
	return c.Row == other.Row && c.Col == other.Col
}

// Position returns the identity key of the cell.
func (c Cell) Position() Position {
	return Position{Row: c.Row, Col: c.Col}
}

// String renders the cell as "(row,col)", with a trailing "#" for obstacles.
func (c Cell) String() string {
	if c.Obstacle {
		return fmt.Sprintf("(%d,%d)#", c.Row, c.Col)
	}
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// CellsEqual compares two cells by location only.
func CellsEqual(a, b Cell) bool {
	return a.Equal(b)
}
