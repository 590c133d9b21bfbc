package grid

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Run("Dimensions and identity", func(t *testing.T) {
		g, err := Build(DefaultGridSize, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		assert.Equal(t, DefaultGridSize, g.Rows())
		assert.Equal(t, DefaultGridSize, g.Cols())

		for row := 0; row < g.Rows(); row++ {
			for col := 0; col < g.Cols(); col++ {
				cell, err := g.At(row, col)
				require.NoError(t, err)
				assert.Equal(t, row, cell.Row)
				assert.Equal(t, col, cell.Col)
			}
		}
	})

	t.Run("Same seed yields same layout", func(t *testing.T) {
		a, err := Build(12, rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		b, err := Build(12, rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		assert.Equal(t, a.String(), b.String())
		assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	})

	t.Run("Obstacle ratio is near twenty percent", func(t *testing.T) {
		g, err := Build(100, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		obstacles := 100*100 - g.PassableCount()
		assert.InDelta(t, 0.2, float64(obstacles)/10000, 0.02)
	})

	t.Run("Invalid size", func(t *testing.T) {
		_, err := Build(0, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	})

	t.Run("Nil random source", func(t *testing.T) {
		_, err := Build(3, nil)
		assert.ErrorIs(t, err, ErrNilRandomSource)
	})
}

func TestFromRows(t *testing.T) {
	g, err := FromRows([][]bool{
		{false, true},
		{false, false},
	})
	require.NoError(t, err)
	cell, err := g.At(0, 1)
	require.NoError(t, err)
	assert.True(t, cell.Obstacle)
	assert.Equal(t, [][]bool{{false, true}, {false, false}}, g.Obstacles())

	_, err = FromRows([][]bool{{false, false}, {false}})
	assert.ErrorIs(t, err, ErrNotRectangular)

	_, err = FromRows(nil)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestNeighbors(t *testing.T) {
	g, err := New(3, 3)
	require.NoError(t, err)

	tests := []struct {
		name string
		cell Cell
		want []Position
	}{
		{name: "Center", cell: Cell{Row: 1, Col: 1}, want: []Position{{0, 1}, {2, 1}, {1, 0}, {1, 2}}},
		{name: "Top left corner", cell: Cell{Row: 0, Col: 0}, want: []Position{{1, 0}, {0, 1}}},
		{name: "Bottom edge", cell: Cell{Row: 2, Col: 1}, want: []Position{{1, 1}, {2, 0}, {2, 2}}},
		{name: "Bottom right corner", cell: Cell{Row: 2, Col: 2}, want: []Position{{1, 2}, {2, 1}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			neighbors, err := g.Neighbors(tc.cell)
			require.NoError(t, err)
			got := make([]Position, 0, len(neighbors))
			for _, n := range neighbors {
				got = append(got, n.Position())
			}
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("Out of bounds", func(t *testing.T) {
		_, err := g.Neighbors(Cell{Row: 3, Col: 0})
		assert.ErrorIs(t, err, ErrInvalidCoordinates)
		_, err = g.Neighbors(Cell{Row: 0, Col: -1})
		assert.ErrorIs(t, err, ErrInvalidCoordinates)
	})

	t.Run("Neighbors carry obstacle flags", func(t *testing.T) {
		require.NoError(t, g.SetObstacle(0, 1, true))
		neighbors, err := g.Neighbors(Cell{Row: 0, Col: 0})
		require.NoError(t, err)
		assert.True(t, neighbors[1].Obstacle)
	})
}

func TestCellsEqual(t *testing.T) {
	assert.True(t, CellsEqual(Cell{Row: 1, Col: 2}, Cell{Row: 1, Col: 2, Obstacle: true}))
	assert.False(t, CellsEqual(Cell{Row: 1, Col: 2}, Cell{Row: 2, Col: 1}))
}

func TestRandomEdgeCell(t *testing.T) {
	t.Run("Only passable ring cells", func(t *testing.T) {
		g, err := Build(8, rand.New(rand.NewSource(3)))
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(9))
		for i := 0; i < 200; i++ {
			cell, err := g.RandomEdgeCell(rng)
			require.NoError(t, err)
			assert.False(t, cell.Obstacle)
			onRing := cell.Row == 0 || cell.Row == g.Rows()-1 || cell.Col == 0 || cell.Col == g.Cols()-1
			assert.True(t, onRing, "cell %s is not on the edge", cell)
		}
	})

	t.Run("Ring cells are counted once", func(t *testing.T) {
		g, err := New(1, 4)
		require.NoError(t, err)
		assert.Len(t, g.edgeCells(), 4)

		g, err = New(4, 1)
		require.NoError(t, err)
		assert.Len(t, g.edgeCells(), 4)

		g, err = New(4, 4)
		require.NoError(t, err)
		assert.Len(t, g.edgeCells(), 12)
	})

	t.Run("Single passable edge cell", func(t *testing.T) {
		g, err := FromRows([][]bool{
			{true, true, true},
			{true, false, false},
			{true, true, true},
		})
		require.NoError(t, err)
		cell, err := g.RandomEdgeCell(rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		assert.Equal(t, Position{Row: 1, Col: 2}, cell.Position())
	})

	t.Run("Every edge cell blocked", func(t *testing.T) {
		g, err := FromRows([][]bool{
			{true, true, true},
			{true, false, true},
			{true, true, true},
		})
		require.NoError(t, err)
		_, err = g.RandomEdgeCell(rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrEmptyEdgeSet)
	})
}

func TestLayout(t *testing.T) {
	doc := `
name: wall
rows:
  - ".#."
  - ".#."
  - "..."
`
	g, name, err := LoadLayout(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "wall", name)
	assert.Equal(t, ".#.\n.#.\n...\n", g.String())

	layout := LayoutOf("wall", g)
	assert.Equal(t, []string{".#.", ".#.", "..."}, layout.Rows)

	encoded, err := MarshalLayout(layout)
	require.NoError(t, err)
	again, _, err := LoadLayout(strings.NewReader(string(encoded)))
	require.NoError(t, err)
	assert.Equal(t, g.Fingerprint(), again.Fingerprint())

	t.Run("Unknown glyph", func(t *testing.T) {
		_, _, err := LoadLayout(strings.NewReader("rows: [\".x.\"]"))
		assert.ErrorIs(t, err, ErrInvalidLayout)
	})

	t.Run("Ragged rows", func(t *testing.T) {
		_, _, err := LoadLayout(strings.NewReader("rows: [\"...\", \"..\"]"))
		assert.ErrorIs(t, err, ErrInvalidLayout)
		assert.ErrorIs(t, err, ErrNotRectangular)
	})
}
