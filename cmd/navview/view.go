package main

import (
	"github.com/beka-birhanu/vinom-nav/agent"
	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	cellWidth = 2 // screen columns per grid cell
	originX   = 1
	originY   = 2 // status line sits above the grid
)

var (
	floorStyle    = tcell.StyleDefault.Foreground(tcell.ColorDimGray)
	obstacleStyle = tcell.StyleDefault.Foreground(tcell.ColorGray).Reverse(true)
	routeStyle    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	targetStyle   = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	agentStyle    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	errorStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// screenToCell maps a screen coordinate to the grid cell drawn there.
func screenToCell(x, y int) (grid.Position, bool) {
	if x < originX || y < originY {
		return grid.Position{}, false
	}
	return grid.Position{Row: y - originY, Col: (x - originX) / cellWidth}, true
}

// cellToScreen returns the left screen column and the row of a grid cell.
func cellToScreen(p grid.Position) (int, int) {
	return originX + p.Col*cellWidth, originY + p.Row
}

// worldToScreen places a continuous world position on the screen, rounding to the
// nearest drawn cell.
func worldToScreen(v game.Vec3) (int, int) {
	row, col := agent.CellAt(r3.Vec{X: v.X, Y: v.Y, Z: v.Z})
	return cellToScreen(grid.Position{Row: row, Col: col})
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// draw renders the grid, the remaining route, the current target and the agent.
func draw(s tcell.Screen, st game.State, status string, failed bool) {
	s.Clear()

	style := statusStyle
	if failed {
		style = errorStyle
	}
	drawText(s, 0, 0, style, status)

	for row, line := range st.Layout {
		for col, glyph := range line {
			x, y := cellToScreen(grid.Position{Row: row, Col: col})
			if glyph == '#' {
				s.SetContent(x, y, ' ', nil, obstacleStyle)
				s.SetContent(x+1, y, ' ', nil, obstacleStyle)
				continue
			}
			s.SetContent(x, y, '·', nil, floorStyle)
		}
	}

	for _, a := range st.Agents {
		for _, p := range a.Remaining {
			x, y := cellToScreen(p)
			s.SetContent(x, y, '•', nil, routeStyle)
		}
		if a.Target != nil {
			x, y := cellToScreen(*a.Target)
			s.SetContent(x, y, '◦', nil, targetStyle)
		}
		x, y := worldToScreen(a.Position)
		s.SetContent(x, y, '@', nil, agentStyle)
	}

	s.Show()
}
