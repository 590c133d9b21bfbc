package grid

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	obstacleGlyph = '#'
	floorGlyph    = '.'
)

var ErrInvalidLayout = errors.New("invalid grid layout")

// Layout is the on-disk description of a fixed grid.
//
//	name: corridor
//	rows:
//	  - "..#"
//	  - "..."
type Layout struct {
	Name string   `yaml:"name" bson:"name"`
	Rows []string `yaml:"rows" bson:"rows"`
}

// Grid converts the layout into a Grid.
func (l Layout) Grid() (*Grid, error) {
	if len(l.Rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidLayout)
	}

	obstacles := make([][]bool, len(l.Rows))
	for row, line := range l.Rows {
		line = strings.TrimSpace(line)
		obstacles[row] = make([]bool, len(line))
		for col, glyph := range []byte(line) {
			switch glyph {
			case obstacleGlyph:
				obstacles[row][col] = true
			case floorGlyph:
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrInvalidLayout, glyph, row, col)
			}
		}
	}

	g, err := FromRows(obstacles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return g, nil
}

// LayoutOf captures g under the given name.
func LayoutOf(name string, g *Grid) Layout {
	rows := strings.Split(strings.TrimSuffix(g.String(), "\n"), "\n")
	return Layout{Name: name, Rows: rows}
}

// LoadLayout decodes a YAML layout and builds its grid.
func LoadLayout(r io.Reader) (*Grid, string, error) {
	var layout Layout
	if err := yaml.NewDecoder(r).Decode(&layout); err != nil {
		return nil, "", fmt.Errorf("decoding layout: %w", err)
	}

	g, err := layout.Grid()
	if err != nil {
		return nil, "", err
	}
	return g, layout.Name, nil
}

// LoadLayoutFile reads a YAML layout from path.
func LoadLayoutFile(path string) (*Grid, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	return LoadLayout(f)
}

// MarshalLayout encodes the layout as YAML.
func MarshalLayout(l Layout) ([]byte, error) {
	return yaml.Marshal(l)
}
