package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/beka-birhanu/vinom-nav/service/i"
)

const (
	layoutNamePattern   = `^[a-zA-Z0-9_-]+$`
	maxLayoutNameLength = 64
)

var (
	ErrInvalidLayoutName = errors.New("invalid layout name")

	layoutNameRegex = regexp.MustCompile(layoutNamePattern)
)

// validateLayoutName accepts names made of letters, digits, '_' and '-'.
func validateLayoutName(name string) error {
	if name == "" || len(name) > maxLayoutNameLength {
		return fmt.Errorf("%w: length must be 1 to %d", ErrInvalidLayoutName, maxLayoutNameLength)
	}
	if !layoutNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidLayoutName, name)
	}
	return nil
}

// ImportLayouts stores every *.yaml and *.yml layout under dir in repo and returns the
// names it stored. A layout without a name is stored under its file name.
func ImportLayouts(ctx context.Context, repo i.LayoutRepo, dir string) ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}

	names := make([]string, 0, len(paths))
	for _, path := range paths {
		g, name, err := grid.LoadLayoutFile(path)
		if err != nil {
			return names, fmt.Errorf("%s: %w", path, err)
		}
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if err := validateLayoutName(name); err != nil {
			return names, fmt.Errorf("%s: %w", path, err)
		}
		if err := repo.Save(ctx, grid.LayoutOf(name, g)); err != nil {
			return names, fmt.Errorf("%s: %w", path, err)
		}
		names = append(names, name)
	}
	return names, nil
}
