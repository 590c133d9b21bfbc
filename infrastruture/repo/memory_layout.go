package repo

import (
	"context"
	"errors"
	"sync"

	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/beka-birhanu/vinom-nav/service/i"
)

// MemoryLayoutRepo keeps layouts in process memory. It backs the server when no
// database is configured.
type MemoryLayoutRepo struct {
	layouts map[string]grid.Layout
	sync.RWMutex
}

// NewMemoryLayoutRepo creates an empty MemoryLayoutRepo.
func NewMemoryLayoutRepo() *MemoryLayoutRepo {
	return &MemoryLayoutRepo{layouts: make(map[string]grid.Layout)}
}

// Save implements i.LayoutRepo.
func (r *MemoryLayoutRepo) Save(_ context.Context, layout grid.Layout) error {
	if layout.Name == "" {
		return errors.New("layout name is required")
	}

	rows := make([]string, len(layout.Rows))
	copy(rows, layout.Rows)

	r.Lock()
	defer r.Unlock()
	r.layouts[layout.Name] = grid.Layout{Name: layout.Name, Rows: rows}
	return nil
}

// ByName implements i.LayoutRepo.
func (r *MemoryLayoutRepo) ByName(_ context.Context, name string) (grid.Layout, error) {
	r.RLock()
	defer r.RUnlock()

	layout, ok := r.layouts[name]
	if !ok {
		return grid.Layout{}, i.ErrLayoutNotFound
	}
	return layout, nil
}
