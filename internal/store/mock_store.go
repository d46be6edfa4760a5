// ABOUTME: Mock store implementation for testing
// ABOUTME: Allows handler tests to run without a database

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/2389/maze-gateway/internal/cell"
	"github.com/2389/maze-gateway/internal/result"
)

// MockStore is an in-memory MazeStore and GrueStore for testing.
type MockStore struct {
	mu    sync.RWMutex
	mazes map[string]map[string]*Cell // maze name -> cell key -> cell
	grues map[string]*Grue

	// Err, when set, is returned by every operation after validation.
	Err error
}

var (
	_ MazeStore = (*MockStore)(nil)
	_ GrueStore = (*MockStore)(nil)
)

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		mazes: make(map[string]map[string]*Cell),
		grues: make(map[string]*Grue),
	}
}

// InitializeMaze replaces the maze with a fresh grid.
func (m *MockStore) InitializeMaze(ctx context.Context, name string, width, height int) error {
	if err := validateMazeName(name); err != nil {
		return err
	}
	if err := validateDimensions(width, height); err != nil {
		return err
	}
	if m.Err != nil {
		return m.Err
	}

	grid := make(map[string]*Cell, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			key, err := cell.Key(row, col)
			if err != nil {
				return err
			}
			grid[key] = &Cell{Maze: name, Key: key, State: cell.DefaultState}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.mazes[name] = grid
	return nil
}

// GetCell returns a copy of the stored cell.
func (m *MockStore) GetCell(ctx context.Context, name string, row, col int, dir *cell.Direction) (*Cell, error) {
	key, err := cellAddress(name, row, col)
	if err != nil {
		return nil, err
	}
	if err := validateDirection(dir); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.mazes[name][key]
	if !ok {
		return nil, result.NotFound("%s: no cell %s", name, key)
	}
	cp := *c
	return project(&cp, dir)
}

// UpdateCell updates the stored cell in place.
func (m *MockStore) UpdateCell(ctx context.Context, name string, row, col int, update CellUpdate) (*Cell, error) {
	key, err := cellAddress(name, row, col)
	if err != nil {
		return nil, err
	}
	if err := validateCellUpdate(update); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.mazes[name][key]
	if !ok {
		return nil, result.NotFound("%s: no cell %s", name, key)
	}
	if update.State != nil {
		c.State = *update.State
	}
	if update.Metadata != nil {
		c.Metadata = *update.Metadata
	}
	cp := *c
	return &cp, nil
}

// ListMazes returns the sorted maze names.
func (m *MockStore) ListMazes(ctx context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.mazes))
	for name := range m.mazes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CountCells returns the number of cells of name.
func (m *MockStore) CountCells(ctx context.Context, name string) (int, error) {
	if err := validateMazeName(name); err != nil {
		return 0, err
	}
	if m.Err != nil {
		return 0, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.mazes[name]), nil
}

// CreateGrue stores a new grue.
func (m *MockStore) CreateGrue(ctx context.Context, name, location string) (*Grue, error) {
	if err := validateNewGrue(name, location); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	g := &Grue{UUID: NewGrueID(), Name: name, Location: location}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.grues[g.UUID] = &cp
	return g, nil
}

// GetGrue retrieves a grue by id.
func (m *MockStore) GetGrue(ctx context.Context, id string) (*Grue, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.grues[id]
	if !ok {
		return nil, result.NotFound("%s: no such grue", id)
	}
	cp := *g
	return &cp, nil
}

// ListGrues returns every grue ordered by meals, then hunger.
func (m *MockStore) ListGrues(ctx context.Context) ([]Grue, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	grues := make([]Grue, 0, len(m.grues))
	for _, g := range m.grues {
		grues = append(grues, *g)
	}
	sort.Slice(grues, func(i, j int) bool {
		a, b := grues[i], grues[j]
		if a.Meals != b.Meals {
			return a.Meals < b.Meals
		}
		if a.Hunger != b.Hunger {
			return a.Hunger < b.Hunger
		}
		return a.UUID < b.UUID
	})
	return grues, nil
}

// UpdateGrue applies update to the stored grue.
func (m *MockStore) UpdateGrue(ctx context.Context, id string, update GrueUpdate) (*Grue, error) {
	if err := validateGrueUpdate(id, update); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.grues[id]
	if !ok {
		return nil, result.NotFound("%s: no such grue", id)
	}
	if update.Location != nil {
		g.Location = *update.Location
	}
	if update.Hunger != nil {
		g.Hunger = *update.Hunger
	}
	if update.Meals != nil {
		g.Meals = *update.Meals
	}
	cp := *g
	return &cp, nil
}

// DeleteGrue removes a grue.
func (m *MockStore) DeleteGrue(ctx context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.grues[id]; !ok {
		return result.NotFound("%s: no such grue", id)
	}
	delete(m.grues, id)
	return nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}
