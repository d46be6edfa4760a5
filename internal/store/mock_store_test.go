// ABOUTME: Unit tests for MockStore to ensure behavior matches SQLStore
// ABOUTME: Focuses on copy semantics and injected failures specific to the in-memory implementation

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/maze-gateway/internal/cell"
	"github.com/2389/maze-gateway/internal/result"
)

func TestMockStore_MazeLifecycle(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	require.NoError(t, m.InitializeMaze(ctx, "m", 3, 2))
	n, err := m.CountCells(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = m.UpdateCell(ctx, "m", 1, 2, CellUpdate{State: strPtr("ABCD")})
	require.NoError(t, err)

	c, err := m.GetCell(ctx, "m", 1, 2, dirPtr(cell.South))
	require.NoError(t, err)
	assert.Equal(t, "C", c.State)

	require.NoError(t, m.InitializeMaze(ctx, "m", 1, 1))
	n, err = m.CountCells(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMockStore_GetCellReturnsCopy(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()
	require.NoError(t, m.InitializeMaze(ctx, "m", 1, 1))

	c, err := m.GetCell(ctx, "m", 0, 0, nil)
	require.NoError(t, err)
	c.State = "XXXX"

	again, err := m.GetCell(ctx, "m", 0, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, cell.DefaultState, again.State)
}

func TestMockStore_InjectedError(t *testing.T) {
	m := NewMockStore()
	m.Err = result.Storage(errors.New("boom"), "could not list mazes")
	ctx := context.Background()

	_, err := m.ListMazes(ctx)
	assert.True(t, errors.Is(err, result.ErrStorage))

	// validation still wins over the injected failure
	err = m.InitializeMaze(ctx, "", 1, 1)
	assert.True(t, errors.Is(err, result.ErrValidation))
}

func TestMockStore_ListEmpty(t *testing.T) {
	m := NewMockStore()

	mazes, err := m.ListMazes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, mazes)

	grues, err := m.ListGrues(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, grues)
}

func TestMockStore_Grues(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	a, err := m.CreateGrue(ctx, "a", "r00c00")
	require.NoError(t, err)
	b, err := m.CreateGrue(ctx, "b", "r00c01")
	require.NoError(t, err)

	_, err = m.UpdateGrue(ctx, a.UUID, GrueUpdate{Meals: intPtr(1)})
	require.NoError(t, err)

	grues, err := m.ListGrues(ctx)
	require.NoError(t, err)
	require.Len(t, grues, 2)
	assert.Equal(t, b.UUID, grues[0].UUID)
	assert.Equal(t, a.UUID, grues[1].UUID)

	require.NoError(t, m.DeleteGrue(ctx, a.UUID))
	_, err = m.GetGrue(ctx, a.UUID)
	assert.True(t, errors.Is(err, result.ErrNotFound))
}
