// ABOUTME: Tests for grue record persistence on SQLite
// ABOUTME: Covers id format, CRUD, ordering, and error classification

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/maze-gateway/internal/result"
)

var grueIDPattern = regexp.MustCompile(`^[0-9A-F]{32}$`)

func intPtr(i int) *int { return &i }

func TestNewGrueID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewGrueID()
		assert.Regexp(t, grueIDPattern, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestCreateAndGetGrue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g, err := s.CreateGrue(ctx, "gnash", "r01c02")
	require.NoError(t, err)
	assert.Regexp(t, grueIDPattern, g.UUID)
	assert.Equal(t, 0, g.Hunger)
	assert.Equal(t, 0, g.Meals)

	got, err := s.GetGrue(ctx, g.UUID)
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestCreateGrue_RequiredFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateGrue(ctx, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, result.ErrValidation))
	assert.EqualError(t, err, "Required fields missing: name location")

	_, err = s.CreateGrue(ctx, "gnash", "")
	assert.EqualError(t, err, "Required fields missing: location")
}

func TestGetGrue_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetGrue(context.Background(), "ABC")
	assert.True(t, errors.Is(err, result.ErrNotFound))
	assert.EqualError(t, err, "ABC: no such grue")
}

func TestListGrues_Order(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	grues, err := s.ListGrues(ctx)
	require.NoError(t, err)
	assert.NotNil(t, grues)
	assert.Empty(t, grues)

	full, err := s.CreateGrue(ctx, "full", "a")
	require.NoError(t, err)
	hungry, err := s.CreateGrue(ctx, "hungry", "b")
	require.NoError(t, err)
	fresh, err := s.CreateGrue(ctx, "fresh", "c")
	require.NoError(t, err)

	_, err = s.UpdateGrue(ctx, full.UUID, GrueUpdate{Meals: intPtr(3)})
	require.NoError(t, err)
	_, err = s.UpdateGrue(ctx, hungry.UUID, GrueUpdate{Hunger: intPtr(9)})
	require.NoError(t, err)

	grues, err = s.ListGrues(ctx)
	require.NoError(t, err)
	require.Len(t, grues, 3)
	assert.Equal(t, fresh.UUID, grues[0].UUID)
	assert.Equal(t, hungry.UUID, grues[1].UUID)
	assert.Equal(t, full.UUID, grues[2].UUID)
}

func TestUpdateGrue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g, err := s.CreateGrue(ctx, "gnash", "r00c00")
	require.NoError(t, err)

	got, err := s.UpdateGrue(ctx, g.UUID, GrueUpdate{Location: strPtr("r03c04"), Hunger: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, "r03c04", got.Location)
	assert.Equal(t, 2, got.Hunger)
	assert.Equal(t, 0, got.Meals)
	assert.Equal(t, "gnash", got.Name)

	_, err = s.UpdateGrue(ctx, g.UUID, GrueUpdate{})
	assert.True(t, errors.Is(err, result.ErrValidation))

	_, err = s.UpdateGrue(ctx, "MISSING", GrueUpdate{Meals: intPtr(1)})
	assert.True(t, errors.Is(err, result.ErrNotFound))
}

func TestDeleteGrue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g, err := s.CreateGrue(ctx, "gnash", "r00c00")
	require.NoError(t, err)

	require.NoError(t, s.DeleteGrue(ctx, g.UUID))

	_, err = s.GetGrue(ctx, g.UUID)
	assert.True(t, errors.Is(err, result.ErrNotFound))

	err = s.DeleteGrue(ctx, g.UUID)
	assert.True(t, errors.Is(err, result.ErrNotFound))
}
