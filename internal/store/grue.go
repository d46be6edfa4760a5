// ABOUTME: Grue record persistence for the grue service
// ABOUTME: Single-row CRUD keyed by a 32-character upper-case hex id

package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389/maze-gateway/internal/metrics"
	"github.com/2389/maze-gateway/internal/result"
)

// NewGrueID returns a random id in the grue service's format: a v4 UUID as
// upper-case hex without dashes.
func NewGrueID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// CreateGrue stores a new grue with zero hunger and meals.
func (s *SQLStore) CreateGrue(ctx context.Context, name, location string) (g *Grue, err error) {
	if err := validateNewGrue(name, location); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp("create_grue", start, err) }()

	g = &Grue{UUID: NewGrueID(), Name: name, Location: location}
	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO grues (uuid, name, location, hunger, meals) VALUES (:uuid, :name, :location, :hunger, :meals)`, g)
	if err != nil {
		return nil, result.Storage(err, "%s: could not save info", g.UUID)
	}
	return g, nil
}

// GetGrue retrieves a grue by id.
func (s *SQLStore) GetGrue(ctx context.Context, id string) (g *Grue, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("get_grue", start, err) }()

	return s.getGrue(ctx, id)
}

func (s *SQLStore) getGrue(ctx context.Context, id string) (*Grue, error) {
	var g Grue
	err := s.db.GetContext(ctx, &g,
		s.q(`SELECT uuid, name, location, hunger, meals FROM grues WHERE uuid = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, result.NotFound("%s: no such grue", id)
	}
	if err != nil {
		return nil, result.Storage(err, "%s: could not fetch info", id)
	}
	return &g, nil
}

// ListGrues returns every grue ordered by meals, then hunger.
func (s *SQLStore) ListGrues(ctx context.Context) (grues []Grue, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("list_grues", start, err) }()

	grues = []Grue{}
	err = s.db.SelectContext(ctx, &grues,
		`SELECT uuid, name, location, hunger, meals FROM grues ORDER BY meals, hunger, uuid`)
	if err != nil {
		return nil, result.Storage(err, "grues: could not fetch info")
	}
	return grues, nil
}

// UpdateGrue applies the non-nil fields of update and returns the refreshed record.
func (s *SQLStore) UpdateGrue(ctx context.Context, id string, update GrueUpdate) (g *Grue, err error) {
	if err := validateGrueUpdate(id, update); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp("update_grue", start, err) }()

	var sets []string
	var args []any
	if update.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *update.Location)
	}
	if update.Hunger != nil {
		sets = append(sets, "hunger = ?")
		args = append(args, *update.Hunger)
	}
	if update.Meals != nil {
		sets = append(sets, "meals = ?")
		args = append(args, *update.Meals)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, s.q(`UPDATE grues SET `+strings.Join(sets, ", ")+` WHERE uuid = ?`), args...)
	if err != nil {
		return nil, result.Storage(err, "%s: could not update info", id)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, result.Storage(err, "%s: could not update info", id)
	} else if n == 0 {
		return nil, result.NotFound("%s: no such grue", id)
	}

	return s.getGrue(ctx, id)
}

// DeleteGrue removes a grue.
func (s *SQLStore) DeleteGrue(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("delete_grue", start, err) }()

	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM grues WHERE uuid = ?`), id)
	if err != nil {
		return result.Storage(err, "%s: could not delete grue", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return result.Storage(err, "%s: could not delete grue", id)
	}
	if n == 0 {
		return result.NotFound("%s: no such grue", id)
	}
	return nil
}
