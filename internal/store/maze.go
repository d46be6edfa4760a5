// ABOUTME: Maze grid persistence: transactional grid initialization and per-cell access
// ABOUTME: Each maze is a set of (mazename, cell) rows; no separate dimensions record is kept

package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/2389/maze-gateway/internal/cell"
	"github.com/2389/maze-gateway/internal/metrics"
	"github.com/2389/maze-gateway/internal/result"
)

// InitializeMaze replaces every cell of name with a width x height grid of
// default cells inside one transaction. Concurrent initializations of the
// same name serialize on a per-maze advisory lock (Postgres) or on the
// database write lock (SQLite).
func (s *SQLStore) InitializeMaze(ctx context.Context, name string, width, height int) (err error) {
	if err := validateMazeName(name); err != nil {
		return err
	}
	if err := validateDimensions(width, height); err != nil {
		return err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp("initialize_maze", start, err) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return result.Storage(err, "could not initialize %s", name)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Warn("rollback failed", "maze", name, "error", rbErr)
			}
		}
	}()

	if s.isPostgres() {
		if _, err := tx.ExecContext(ctx, s.q(`SELECT pg_advisory_xact_lock(hashtext(?))`), name); err != nil {
			return result.Storage(err, "could not lock %s", name)
		}
	}

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM maze WHERE mazename = ?`), name); err != nil {
		return result.Storage(err, "could not delete old %s", name)
	}

	stmt, err := tx.PreparexContext(ctx, s.q(`INSERT INTO maze (mazename, cell, state, metadata) VALUES (?, ?, ?, ?)`))
	if err != nil {
		return result.Storage(err, "could not initialize %s", name)
	}
	defer stmt.Close()

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			key, err := cell.Key(row, col)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, name, key, cell.DefaultState, ""); err != nil {
				return result.Storage(err, "could not initialize %s", name)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return result.Storage(err, "could not initialize %s", name)
	}
	committed = true

	s.logger.Debug("maze initialized", "maze", name, "width", width, "height", height)
	return nil
}

// GetCell returns one cell, projected onto dir when dir is non-nil.
func (s *SQLStore) GetCell(ctx context.Context, name string, row, col int, dir *cell.Direction) (c *Cell, err error) {
	key, err := cellAddress(name, row, col)
	if err != nil {
		return nil, err
	}
	if err := validateDirection(dir); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp("get_cell", start, err) }()

	got, err := s.getCell(ctx, s.db, name, key)
	if err != nil {
		return nil, err
	}
	return project(got, dir)
}

func (s *SQLStore) getCell(ctx context.Context, q sqlx.QueryerContext, name, key string) (*Cell, error) {
	var c Cell
	err := sqlx.GetContext(ctx, q, &c,
		s.q(`SELECT mazename, cell, state, metadata FROM maze WHERE mazename = ? AND cell = ?`),
		name, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, result.NotFound("%s: no cell %s", name, key)
	}
	if err != nil {
		return nil, result.Storage(err, "could not get cell %s %s", name, key)
	}
	return &c, nil
}

// UpdateCell changes state and/or metadata of an existing cell and returns it.
func (s *SQLStore) UpdateCell(ctx context.Context, name string, row, col int, update CellUpdate) (c *Cell, err error) {
	key, err := cellAddress(name, row, col)
	if err != nil {
		return nil, err
	}
	if err := validateCellUpdate(update); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp("update_cell", start, err) }()

	var sets []string
	var args []any
	if update.State != nil {
		sets = append(sets, "state = ?")
		args = append(args, *update.State)
	}
	if update.Metadata != nil {
		sets = append(sets, "metadata = ?")
		args = append(args, *update.Metadata)
	}
	args = append(args, name, key)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, result.Storage(err, "could not update cell %s %s", name, key)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Warn("rollback failed", "maze", name, "cell", key, "error", rbErr)
			}
		}
	}()

	query := `UPDATE maze SET ` + strings.Join(sets, ", ") + ` WHERE mazename = ? AND cell = ?`
	res, err := tx.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, result.Storage(err, "could not update cell %s %s", name, key)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, result.Storage(err, "could not update cell %s %s", name, key)
	}
	if n == 0 {
		return nil, result.NotFound("%s: no cell %s", name, key)
	}

	// Read back inside the transaction so a concurrent re-initialization
	// cannot replace the row between the write and the read.
	c, err = s.getCell(ctx, tx, name, key)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, result.Storage(err, "could not update cell %s %s", name, key)
	}
	committed = true
	return c, nil
}

// ListMazes returns every distinct maze name in ascending order.
func (s *SQLStore) ListMazes(ctx context.Context) (names []string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("list_mazes", start, err) }()

	names = []string{}
	if err := s.db.SelectContext(ctx, &names, `SELECT DISTINCT mazename FROM maze ORDER BY mazename`); err != nil {
		return nil, result.Storage(err, "could not list mazes")
	}
	return names, nil
}

// CountCells returns the number of cells stored for name.
func (s *SQLStore) CountCells(ctx context.Context, name string) (n int, err error) {
	if err := validateMazeName(name); err != nil {
		return 0, err
	}

	start := time.Now()
	defer func() { metrics.ObserveStoreOp("count_cells", start, err) }()

	if err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM maze WHERE mazename = ?`), name); err != nil {
		return 0, result.Storage(err, "could not count cells of %s", name)
	}
	return n, nil
}
