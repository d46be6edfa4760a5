// ABOUTME: Store interfaces and data types for maze grids and grue records
// ABOUTME: Defines Cell, Grue and the MazeStore/GrueStore operations over the relational table

package store

import (
	"context"

	"github.com/2389/maze-gateway/internal/cell"
)

const (
	// MaxMazeNameLen matches the mazename column width.
	MaxMazeNameLen = 64

	// MaxMetadataLen matches the metadata column width.
	MaxMetadataLen = 16

	// MaxGrueNameLen and MaxGrueLocationLen match the grues columns.
	MaxGrueNameLen     = 64
	MaxGrueLocationLen = 2048
)

// Cell is one grid position of a maze
type Cell struct {
	Maze     string `db:"mazename"`
	Key      string `db:"cell"`
	State    string `db:"state"`
	Metadata string `db:"metadata"`
}

// CellUpdate carries the columns to change on a cell; nil fields are left alone
type CellUpdate struct {
	State    *string
	Metadata *string
}

// MazeStore persists maze grids. Every error is classified with the
// result.Err* kinds.
type MazeStore interface {
	// InitializeMaze atomically replaces every cell of name with a fresh
	// width x height grid in the default state.
	InitializeMaze(ctx context.Context, name string, width, height int) error

	// GetCell returns the cell at (row, col). With a direction, State holds
	// only that direction's character.
	GetCell(ctx context.Context, name string, row, col int, dir *cell.Direction) (*Cell, error)

	// UpdateCell changes state and/or metadata of an existing cell.
	UpdateCell(ctx context.Context, name string, row, col int, update CellUpdate) (*Cell, error)

	// ListMazes returns the distinct maze names in ascending order.
	ListMazes(ctx context.Context) ([]string, error)

	// CountCells returns how many cells name has; 0 means the maze does not exist.
	CountCells(ctx context.Context, name string) (int, error)

	// Close releases any resources held by the store
	Close() error
}

// Grue is a tracked grue record
type Grue struct {
	UUID     string `db:"uuid" json:"uuid"`
	Name     string `db:"name" json:"name"`
	Location string `db:"location" json:"location"`
	Hunger   int    `db:"hunger" json:"hunger"`
	Meals    int    `db:"meals" json:"meals"`
}

// GrueUpdate carries the grue fields to change; nil fields are left alone
type GrueUpdate struct {
	Location *string
	Hunger   *int
	Meals    *int
}

// Empty reports whether the update changes nothing.
func (u GrueUpdate) Empty() bool {
	return u.Location == nil && u.Hunger == nil && u.Meals == nil
}

// GrueStore persists grue records.
type GrueStore interface {
	CreateGrue(ctx context.Context, name, location string) (*Grue, error)
	GetGrue(ctx context.Context, id string) (*Grue, error)

	// ListGrues returns every grue ordered by meals, then hunger.
	ListGrues(ctx context.Context) ([]Grue, error)

	// UpdateGrue applies update and returns the refreshed record.
	UpdateGrue(ctx context.Context, id string, update GrueUpdate) (*Grue, error)

	DeleteGrue(ctx context.Context, id string) error
	Close() error
}
