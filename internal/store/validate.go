// ABOUTME: Input validation shared by the SQL and mock stores
// ABOUTME: Rejects bad names, dimensions and cell updates before anything reaches storage

package store

import (
	"strings"

	"github.com/2389/maze-gateway/internal/cell"
	"github.com/2389/maze-gateway/internal/result"
)

func validateMazeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return result.Validation("maze name is required")
	}
	if len(name) > MaxMazeNameLen {
		return result.Validation("maze name longer than %d bytes", MaxMazeNameLen)
	}
	return nil
}

func validateDimensions(width, height int) error {
	if width < 1 || width > cell.MaxIndex {
		return result.Validation("width %d out of range [1,%d]", width, cell.MaxIndex)
	}
	if height < 1 || height > cell.MaxIndex {
		return result.Validation("height %d out of range [1,%d]", height, cell.MaxIndex)
	}
	return nil
}

// cellAddress validates name and (row, col) and returns the cell key.
func cellAddress(name string, row, col int) (string, error) {
	if err := validateMazeName(name); err != nil {
		return "", err
	}
	return cell.Key(row, col)
}

func validateCellUpdate(update CellUpdate) error {
	if update.State == nil && update.Metadata == nil {
		return result.Validation("need state and/or metadata")
	}
	if update.State != nil {
		if err := cell.ValidateState(*update.State); err != nil {
			return err
		}
	}
	if update.Metadata != nil && len(*update.Metadata) > MaxMetadataLen {
		return result.Validation("metadata longer than %d bytes", MaxMetadataLen)
	}
	return nil
}

// project replaces State with the single character for dir, if given.
func project(c *Cell, dir *cell.Direction) (*Cell, error) {
	if dir == nil {
		return c, nil
	}
	ch, err := cell.Decode(c.State, *dir)
	if err != nil {
		return nil, err
	}
	out := *c
	out.State = ch
	return &out, nil
}

func validateDirection(dir *cell.Direction) error {
	if dir != nil && !dir.Valid() {
		return result.Validation("direction %d out of range [0,%d)", int(*dir), cell.StateWidth)
	}
	return nil
}

func validateNewGrue(name, location string) error {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return result.Validation("Required fields missing: %s", strings.Join(missing, " "))
	}
	if len(name) > MaxGrueNameLen {
		return result.Validation("name longer than %d bytes", MaxGrueNameLen)
	}
	if len(location) > MaxGrueLocationLen {
		return result.Validation("location longer than %d bytes", MaxGrueLocationLen)
	}
	return nil
}

func validateGrueUpdate(id string, update GrueUpdate) error {
	if update.Empty() {
		return result.Validation("%s: need location, hunger, and/or meals", id)
	}
	if update.Location != nil && len(*update.Location) > MaxGrueLocationLen {
		return result.Validation("%s: location longer than %d bytes", id, MaxGrueLocationLen)
	}
	return nil
}
