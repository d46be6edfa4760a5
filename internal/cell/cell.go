// ABOUTME: Cell codec for maze grids: (row, column) <-> cell key and direction decoding
// ABOUTME: Keys are r<2-digit row>c<2-digit col>; state is one character per compass direction

// Package cell encodes maze grid addresses and decodes per-cell state strings.
//
// A cell key is "r" + two zero-padded decimal row digits + "c" + two column
// digits, so rows and columns are limited to [0, MaxIndex]. Larger grids need
// a wider key.
//
// A state string holds StateWidth characters, one per Direction ordinal:
//
//	0 North, 1 East, 2 South, 3 West
//
// The mapping is fixed: grid initialization, cell queries and cell updates all
// index the state string through it.
package cell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2389/maze-gateway/internal/result"
)

const (
	// MaxIndex is the largest row or column a key can encode.
	MaxIndex = 99

	// StateWidth is the length of every state string.
	StateWidth = 4

	// DefaultState is the state of every cell after grid initialization.
	DefaultState = "____"
)

// Direction selects one slot of a state string.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [StateWidth]string{"north", "east", "south", "west"}

// Valid reports whether d is an ordinal in [0, StateWidth).
func (d Direction) Valid() bool {
	return d >= 0 && d < StateWidth
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Key returns the canonical cell key for (row, col).
func Key(row, col int) (string, error) {
	if row < 0 || row > MaxIndex {
		return "", result.Validation("row %d out of range [0,%d]", row, MaxIndex)
	}
	if col < 0 || col > MaxIndex {
		return "", result.Validation("col %d out of range [0,%d]", col, MaxIndex)
	}
	return fmt.Sprintf("r%02dc%02d", row, col), nil
}

// ParseKey is the inverse of Key. It accepts only keys Key can produce.
func ParseKey(key string) (row, col int, err error) {
	if len(key) != 6 || key[0] != 'r' || key[3] != 'c' ||
		!isDigits(key[1:3]) || !isDigits(key[4:6]) {
		return 0, 0, result.Validation("malformed cell key %q", key)
	}
	row, _ = strconv.Atoi(key[1:3])
	col, _ = strconv.Atoi(key[4:6])
	return row, col, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseDirection accepts an ordinal ("0".."3") or a compass name or initial
// ("n", "East", ...).
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, result.Validation("direction is empty")
	}

	if n, err := strconv.Atoi(s); err == nil {
		d := Direction(n)
		if !d.Valid() {
			return 0, result.Validation("direction %d out of range [0,%d)", n, StateWidth)
		}
		return d, nil
	}

	for i, name := range directionNames {
		if s == name || s == name[:1] {
			return Direction(i), nil
		}
	}
	return 0, result.Validation("unknown direction %q", s)
}

// Decode returns the single state character for direction d.
func Decode(state string, d Direction) (string, error) {
	if !d.Valid() {
		return "", result.Validation("direction %d out of range [0,%d)", int(d), StateWidth)
	}
	if len(state) != StateWidth {
		return "", result.Validation("state %q is not %d characters", state, StateWidth)
	}
	return state[d : d+1], nil
}

// ValidateState checks that state is StateWidth printable ASCII characters.
func ValidateState(state string) error {
	if len(state) != StateWidth {
		return result.Validation("state %q is not %d characters", state, StateWidth)
	}
	for i := 0; i < len(state); i++ {
		if state[i] < 0x21 || state[i] > 0x7e {
			return result.Validation("state %q has a non-printable character at %d", state, i)
		}
	}
	return nil
}
