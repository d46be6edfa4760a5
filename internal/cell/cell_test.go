// ABOUTME: Tests for the cell codec
// ABOUTME: Key formatting and range checks, direction parsing and state decoding

package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/maze-gateway/internal/result"
)

func TestKey(t *testing.T) {
	tests := []struct {
		row, col int
		want     string
	}{
		{3, 5, "r03c05"},
		{0, 0, "r00c00"},
		{99, 99, "r99c99"},
		{10, 7, "r10c07"},
	}

	for _, tt := range tests {
		got, err := Key(tt.row, tt.col)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestKey_OutOfRange(t *testing.T) {
	for _, rc := range [][2]int{{100, 0}, {0, 100}, {-1, 0}, {0, -1}} {
		_, err := Key(rc[0], rc[1])
		assert.ErrorIs(t, err, result.ErrValidation, "Key(%d, %d)", rc[0], rc[1])
	}
}

func TestParseKey_RoundTrip(t *testing.T) {
	for row := 0; row <= MaxIndex; row += 7 {
		for col := 0; col <= MaxIndex; col += 11 {
			key, err := Key(row, col)
			require.NoError(t, err)

			gotRow, gotCol, err := ParseKey(key)
			require.NoError(t, err)
			assert.Equal(t, row, gotRow)
			assert.Equal(t, col, gotCol)
		}
	}
}

func TestParseKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "r3c5", "x03c05", "r03x05", "r0ac05", "r03c05x", "r-1c05", "r+1c+2", "r01c+2", "r 1c02"} {
		_, _, err := ParseKey(key)
		assert.ErrorIs(t, err, result.ErrValidation, "ParseKey(%q)", key)
	}
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{
		"0":     North,
		"1":     East,
		"2":     South,
		"3":     West,
		"n":     North,
		"E":     East,
		"south": South,
		" West": West,
	}

	for in, want := range tests {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseDirection_Invalid(t *testing.T) {
	for _, in := range []string{"4", "-1", "", "up", "nw"} {
		_, err := ParseDirection(in)
		assert.ErrorIs(t, err, result.ErrValidation, "ParseDirection(%q)", in)
	}
}

func TestDecode(t *testing.T) {
	state := "NESW"
	for d := North; d <= West; d++ {
		got, err := Decode(state, d)
		require.NoError(t, err)
		assert.Equal(t, string(state[d]), got)
	}
}

func TestDecode_DefaultStateIsUnderscoreEverywhere(t *testing.T) {
	for d := North; d <= West; d++ {
		got, err := Decode(DefaultState, d)
		require.NoError(t, err)
		assert.Equal(t, "_", got)
	}
}

func TestDecode_OutOfRange(t *testing.T) {
	_, err := Decode(DefaultState, Direction(4))
	assert.ErrorIs(t, err, result.ErrValidation)

	_, err = Decode(DefaultState, Direction(-1))
	assert.ErrorIs(t, err, result.ErrValidation)
}

func TestDecode_BadState(t *testing.T) {
	_, err := Decode("___", North)
	assert.ErrorIs(t, err, result.ErrValidation)
}

func TestValidateState(t *testing.T) {
	assert.NoError(t, ValidateState("____"))
	assert.NoError(t, ValidateState("|#|."))
	assert.ErrorIs(t, ValidateState("___"), result.ErrValidation)
	assert.ErrorIs(t, ValidateState("_____"), result.ErrValidation)
	assert.ErrorIs(t, ValidateState("__ _"), result.ErrValidation)
	assert.ErrorIs(t, ValidateState("__\n_"), result.ErrValidation)
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "north", North.String())
	assert.Equal(t, "west", West.String())
	assert.Equal(t, "Direction(7)", Direction(7).String())
}
