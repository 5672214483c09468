package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slitherd/internal/game"
)

func TestAddFoodLayouts(t *testing.T) {
	f := game.Food{X: 10050, Y: 4900, Size: 5, Color: 3}

	legacy := AddFood(f, false)
	require.Equal(t, byte(TypeAddFood), legacy[2])
	r := NewReader(legacy[3:])
	assert.Equal(t, uint8(3), r.Uint8())
	assert.Equal(t, uint16(10050), r.Uint16())
	assert.Equal(t, uint16(4900), r.Uint16())
	assert.Equal(t, uint8(25), r.Uint8())
	assert.Equal(t, 0, r.Remaining())

	modern := AddFood(f, true)
	require.Equal(t, byte(TypeAddFood), modern[2])
	r = NewReader(modern[3:])
	sx, rx := game.SectorCoord(f.X)
	sy, ry := game.SectorCoord(f.Y)
	assert.Equal(t, sx, r.Uint8())
	assert.Equal(t, sy, r.Uint8())
	assert.Equal(t, rx, r.Uint8())
	assert.Equal(t, ry, r.Uint8())
	assert.Equal(t, uint8(3), r.Uint8())
	assert.Equal(t, uint8(25), r.Uint8())
	assert.Equal(t, 0, r.Remaining())
}

func TestEatFoodCarriesEaterID(t *testing.T) {
	f := game.Food{X: 10050, Y: 4900, Size: 5, Color: 3}

	withEater := EatFood(7, f, false)
	r := NewReader(withEater[3:])
	assert.Equal(t, uint16(10050), r.Uint16())
	assert.Equal(t, uint16(4900), r.Uint16())
	assert.Equal(t, uint16(7), r.Uint16())
	assert.Equal(t, 0, r.Remaining())

	// A natural despawn has no eater and drops the trailing id.
	anonymous := EatFood(0, f, false)
	assert.Len(t, anonymous, 3+4)
}
