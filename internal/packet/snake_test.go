package packet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slitherd/internal/game"
)

func TestInitPacketIs32Bytes(t *testing.T) {
	pkt := Init()
	require.Len(t, pkt, 32)
	assert.Equal(t, byte(TypeInit), pkt[2])

	r := NewReader(pkt[3:])
	assert.Equal(t, uint32(game.GameRadius), r.Uint24())
	assert.Equal(t, uint16(game.MaxSnakeParts), r.Uint16())
	assert.Equal(t, uint16(game.SectorSize), r.Uint16())
	assert.Equal(t, uint16(game.SectorCountAlongEdge), r.Uint16())

	r.Uint8()                                  // spangdv
	r.Uint16()                                 // nsp1
	r.Uint16()                                 // nsp2
	r.Uint16()                                 // nsp3
	assert.InDelta(t, 0.033, r.Fp16(3), 5e-4)  // snake angular speed per frame
	assert.InDelta(t, 0.029, r.Fp16(3), 5e-4)  // prey angular speed per frame
	assert.InDelta(t, 0.43, r.Fp16(3), 5e-4)   // tail follow coefficient
	assert.Equal(t, uint8(game.ProtocolVersion), r.Uint8())

	assert.Equal(t, []byte{42, 0, 0, 0, 82, 207}, pkt[26:])
}

func TestPreInitCarriesRawPayload(t *testing.T) {
	pkt := PreInit()
	assert.Equal(t, byte(TypePreInit), pkt[2])
	assert.Equal(t, preInitPayload, string(pkt[3:]))
}

func testPacketSnake(length int) *game.Snake {
	s := &game.Snake{
		ID:       7,
		Skin:     12,
		Name:     "worm",
		Speed:    game.BaseMoveSpeed,
		Angle:    1.0,
		Wangle:   1.5,
		Fullness: 40,
	}
	for i := 0; i < length; i++ {
		s.Parts = append(s.Parts, game.Point{
			X: 10000 - float64(i)*game.MoveStepDistance,
			Y: 10000,
		})
	}
	return s
}

func TestAddSnakeLayout(t *testing.T) {
	s := testPacketSnake(5)
	pkt := AddSnake(s)
	require.Equal(t, byte(TypeSnake), pkt[2])

	r := NewReader(pkt[3:])
	assert.Equal(t, uint16(7), r.Uint16())
	assert.InDelta(t, 1.0, r.Ang24(), 1e-5)
	assert.Equal(t, uint8(0), r.Uint8())
	assert.InDelta(t, 1.5, r.Ang24(), 1e-5)
	assert.Equal(t, uint16(game.BaseMoveSpeed*1000/32), r.Uint16())
	assert.InDelta(t, 0.4, r.Fp24(), 1e-6)
	assert.Equal(t, uint8(12), r.Uint8())
	assert.Equal(t, uint32(10000*5), r.Uint24())
	assert.Equal(t, uint32(10000*5), r.Uint24())
	assert.Equal(t, "worm", r.String())
	assert.Equal(t, uint8(0), r.Uint8()) // empty custom skin
	assert.Equal(t, uint8(0), r.Uint8()) // accessory pad

	tailX := float64(r.Uint24()) / 5
	tailY := float64(r.Uint24()) / 5
	assert.InDelta(t, 10000-4*game.MoveStepDistance, tailX, 0.2)
	assert.InDelta(t, 10000.0, tailY, 0.2)

	// Four relative pairs walk tail to head, +42 in x each.
	for i := 0; i < 4; i++ {
		dx := (float64(r.Uint8()) - 127) / 2
		dy := (float64(r.Uint8()) - 127) / 2
		assert.InDelta(t, float64(game.MoveStepDistance), dx, 0.5, "pair %d dx", i)
		assert.InDelta(t, 0.0, dy, 0.5, "pair %d dy", i)
	}
	assert.Equal(t, 0, r.Remaining())
	assert.False(t, r.Short())
}

func TestRemoveSnakeLayout(t *testing.T) {
	pkt := RemoveSnake(9, StatusSnakeDied)
	require.Len(t, pkt, 6)
	assert.Equal(t, byte(TypeSnake), pkt[2])

	r := NewReader(pkt[3:])
	assert.Equal(t, uint16(9), r.Uint16())
	assert.Equal(t, uint8(StatusSnakeDied), r.Uint8())
}

func TestMoveHeadPicksRelativeWhenClose(t *testing.T) {
	s := testPacketSnake(3)
	pkt := MoveHead(s)
	assert.Equal(t, byte(TypeMoveRel), pkt[2])

	r := NewReader(pkt[3:])
	assert.Equal(t, uint16(7), r.Uint16())
	assert.Equal(t, uint8(42+128), r.Uint8())
	assert.Equal(t, uint8(128), r.Uint8())

	// Teleport-sized deltas fall back to absolute coordinates.
	s.Parts[1].X = 5000
	pkt = MoveHead(s)
	assert.Equal(t, byte(TypeMove), pkt[2])
	r = NewReader(pkt[3:])
	assert.Equal(t, uint16(7), r.Uint16())
	assert.Equal(t, uint16(10000), r.Uint16())
	assert.Equal(t, uint16(10000), r.Uint16())
}

func TestRotationVariants(t *testing.T) {
	// Wanted angle ahead of the heading, every field present.
	pkt := Rotation(3, true, 1.0, true, 1.5, true, game.BaseMoveSpeed/32.0)
	assert.Equal(t, byte(TypeRotCwWang), pkt[2])
	r := NewReader(pkt[3:])
	assert.Equal(t, uint16(3), r.Uint16())
	assert.Equal(t, uint8(math.Round(1.0/(2*math.Pi)*256)), r.Uint8())
	assert.Equal(t, uint8(math.Round(1.5/(2*math.Pi)*256)), r.Uint8())
	assert.Equal(t, uint8(math.Round(game.BaseMoveSpeed/32.0*18)), r.Uint8())

	// Wanted angle behind the heading flips the direction variant.
	pkt = Rotation(3, true, 1.5, true, 1.0, true, 5.375)
	assert.Equal(t, byte(TypeRotCcwAng), pkt[2])

	// Angle only.
	pkt = Rotation(3, true, 2.0, false, 0, false, 0)
	assert.Equal(t, byte(TypeRotCcwAng), pkt[2])
	assert.Len(t, pkt, 6)

	// Speed only.
	pkt = Rotation(3, false, 0, false, 0, true, 14.0)
	assert.Equal(t, byte(TypeRotCcwAngWang), pkt[2])
	assert.Len(t, pkt, 6)
}

func TestFullnessLayout(t *testing.T) {
	s := testPacketSnake(3)
	pkt := Fullness(s)
	r := NewReader(pkt[3:])
	assert.Equal(t, uint16(7), r.Uint16())
	assert.InDelta(t, 0.4, r.Fp24(), 1e-6)
}
