package packet

import (
	"math"

	"slitherd/internal/game"
)

// AddSnake builds the full 's' snake description: pose header, name, custom
// skin block, then the body as an absolute tail position followed by
// relative pairs walking tail to head.
func AddSnake(s *game.Snake) []byte {
	w := NewWriter(TypeSnake).
		Uint16(s.ID).
		Ang24(s.Angle).
		Uint8(0).
		Ang24(s.Wangle).
		Uint16(uint16(float64(s.Speed) * 1000 / 32)).
		Fp24(float64(s.Fullness) / 100).
		Uint8(s.Skin).
		Uint24(uint32(s.HeadX() * 5)).
		Uint24(uint32(s.HeadY() * 5)).
		String(s.Name)

	if len(s.CustomSkinData) == 0 {
		w.Uint8(0)
	} else {
		data := s.CustomSkinData
		if len(data) > 255 {
			data = data[:255]
		}
		w.Uint8(uint8(len(data))).Raw(data)
	}
	// The client parser skips one accessory byte after the skin block.
	w.Uint8(0)

	if len(s.Parts) > 0 {
		tail := s.Parts[len(s.Parts)-1]
		w.Uint24(uint32(tail.X * 5)).Uint24(uint32(tail.Y * 5))

		for i := len(s.Parts) - 1; i > 0; i-- {
			curr := s.Parts[i]
			next := s.Parts[i-1]
			w.Uint8(uint8((next.X-curr.X)*2 + 127))
			w.Uint8(uint8((next.Y-curr.Y)*2 + 127))
		}
	}

	return w.Bytes()
}

// RemoveSnake builds the short 's' packet announcing a snake left (status 0)
// or died (status 1).
func RemoveSnake(id uint16, status uint8) []byte {
	return NewWriter(TypeSnake).Uint16(id).Uint8(status).Bytes()
}

// MoveHead builds the head-move packet: relative 'G' when the delta from the
// previous head position fits a byte, absolute 'g' otherwise.
func MoveHead(s *game.Snake) []byte {
	head := s.Head()
	if len(s.Parts) > 1 {
		prev := s.Parts[1]
		dx := math.Round(head.X - prev.X)
		dy := math.Round(head.Y - prev.Y)
		if dx >= -128 && dx <= 127 && dy >= -128 && dy <= 127 {
			return NewWriter(TypeMoveRel).
				Uint16(s.ID).
				Uint8(uint8(dx + 128)).
				Uint8(uint8(dy + 128)).
				Bytes()
		}
	}
	return NewWriter(TypeMove).
		Uint16(s.ID).
		Uint16(uint16(head.X)).
		Uint16(uint16(head.Y)).
		Bytes()
}

// IncSnake builds the grow-by-one packet, 'N' relative when possible,
// absolute 'n' otherwise. Layout matches MoveHead.
func IncSnake(s *game.Snake) []byte {
	head := s.Head()
	if len(s.Parts) > 1 {
		prev := s.Parts[1]
		dx := math.Round(head.X - prev.X)
		dy := math.Round(head.Y - prev.Y)
		if dx >= -128 && dx <= 127 && dy >= -128 && dy <= 127 {
			return NewWriter(TypeIncRel).
				Uint16(s.ID).
				Uint8(uint8(dx + 128)).
				Uint8(uint8(dy + 128)).
				Bytes()
		}
	}
	return NewWriter(TypeInc).
		Uint16(s.ID).
		Uint16(uint16(head.X)).
		Uint16(uint16(head.Y)).
		Bytes()
}

// RemovePart builds the 'r' packet dropping the snake's last body part.
func RemovePart(id uint16) []byte {
	return NewWriter(TypeRemPart).Uint16(id).Bytes()
}

// Fullness builds the 'h' packet carrying the snake's fullness as a 24-bit
// fraction.
func Fullness(s *game.Snake) []byte {
	return NewWriter(TypeFullness).
		Uint16(s.ID).
		Fp24(float64(s.Fullness) / 100).
		Bytes()
}

// Rotation builds one of the five rotation variants. The type byte encodes
// the turn direction and which of angle, wangle and speed follow; each
// present field is a single byte.
func Rotation(id uint16, hasAng bool, ang float64, hasWang bool, wang float64, hasSp bool, speed float64) []byte {
	// Direction of the pending turn. With only one angle known the
	// direction is moot, any variant carrying the right fields decodes.
	ccw := true
	if hasAng && hasWang {
		ccw = game.NormalizeAngle(wang-ang) > math.Pi
	}

	var t byte
	switch {
	case hasAng && !hasWang:
		t = TypeRotCcwAng // also carries ang+sp
	case hasAng && hasWang && hasSp:
		if ccw {
			t = TypeRotCcwAng
		} else {
			t = TypeRotCwWang
		}
	case hasAng && hasWang:
		if ccw {
			t = TypeRotCcwAngWang
		} else {
			t = TypeRotCwAngWang
		}
	case hasWang:
		t = TypeRotCcwWang // also carries wang+sp
	default:
		t = TypeRotCcwAngWang // speed alone
	}

	w := NewWriter(t).Uint16(id)
	if hasAng {
		w.Uint8(angByte(ang))
	}
	if hasWang {
		w.Uint8(angByte(wang))
	}
	if hasSp {
		w.Uint8(uint8(math.Round(speed * 18)))
	}
	return w.Bytes()
}

// angByte packs an angle into one byte as a fraction of the full circle.
func angByte(ang float64) uint8 {
	return uint8(int(math.Round(game.NormalizeAngle(ang)/twoPi*256)) & 0xff)
}
