package packet

import "slitherd/internal/game"

// Minimap dimensions per dialect. The legacy client assumes 80 and takes no
// header; the modern client reads the dimension from the packet.
const (
	MinimapDim       = 144
	MinimapDimLegacy = 80
)

// MinimapGrid rasterizes the live snakes into a dim x dim occupancy bitmap.
// Every 4th body part (head included) is sampled; the arena square 0..2R
// maps linearly onto the grid.
func MinimapGrid(snakes []*game.Snake, dim int) []uint8 {
	grid := make([]uint8, dim*dim)
	scale := float64(dim) / (game.GameRadius * 2)

	for _, s := range snakes {
		for i := 0; i < len(s.Parts); i += 4 {
			p := s.Parts[i]
			mx := int(p.X * scale)
			my := int(p.Y * scale)
			if mx >= 0 && mx < dim && my >= 0 && my < dim {
				grid[my*dim+mx] = 1
			}
		}
	}
	return grid
}

// EncodeMinimapRLE compresses an occupancy bitmap: a byte >= 128 skips
// (byte - 128) empty pixels, a byte < 128 carries the next seven pixels in
// bits 6 down to 0.
func EncodeMinimapRLE(grid []uint8) []byte {
	var out []byte
	skip := 0

	for i := 0; i < len(grid); {
		if grid[i] == 0 {
			skip++
			if skip >= 127 {
				out = append(out, uint8(128+skip))
				skip = 0
			}
			i++
			continue
		}

		if skip > 0 {
			out = append(out, uint8(128+skip))
			skip = 0
		}

		var chunk uint8
		for bit := 0; bit < 7; bit++ {
			if i+bit < len(grid) && grid[i+bit] != 0 {
				chunk |= 1 << (6 - bit)
			}
		}
		out = append(out, chunk)
		i += 7
	}

	if skip > 0 {
		out = append(out, uint8(128+skip))
	}
	return out
}

// DecodeMinimapRLE expands an RLE payload back into n pixels. Trailing
// pixels not covered by the payload stay zero.
func DecodeMinimapRLE(data []byte, n int) []uint8 {
	grid := make([]uint8, n)
	pos := 0

	for _, b := range data {
		if b >= 128 {
			pos += int(b) - 128
			continue
		}
		for bit := 0; bit < 7 && pos < n; bit++ {
			if b&(1<<(6-bit)) != 0 {
				grid[pos] = 1
			}
			pos++
		}
	}
	return grid
}

// Minimap builds the periodic minimap broadcast. The modern 'M' form
// prepends the dimension and encodes the grid walked back to front; the
// legacy 'u' form is headerless, 80x80, walked front to back.
func Minimap(snakes []*game.Snake, modern bool) []byte {
	if !modern {
		grid := MinimapGrid(snakes, MinimapDimLegacy)
		return NewWriter(TypeMinimapLegacy).Raw(EncodeMinimapRLE(grid)).Bytes()
	}

	grid := MinimapGrid(snakes, MinimapDim)
	rev := make([]uint8, len(grid))
	for i, v := range grid {
		rev[len(grid)-1-i] = v
	}
	return NewWriter(TypeMinimap).
		Uint16(MinimapDim).
		Raw(EncodeMinimapRLE(rev)).
		Bytes()
}
