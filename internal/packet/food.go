package packet

import "slitherd/internal/game"

// Food sizes travel scaled by five; the dialect decides between absolute
// world coordinates (legacy) and sector-relative bytes (modern).

func writeFoodAbs(w *Writer, f game.Food) {
	w.Uint8(f.Color).Uint16(f.X).Uint16(f.Y).Uint8(f.Size * 5)
}

func writeFoodRel(w *Writer, f game.Food) {
	sx, rx := game.SectorCoord(f.X)
	sy, ry := game.SectorCoord(f.Y)
	w.Uint8(sx).Uint8(sy).Uint8(rx).Uint8(ry).Uint8(f.Color).Uint8(f.Size * 5)
}

// SetFood builds the 'F' packet listing a sector's current food. The modern
// form carries a single sector header followed by relative coordinates, the
// legacy form repeats absolute coordinates per pellet.
func SetFood(food []game.Food, modern bool) []byte {
	w := NewWriter(TypeSetFood)
	if modern {
		if len(food) == 0 {
			return w.Bytes()
		}
		sx, _ := game.SectorCoord(food[0].X)
		sy, _ := game.SectorCoord(food[0].Y)
		w.Uint8(sx).Uint8(sy)
		for _, f := range food {
			_, rx := game.SectorCoord(f.X)
			_, ry := game.SectorCoord(f.Y)
			w.Uint8(f.Color).Uint8(rx).Uint8(ry).Uint8(f.Size * 5)
		}
		return w.Bytes()
	}
	for _, f := range food {
		writeFoodAbs(w, f)
	}
	return w.Bytes()
}

// AddFood builds the 'f' packet for naturally regenerated food.
func AddFood(f game.Food, modern bool) []byte {
	w := NewWriter(TypeAddFood)
	if modern {
		writeFoodRel(w, f)
	} else {
		writeFoodAbs(w, f)
	}
	return w.Bytes()
}

// SpawnFood builds the 'b' packet for food emitted by boosting or death.
func SpawnFood(f game.Food, modern bool) []byte {
	w := NewWriter(TypeSpawnFood)
	if modern {
		writeFoodRel(w, f)
	} else {
		writeFoodAbs(w, f)
	}
	return w.Bytes()
}

// EatFood builds the 'c' packet removing a pellet, with the eater's id when
// known so the client can animate the suck-in.
func EatFood(eaterID uint16, f game.Food, modern bool) []byte {
	w := NewWriter(TypeEatFood)
	if modern {
		sx, rx := game.SectorCoord(f.X)
		sy, ry := game.SectorCoord(f.Y)
		w.Uint8(sx).Uint8(sy).Uint8(rx).Uint8(ry)
	} else {
		w.Uint16(f.X).Uint16(f.Y)
	}
	if eaterID > 0 {
		w.Uint16(eaterID)
	}
	return w.Bytes()
}

// AddSector builds the 'W' viewport packet subscribing a client to a sector.
func AddSector(sx, sy int) []byte {
	return NewWriter(TypeAddSector).Uint8(uint8(sx)).Uint8(uint8(sy)).Bytes()
}

// RemoveSector builds the 'w' viewport packet dropping a sector.
func RemoveSector(sx, sy int) []byte {
	return NewWriter(TypeRemSector).Uint8(uint8(sx)).Uint8(uint8(sy)).Bytes()
}
