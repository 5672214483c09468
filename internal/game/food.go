package game

// Food is a pellet bound to exactly one sector. Coordinates are absolute
// world positions; size is 1-10, color 0-28.
type Food struct {
	X     uint16
	Y     uint16
	Size  uint8
	Color uint8
}

// SectorCoord splits an absolute world coordinate into a sector index and a
// 0-255 position relative to the sector edge, the encoding the modern
// protocol dialect uses for food packets.
func SectorCoord(worldVal uint16) (sector uint8, rel uint8) {
	sector = uint8(worldVal / SectorSize)
	rel = uint8(uint32(worldVal%SectorSize) * 256 / SectorSize)
	return sector, rel
}
