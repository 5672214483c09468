package game

import "math"

// Circle is a center plus radius, used for sector bounds and snake boxes.
type Circle struct {
	X float64
	Y float64
	R float64
}

// Sector is one fixed-size square cell of the spatial grid. It owns its food
// list; the snake-box list is non-owning, boxes unlink themselves on update
// or destruction.
type Sector struct {
	X int
	Y int

	// Bounding circle centered on the sector, radius sector_size*sqrt(2)/2.
	Box Circle

	Food            []Food
	Snakes          []*BoundBox
	MaxFoodCapacity int
}

func (s *Sector) init(x, y int) {
	s.X = x
	s.Y = y
	s.Box = Circle{
		X: float64(x)*SectorSize + SectorSize/2,
		Y: float64(y)*SectorSize + SectorSize/2,
		R: SectorSize * math.Sqrt2 / 2,
	}
}

// Insert adds a food pellet to this sector.
func (s *Sector) Insert(f Food) {
	s.Food = append(s.Food, f)
}

// RemoveFoodAt drops the pellet at index i. Order is not preserved.
func (s *Sector) RemoveFoodAt(i int) {
	last := len(s.Food) - 1
	s.Food[i] = s.Food[last]
	s.Food = s.Food[:last]
}

func (s *Sector) addBox(b *BoundBox) {
	s.Snakes = append(s.Snakes, b)
}

func (s *Sector) removeBox(b *BoundBox) {
	for i, x := range s.Snakes {
		if x == b {
			last := len(s.Snakes) - 1
			s.Snakes[i] = s.Snakes[last]
			s.Snakes = s.Snakes[:last]
			return
		}
	}
}

// Grid is the fixed N x N array of sectors covering the arena square.
type Grid struct {
	sectors []Sector
}

// NewGrid allocates and indexes every sector. Food is filled separately by
// the world so the density curve shares the world's random source.
func NewGrid() *Grid {
	g := &Grid{sectors: make([]Sector, SectorCountAlongEdge*SectorCountAlongEdge)}
	for y := 0; y < SectorCountAlongEdge; y++ {
		for x := 0; x < SectorCountAlongEdge; x++ {
			g.sectors[y*SectorCountAlongEdge+x].init(x, y)
		}
	}
	return g
}

// Get returns the sector at (x, y), or nil when out of bounds.
func (g *Grid) Get(x, y int) *Sector {
	if x < 0 || x >= SectorCountAlongEdge || y < 0 || y >= SectorCountAlongEdge {
		return nil
	}
	return &g.sectors[y*SectorCountAlongEdge+x]
}

// At returns the sector at flat index i.
func (g *Grid) At(i int) *Sector { return &g.sectors[i] }

// Len returns the total sector count.
func (g *Grid) Len() int { return len(g.sectors) }

// BoundBox is a circle that maintains its own sector-grid membership. The
// snake pointer is a back reference for collision queries; sectors hold
// non-owning pointers back to the box.
type BoundBox struct {
	Circle
	Snake   *Snake
	Sectors []*Sector

	// Set on a viewport box to capture membership deltas for the session
	// layer; nil on plain snake boxes.
	track *viewportDeltas
}

type viewportDeltas struct {
	newSectors []*Sector
	oldSectors []*Sector
}

func (b *BoundBox) contains(s *Sector) bool {
	for _, x := range b.Sectors {
		if x == s {
			return true
		}
	}
	return false
}

func (b *BoundBox) insert(s *Sector) {
	b.Sectors = append(b.Sectors, s)
	s.addBox(b)
	if b.track != nil {
		b.track.newSectors = append(b.track.newSectors, s)
	}
}

func (b *BoundBox) remove(i int) {
	s := b.Sectors[i]
	last := len(b.Sectors) - 1
	b.Sectors[i] = b.Sectors[last]
	b.Sectors = b.Sectors[:last]
	s.removeBox(b)
	if b.track != nil {
		b.track.oldSectors = append(b.track.oldSectors, s)
	}
}

// UpdateNewSectors joins every sector the circle (x, y, r) touches that the
// box is not yet a member of. Out-of-range sector indices are clipped.
func (b *BoundBox) UpdateNewSectors(g *Grid, r, x, y float64) {
	x0 := int(math.Floor((x - r) / SectorSize))
	x1 := int(math.Floor((x + r) / SectorSize))
	y0 := int(math.Floor((y - r) / SectorSize))
	y1 := int(math.Floor((y + r) / SectorSize))

	for sy := y0; sy <= y1; sy++ {
		for sx := x0; sx <= x1; sx++ {
			sec := g.Get(sx, sy)
			if sec == nil || b.contains(sec) {
				continue
			}
			b.insert(sec)
		}
	}
}

// UpdateOldSectors leaves every member sector whose bounding circle no
// longer intersects the box circle.
func (b *BoundBox) UpdateOldSectors() {
	for i := 0; i < len(b.Sectors); {
		sec := b.Sectors[i]
		reach := b.R + sec.Box.R
		if DistSq(b.X, b.Y, sec.Box.X, sec.Box.Y) > reach*reach {
			b.remove(i)
			continue
		}
		i++
	}
}

// Intersect reports whether two box circles overlap, the cheap reject used
// before per-segment collision tests.
func (b *BoundBox) Intersect(o *BoundBox) bool {
	reach := b.R + o.R
	return DistSq(b.X, b.Y, o.X, o.Y) <= reach*reach
}

// Destroy unlinks the box from every sector it occupies.
func (b *BoundBox) Destroy() {
	for _, sec := range b.Sectors {
		sec.removeBox(b)
	}
	b.Sectors = b.Sectors[:0]
}

// ViewPort is the larger bound box kept for human snakes. It records the
// sectors entering and leaving view each tick so the session layer can send
// sector-add, food-set and sector-remove packets.
type ViewPort struct {
	BoundBox
	deltas viewportDeltas
}

func (v *ViewPort) init(snake *Snake, x, y float64) {
	v.Snake = snake
	v.X = x
	v.Y = y
	v.BoundBox.track = &v.deltas
}

// Update recenters the viewport and refreshes membership, accumulating
// deltas for the broadcast pass.
func (v *ViewPort) Update(g *Grid, x, y float64) {
	v.X = x
	v.Y = y
	v.UpdateNewSectors(g, v.R, x, y)
}

// NewSectors returns the sectors that entered view since the last Flush.
func (v *ViewPort) NewSectors() []*Sector { return v.deltas.newSectors }

// OldSectors returns the sectors that left view since the last Flush.
func (v *ViewPort) OldSectors() []*Sector { return v.deltas.oldSectors }

// Flush clears both delta lists after the broadcast pass has sent them.
func (v *ViewPort) Flush() {
	v.deltas.newSectors = v.deltas.newSectors[:0]
	v.deltas.oldSectors = v.deltas.oldSectors[:0]
}
