package game

import (
	"math"
	"math/rand"
)

// Config is the tunable world surface. Zero-valued probability weights are
// treated as a total of 1 so a bad config cannot divide by zero.
type Config struct {
	Bots       int
	BotRespawn bool

	HSnakeStartScore int
	BSnakeStartScore int
	SnakeMinLength   int

	FoodSpawnRate      int
	SpawnProbNearSnake int
	SpawnProbOnSnake   int
	SpawnProbRandom    int

	BoostCost     int
	BoostDropSize uint8
}

// World owns the sector grid and the snake map. All mutation happens under
// the server's simulation lock; the world itself never blocks.
type World struct {
	cfg  Config
	rng  *rand.Rand
	grid *Grid

	snakes  map[uint16]*Snake
	dead    []uint16
	changes []*Snake

	lastSnakeID uint16
	ticks       int64
	frames      int64
}

// NewWorld builds the sector grid, fills initial food and spawns the
// configured bots. The random source is injectable for tests and is only
// ever used under the simulation lock.
func NewWorld(cfg Config, rng *rand.Rand) *World {
	w := &World{
		cfg:    cfg,
		rng:    rng,
		grid:   NewGrid(),
		snakes: make(map[uint16]*Snake),
	}
	w.initFood()
	for i := 0; i < cfg.Bots; i++ {
		w.AddSnake(w.CreateSnakeBot())
	}
	return w
}

// Grid exposes the sector grid to the session layer for viewport packets.
func (w *World) Grid() *Grid { return w.grid }

// Config returns the active world configuration.
func (w *World) Config() *Config { return &w.cfg }

// Snakes returns the live snake map, keyed by id.
func (w *World) Snakes() map[uint16]*Snake { return w.snakes }

// GetSnake looks a snake up by id.
func (w *World) GetSnake(id uint16) *Snake { return w.snakes[id] }

// ChangedSnakes returns the snakes that raised dirty flags this tick.
func (w *World) ChangedSnakes() []*Snake { return w.changes }

// FlushChanges clears the per-tick change list.
func (w *World) FlushChanges() { w.changes = w.changes[:0] }

// Dead returns ids queued for removal.
func (w *World) Dead() []uint16 { return w.dead }

// PushDead queues a snake id for removal on the next cleanup.
func (w *World) PushDead(id uint16) { w.dead = append(w.dead, id) }

// ClearDead resets the removal queue.
func (w *World) ClearDead() { w.dead = w.dead[:0] }

// Randf returns a uniform float in [0, 1) from the world's source.
func (w *World) Randf() float64 { return w.rng.Float64() }

// initFood seeds each sector with a density that falls off with squared
// radial distance from the arena center, and derives the per-sector cap.
func (w *World) initFood() {
	const center = SectorCountAlongEdge / 2
	for i := 0; i < w.grid.Len(); i++ {
		s := w.grid.At(i)

		dist := (s.X-center)*(s.X-center) + (s.Y-center)*(s.Y-center)
		dp := 1 - float64(dist)/(SectorCountAlongEdge*SectorCountAlongEdge)
		density := int(dp * 10)

		s.MaxFoodCapacity = 2 * density
		if s.MaxFoodCapacity < 20 {
			s.MaxFoodCapacity = 20
		}

		for j := 0; j < density; j++ {
			s.Insert(Food{
				X:     uint16(s.X*SectorSize + w.rng.Intn(SectorSize)),
				Y:     uint16(s.Y*SectorSize + w.rng.Intn(SectorSize)),
				Size:  uint8(1 + w.rng.Intn(10)),
				Color: uint8(w.rng.Intn(29)),
			})
		}
	}
}

// Tick advances the world by dt milliseconds in fixed 8 ms frames. Wall
// clock jitter accumulates and is absorbed by the next tick rather than
// being caught up beyond the natural accumulator.
func (w *World) Tick(dt int64) {
	w.ticks += dt
	vfr := w.ticks / FrameTimeMs
	if vfr > 0 {
		vfrTime := vfr * FrameTimeMs
		w.tickSnakes(vfrTime)
		w.regenerateFood()
		w.ticks -= vfrTime
		w.frames += vfr
	}
}

func (w *World) tickSnakes(dt int64) {
	for _, s := range w.snakes {
		if s.Tick(dt, w.grid, &w.cfg) {
			w.changes = append(w.changes, s)
		}
	}

	for _, s := range w.changes {
		if s.Update&ChangePos != 0 {
			w.CheckSnakeBounds(s)
		}
	}
}

// regenerateFood spawns up to food_spawn_rate pellets, each targeted by a
// weighted pick among near-snake, on-snake and random sector policies.
func (w *World) regenerateFood() {
	wNear := w.cfg.SpawnProbNearSnake
	wOn := w.cfg.SpawnProbOnSnake
	wRand := w.cfg.SpawnProbRandom
	totalWeight := wNear + wOn + wRand
	if totalWeight == 0 {
		totalWeight = 1
	}

	for i := 0; i < w.cfg.FoodSpawnRate; i++ {
		var target *Sector

		roll := w.rng.Intn(totalWeight)
		if roll < wNear+wOn && len(w.snakes) > 0 {
			s := w.randomSnake()
			sx := int(s.HeadX()) / SectorSize
			sy := int(s.HeadY()) / SectorSize
			if roll < wNear {
				sx += w.rng.Intn(3) - 1
				sy += w.rng.Intn(3) - 1
			}
			target = w.grid.Get(sx, sy)
		}
		if target == nil {
			target = w.grid.At(w.rng.Intn(w.grid.Len()))
		}

		if len(target.Food) >= target.MaxFoodCapacity {
			continue
		}

		fx := target.X*SectorSize + w.rng.Intn(SectorSize)
		fy := target.Y*SectorSize + w.rng.Intn(SectorSize)

		// Keep pellets inside the playable disk.
		const edge = float64(GameRadius - 500)
		if DistSq(float64(fx), float64(fy), GameRadius, GameRadius) > edge*edge {
			continue
		}

		target.Insert(Food{
			X:     uint16(fx),
			Y:     uint16(fy),
			Size:  uint8(1 + w.rng.Intn(5)),
			Color: uint8(w.rng.Intn(29)),
		})
	}
}

func (w *World) randomSnake() *Snake {
	n := w.rng.Intn(len(w.snakes))
	for _, s := range w.snakes {
		if n == 0 {
			return s
		}
		n--
	}
	return nil
}

// CheckSnakeBounds runs the collision pass for one snake: wall test against
// the death radius, then the head's swept segment against every body pair of
// every nearby snake. A hit raises dying and records the killer.
func (w *World) CheckSnakeBounds(s *Snake) {
	hx := s.HeadX()
	hy := s.HeadY()

	moveDist := float64(s.Speed) * FrameTimeMs / 1000.0
	if moveDist < 5 {
		moveDist = 5
	}
	prevHX := hx - math.Cos(s.Angle)*moveDist
	prevHY := hy - math.Sin(s.Angle)*moveDist

	bodyRadius := s.lsz / 2
	tipX := hx + math.Cos(s.Angle)*bodyRadius
	tipY := hy + math.Sin(s.Angle)*bodyRadius

	if DistSq(tipX, tipY, GameRadius, GameRadius) >= DeathRadius*DeathRadius {
		s.Update |= ChangeDying
		return
	}

	csx := int(hx / SectorSize)
	csy := int(hy / SectorSize)

	var checked []uint16
	for sy := csy - 1; sy <= csy+1; sy++ {
		for sx := csx - 1; sx <= csx+1; sx++ {
			sec := w.grid.Get(sx, sy)
			if sec == nil {
				continue
			}
			for _, bb := range sec.Snakes {
				other := bb.Snake
				if other == s || other.Update&(ChangeDying|ChangeDead) != 0 {
					continue
				}

				seen := false
				for _, id := range checked {
					if id == other.ID {
						seen = true
						break
					}
				}
				if seen {
					continue
				}
				checked = append(checked, other.ID)

				if !s.SBB.Intersect(&other.SBB) {
					continue
				}

				hitR := s.lsz/2 + other.lsz/2
				hitDistSq := hitR * hitR

				length := len(other.Parts)
				if length < 2 {
					continue
				}

				for k := 0; k < length-1; k++ {
					b1 := other.Parts[k]
					b2 := other.Parts[k+1]

					if DistSq(hx, hy, b1.X, b1.Y) < hitDistSq ||
						CheckIntersection(prevHX, prevHY, hx, hy, b1.X, b1.Y, b2.X, b2.Y) {
						s.Update |= ChangeDying
						s.KilledBy = other.ID
						return
					}
				}

				last := other.Parts[length-1]
				if DistSq(hx, hy, last.X, last.Y) < hitDistSq {
					s.Update |= ChangeDying
					s.KilledBy = other.ID
					return
				}
			}
		}
	}
}

// isLocationSafe rejects spawn candidates within safetyRadius of any snake
// head in the surrounding 3x3 sectors.
func (w *World) isLocationSafe(x, y, safetyRadius float64) bool {
	csx := int(x / SectorSize)
	csy := int(y / SectorSize)
	safeSq := safetyRadius * safetyRadius

	for sy := csy - 1; sy <= csy+1; sy++ {
		for sx := csx - 1; sx <= csx+1; sx++ {
			sec := w.grid.Get(sx, sy)
			if sec == nil {
				continue
			}
			for _, bb := range sec.Snakes {
				other := bb.Snake
				if DistSq(x, y, other.HeadX(), other.HeadY()) < safeSq {
					return false
				}
			}
		}
	}
	return true
}

// CreateSnake places a new snake in the annulus between 1000 and
// game_radius-1500 from center, area-uniform, retrying up to 20 times for a
// spot clear of other heads and accepting the last candidate after that.
// The body walks backward from the head; target_score records the length
// the snake grows toward.
func (w *World) CreateSnake(startLen int) *Snake {
	w.lastSnakeID++

	s := &Snake{
		ID:       w.lastSnakeID,
		Skin:     uint8(9 + w.rng.Intn(13)),
		Speed:    BaseMoveSpeed,
		Fullness: 0,
	}

	const maxSpawnRadius = float64(GameRadius - 1500)
	const safetyBuffer = 500.0

	var x, y, angle float64
	for attempts := 0; attempts < 20; attempts++ {
		angle = TwoPi * w.rng.Float64()
		dist := 1000 + math.Sqrt(w.rng.Float64())*(maxSpawnRadius-1000)
		x = GameRadius + dist*math.Cos(angle)
		y = GameRadius + dist*math.Sin(angle)
		if w.isLocationSafe(x, y, safetyBuffer) {
			break
		}
	}

	// Face the center, plus some noise, so fresh snakes do not drive
	// straight into the wall.
	angle = math.Atan2(GameRadius-y, GameRadius-x) + (w.rng.Float64()*1.5 - 0.75)
	angle = NormalizeAngle(angle)

	length := w.cfg.SnakeMinLength
	if length < 2 {
		length = 2
	}
	intended := startLen
	if intended <= 0 {
		intended = w.cfg.HSnakeStartScore
	}
	if intended < length {
		intended = length
	}
	s.TargetScore = intended

	px, py := x, y
	for i := 0; i < length && i < PartsSkipCount+PartsStartMoveCount; i++ {
		s.Parts = append(s.Parts, Point{X: px, Y: py})
		px -= math.Cos(angle) * MoveStepDistance
		py -= math.Sin(angle) * MoveStepDistance
	}
	for i := PartsSkipCount + PartsStartMoveCount; i < length; i++ {
		s.Parts = append(s.Parts, Point{X: px, Y: py})
		px -= math.Cos(angle) * TailStepDistance
		py -= math.Sin(angle) * TailStepDistance
	}

	s.ClientPartsIndex = len(s.Parts)
	s.Angle = angle
	s.Wangle = angle

	s.SBB = BoundBox{Circle: Circle{X: x, Y: y}, Snake: s}
	s.VP.init(s, x, y)
	s.UpdateBoxCenter()
	s.UpdateBoxRadius()
	s.UpdateSnakeConsts()
	s.InitBoxNewSectors(w.grid)

	return s
}

// CreateSnakeBot spawns a bot snake with a random pool name.
func (w *World) CreateSnakeBot() *Snake {
	s := w.CreateSnake(w.cfg.BSnakeStartScore)
	s.Bot = true
	s.Name = botNames[w.rng.Intn(len(botNames))]
	return s
}

// AddSnake registers a snake in the world map.
func (w *World) AddSnake(s *Snake) {
	w.snakes[s.ID] = s
}

// RemoveSnake drops a snake from the world and unlinks its boxes from every
// sector. Pending change entries for the id are discarded.
func (w *World) RemoveSnake(id uint16) {
	s, ok := w.snakes[id]
	if !ok {
		return
	}

	for i := 0; i < len(w.changes); {
		if w.changes[i].ID == id {
			w.changes = append(w.changes[:i], w.changes[i+1:]...)
			continue
		}
		i++
	}

	s.SBB.Destroy()
	s.VP.Destroy()
	delete(w.snakes, id)
}
