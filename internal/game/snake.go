package game

import "math"

// DirtyFlag marks which snake attributes changed since the last broadcast
// pass. The broadcast layer clears only the bits it handled.
type DirtyFlag uint8

const (
	ChangePos DirtyFlag = 1 << iota
	ChangeAngle
	ChangeWangle
	ChangeSpeed
	ChangeFullness
	ChangeDying
	ChangeDead
)

// Snake is one live body in the world, player or bot driven. The world owns
// the snake; the snake owns its parts, caches and event buffers.
type Snake struct {
	ID             uint16
	Skin           uint8
	Name           string
	CustomSkinData []byte
	Bot            bool

	Update       DirtyFlag
	Acceleration bool

	Speed    int
	Angle    float64
	Wangle   float64
	Fullness int

	// Length the snake animates toward after spawn; also the boost floor.
	TargetScore int

	SBB BoundBox
	VP  ViewPort

	// Parts[0] is the head.
	Parts []Point

	// Food consumed this tick and food emitted this tick by shrink/death,
	// drained by the broadcast pass.
	Eaten []Food
	Spawn []Food

	// Length the subscribed clients currently believe the snake has.
	ClientPartsIndex int

	// Snake whose body this snake died on, 0 for wall deaths.
	KilledBy uint16

	movTicks int64
	rotTicks int64
	aiTicks  int64

	botTargetX float64
	botTargetY float64

	// Derived caches, recomputed on every length change.
	sc    float64
	sc13  float64
	lsz   float64
	sbpr  float64
	gsc   float64
	scang float64
	ssp   float64
	fsp   float64
}

// Head returns the head body point.
func (s *Snake) Head() Point { return s.Parts[0] }

// HeadX returns the head x coordinate.
func (s *Snake) HeadX() float64 { return s.Parts[0].X }

// HeadY returns the head y coordinate.
func (s *Snake) HeadY() float64 { return s.Parts[0].Y }

// BodyWidth returns lsz, the snake's body width in world units.
func (s *Snake) BodyWidth() float64 { return s.lsz }

// BodyPartRadius returns half the body width, the per-part collision radius.
func (s *Snake) BodyPartRadius() float64 { return s.sbpr }

// RenderScale returns gsc, the client render scale hint.
func (s *Snake) RenderScale() float64 { return s.gsc }

func (s *Snake) boostThreshold() int {
	if s.TargetScore > 0 {
		return s.TargetScore
	}
	return 10
}

// Tick advances the snake by dt milliseconds: AI decision for bots, rotation
// toward the wanted angle, movement with tail follow, eating, acceleration.
// Returns true when any dirty flag was raised.
func (s *Snake) Tick(dt int64, g *Grid, cfg *Config) bool {
	if s.Update&(ChangeDying|ChangeDead) != 0 {
		return false
	}

	var changes DirtyFlag

	if s.Bot {
		s.aiTicks += dt
		if s.aiTicks > AIStepIntervalMs {
			frames := s.aiTicks / AIStepIntervalMs
			s.TickAI(g)
			s.aiTicks -= frames * AIStepIntervalMs
		}
	}

	if s.Angle != s.Wangle {
		s.rotTicks += dt
		if s.rotTicks >= RotStepIntervalMs {
			frames := s.rotTicks / RotStepIntervalMs
			framesTicks := frames * RotStepIntervalMs
			rotation := SnakeAngularSpeed * float64(framesTicks) / 1000.0

			dAngle := NormalizeAngle(s.Wangle - s.Angle)
			if dAngle > Pi {
				dAngle -= TwoPi
			}

			if math.Abs(dAngle) < rotation {
				s.Angle = s.Wangle
			} else if dAngle > 0 {
				s.Angle += rotation
			} else {
				s.Angle -= rotation
			}
			s.Angle = NormalizeAngle(s.Angle)

			changes |= ChangeAngle
			s.rotTicks -= framesTicks
		}
	}

	s.movTicks += dt
	movInterval := int64(1000 * MoveStepDistance / s.Speed)
	if s.movTicks >= movInterval {
		frames := s.movTicks / movInterval
		framesTicks := frames * movInterval
		moveDist := float64(s.Speed) * float64(framesTicks) / 1000.0

		s.moveParts(g, moveDist)
		changes |= ChangePos

		s.updateEatenFood(g)

		// Spawn growth: animate toward the intended length one part per
		// movement step.
		if len(s.Parts) < s.TargetScore && len(s.Parts) < MaxSnakeParts {
			s.Parts = append(s.Parts, s.Parts[len(s.Parts)-1])
			s.UpdateSnakeConsts()
		}

		if s.Acceleration {
			if len(s.Parts) <= s.boostThreshold() && s.Fullness == 0 {
				s.Acceleration = false
			} else {
				s.DecreaseSnake(cfg.BoostCost, cfg.BoostDropSize)
			}
		}

		wanted := BaseMoveSpeed
		if s.Acceleration {
			wanted = BoostSpeed
		}
		if s.Speed != wanted {
			acc := int(SpeedAcceleration * framesTicks / 1000)
			diff := wanted - s.Speed
			if diff < 0 {
				diff = -diff
			}
			if diff <= acc {
				s.Speed = wanted
			} else if wanted > s.Speed {
				s.Speed += acc
			} else {
				s.Speed -= acc
			}
			changes |= ChangeSpeed
		}

		s.movTicks -= framesTicks
	}

	if changes != 0 {
		s.Update |= changes
		return true
	}
	return false
}

// moveParts advances the head by moveDist along the current angle and pulls
// the body behind it: the first parts_skip_count parts shift straight, the
// next parts_start_move_count interpolate with a ramping coefficient, the
// remaining tail follows at snake_tail_k. Sector membership is refreshed
// from the head plus sampled tail points.
func (s *Snake) moveParts(g *Grid, moveDist float64) {
	length := len(s.Parts)

	prev := s.Parts[0]
	s.Parts[0].X += math.Cos(s.Angle) * moveDist
	s.Parts[0].Y += math.Sin(s.Angle) * moveDist
	head := s.Parts[0]

	s.SBB.UpdateNewSectors(g, SectorSize/2, head.X, head.Y)
	if !s.Bot {
		s.VP.Update(g, head.X, head.Y)
	}

	bbx, bby := head.X, head.Y

	for i := 1; i < length && i < PartsSkipCount; i++ {
		old := s.Parts[i]
		s.Parts[i] = prev
		bbx += prev.X
		bby += prev.Y
		prev = old
	}

	j := 0
	for i := PartsSkipCount; i < length && i < PartsSkipCount+PartsStartMoveCount; i++ {
		last := s.Parts[i-1]
		old := s.Parts[i]

		pt := prev
		j++
		k := SnakeTailK * float64(j) / PartsStartMoveCount
		pt.X += k * (last.X - pt.X)
		pt.Y += k * (last.Y - pt.Y)
		s.Parts[i] = pt

		bbx += pt.X
		bby += pt.Y
		prev = old
	}

	const tailStep = SectorSize / int(TailStepDistance)
	sampled := PartsSkipCount + PartsStartMoveCount
	for i := PartsSkipCount + PartsStartMoveCount; i < length; i++ {
		last := s.Parts[i-1]
		old := s.Parts[i]

		pt := prev
		pt.X += SnakeTailK * (last.X - pt.X)
		pt.Y += SnakeTailK * (last.Y - pt.Y)
		s.Parts[i] = pt

		if i-sampled >= tailStep || i == length-1 {
			s.SBB.UpdateNewSectors(g, SectorSize/2, pt.X, pt.Y)
			sampled = i
		}

		bbx += pt.X
		bby += pt.Y
		prev = old
	}

	s.SBB.X = bbx / float64(length)
	s.SBB.Y = bby / float64(length)
	s.VP.X = head.X
	s.VP.Y = head.Y
	s.UpdateBoxRadius()
	s.SBB.UpdateOldSectors()
	if !s.Bot {
		s.VP.UpdateOldSectors()
	}
}

// updateEatenFood projects the mouth ahead of the head and consumes every
// pellet within the eat radius in the surrounding 3x3 sectors.
func (s *Snake) updateEatenFood(g *Grid) {
	head := s.Parts[0]

	clientSpeed := float64(s.Speed) / 32.0
	distOffset := (0.36*s.lsz + 31.0) * (clientSpeed / Spangdv)
	mouthX := head.X + math.Cos(s.Angle)*distOffset
	mouthY := head.Y + math.Sin(s.Angle)*distOffset

	eatDistSq := 2000.0 * s.sc13
	searchR := math.Sqrt(eatDistSq) + 40.0

	csx := int(mouthX / SectorSize)
	csy := int(mouthY / SectorSize)

	for sy := csy - 1; sy <= csy+1; sy++ {
		for sx := csx - 1; sx <= csx+1; sx++ {
			sec := g.Get(sx, sy)
			if sec == nil {
				continue
			}
			for i := 0; i < len(sec.Food); {
				f := sec.Food[i]
				if math.Abs(float64(f.X)-mouthX) < searchR &&
					math.Abs(float64(f.Y)-mouthY) < searchR &&
					DistSq(float64(f.X), float64(f.Y), mouthX, mouthY) < eatDistSq {
					s.onFoodEaten(f)
					sec.RemoveFoodAt(i)
					continue
				}
				i++
			}
		}
	}
}

func (s *Snake) onFoodEaten(f Food) {
	s.IncreaseSnake(int(f.Size))
	s.Eaten = append(s.Eaten, f)
}

// IncreaseSnake adds volume to fullness; every full 100 converts into one
// tail part.
func (s *Snake) IncreaseSnake(volume int) {
	s.Fullness += volume
	for s.Fullness >= 100 {
		s.Fullness -= 100
		s.Parts = append(s.Parts, s.Parts[len(s.Parts)-1])
	}
	s.Update |= ChangeFullness
	s.UpdateSnakeConsts()
}

// DecreaseSnake removes volume, popping tail parts once fullness is spent
// and dropping a pellet of dropSize at each popped position. The snake never
// shrinks below its boost threshold.
func (s *Snake) DecreaseSnake(volume int, dropSize uint8) {
	if volume > s.Fullness {
		volume -= s.Fullness
		reduce := 1 + volume/100
		for i := 0; i < reduce; i++ {
			if len(s.Parts) <= PartsSkipCount {
				break
			}
			last := s.Parts[len(s.Parts)-1]
			if last.X >= 0 && last.Y >= 0 {
				s.spawnFood(Food{
					X:     uint16(last.X),
					Y:     uint16(last.Y),
					Size:  dropSize,
					Color: s.Skin,
				})
			}
			s.Parts = s.Parts[:len(s.Parts)-1]
			if len(s.Parts) <= s.boostThreshold() {
				break
			}
		}
		s.Fullness = (100 - volume%100) % 100
	} else {
		s.Fullness -= volume
	}
	s.Update |= ChangeFullness
	s.UpdateSnakeConsts()
}

// spawnFood inserts a dropped pellet into its sector, provided the snake's
// box currently covers it, and records it for broadcast.
func (s *Snake) spawnFood(f Food) {
	sx := int(f.X) / SectorSize
	sy := int(f.Y) / SectorSize
	for _, sec := range s.SBB.Sectors {
		if sec.X == sx && sec.Y == sy {
			sec.Insert(f)
			s.Spawn = append(s.Spawn, f)
			return
		}
	}
}

// DeadFoodSpawn bursts the dying snake's body into food: 2*sc pellets per
// part, scattered within three body radii, pushed onto the spawn buffer.
// NaN or out-of-range coordinates are skipped rather than corrupting the
// grid.
func (s *Snake) DeadFoodSpawn(g *Grid, randf func() float64) {
	r := s.sbpr
	scatter := r * 3
	count := int(s.sc * 2)
	if count < 1 {
		count = 1
	}
	foodSize := uint8(100 / count)

	for _, p := range s.Parts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || p.X < 0 || p.Y < 0 {
			continue
		}
		sec := g.Get(int(p.X)/SectorSize, int(p.Y)/SectorSize)
		if sec == nil {
			continue
		}
		for j := 0; j < count; j++ {
			fx := p.X + r - randf()*scatter
			fy := p.Y + r - randf()*scatter
			if fx < 0 || fy < 0 || fx >= GameRadius*2 || fy >= GameRadius*2 {
				continue
			}
			f := Food{
				X:     uint16(fx),
				Y:     uint16(fy),
				Size:  foodSize,
				Color: uint8(29 * randf()),
			}
			sec.Insert(f)
			s.Spawn = append(s.Spawn, f)
		}
	}
}

// UpdateSnakeConsts recomputes the derived caches from the current length.
func (s *Snake) UpdateSnakeConsts() {
	sct := float64(len(s.Parts))

	s.sc = math.Min(6, 1+(sct-2)/106)
	s.sc13 = math.Pow(s.sc, 1.3)
	s.lsz = 29 * s.sc
	s.sbpr = s.lsz / 2
	s.gsc = 0.5 + 0.4/math.Max(1, (sct+16)/36)

	scangX := (7 - s.sc) / 6
	s.scang = 0.13 + 0.87*scangX*scangX
	s.ssp = Nsp1 + Nsp2*s.sc
	s.fsp = s.ssp + 0.1
}

// UpdateBoxCenter sets the bound box center to the body's arithmetic mean
// and recenters the viewport on the head.
func (s *Snake) UpdateBoxCenter() {
	var x, y float64
	for _, p := range s.Parts {
		x += p.X
		y += p.Y
	}
	n := float64(len(s.Parts))
	s.SBB.X = x / n
	s.SBB.Y = y / n
	s.VP.X = s.HeadX()
	s.VP.Y = s.HeadY()
}

// UpdateBoxRadius approximates the chain length in closed form: the first
// seven inter-part distances for the smoothed head region, then one tail
// step per remaining part, plus one movement step of lookahead, halved.
func (s *Snake) UpdateBoxRadius() {
	d := 42.0 + 42.0 + 42.0 + 37.7 + 37.7 + 33.0 + 28.5
	if len(s.Parts) > 8 {
		d += TailStepDistance * float64(len(s.Parts)-8)
	}
	s.SBB.R = (d + MoveStepDistance) / 2
	s.VP.R = SectorDiagSize * 3
}

// InitBoxNewSectors seeds sector membership for a freshly placed body.
func (s *Snake) InitBoxNewSectors(g *Grid) {
	head := s.Parts[0]
	s.SBB.UpdateNewSectors(g, SectorSize/2, head.X, head.Y)
	if !s.Bot {
		s.VP.Update(g, head.X, head.Y)
	}

	const tailStep = SectorSize / int(TailStepDistance)
	for i := PartsSkipCount; i < len(s.Parts); i += tailStep {
		pt := s.Parts[i]
		s.SBB.UpdateNewSectors(g, SectorSize/2, pt.X, pt.Y)
	}
}

// Score is the protocol-defined leaderboard score, a function of length and
// fullness. During the spawn animation the intended length is used so the
// board does not dip.
func (s *Snake) Score() uint16 {
	sct := len(s.Parts)
	if s.TargetScore > 0 && sct < s.TargetScore {
		sct = s.TargetScore
	}
	if sct >= MaxSnakeParts {
		sct = MaxSnakeParts - 1
	}
	v := 15*(fpsls[sct]+(float64(s.Fullness)/100)/fmlts[sct]-1) - 5
	if v < 0 {
		return 0
	}
	return uint16(v)
}

var (
	fmlts [MaxSnakeParts]float64
	fpsls [MaxSnakeParts]float64
)

func init() {
	for i := range fmlts {
		fmlts[i] = math.Pow(1-float64(i)/MaxSnakeParts, 2.25)
	}
	for i := 1; i < len(fpsls); i++ {
		fpsls[i] = fpsls[i-1] + 1/fmlts[i-1]
	}
}
