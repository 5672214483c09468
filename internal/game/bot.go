package game

import "math"

// Bot steering runs every 250 ms off the same spatial index the simulation
// uses: score food in the 5x5 neighborhood, gate boost on fullness and prey
// value, then override with whisker-based collision avoidance.

// TickAI performs one perceive/steer decision for a bot snake.
func (s *Snake) TickAI(g *Grid) {
	s.botFindFood(g)

	targetAng := math.Atan2(s.botTargetY-s.HeadY(), s.botTargetX-s.HeadX())

	// Look ahead four body widths plus a speed factor.
	lookAhead := s.lsz*4 + float64(s.Speed)*0.4
	if avoidAng, hit := s.botCheckCollision(g, lookAhead); hit {
		targetAng = avoidAng
		s.Acceleration = false
	}

	s.Wangle = NormalizeAngle(targetAng)
	s.Update |= ChangeWangle
}

// botFindFood scores every pellet in the 5x5 sector neighborhood around the
// head as size^2 / (dist^2 + 1) and steers toward the best. Pellets inside
// the geometric minimum turn radius that would need more than a 45 degree
// turn are ignored, otherwise the bot orbits prey forever.
func (s *Snake) botFindFood(g *Grid) {
	hx := s.HeadX()
	hy := s.HeadY()

	bestX := float64(GameRadius)
	bestY := float64(GameRadius)
	maxScore := -1.0

	csx := int(hx / SectorSize)
	csy := int(hy / SectorSize)

	turnRadius := float64(s.Speed) * 0.033 / SnakeAngularSpeed
	minSafeDistSq := turnRadius * turnRadius

	for sy := csy - 2; sy <= csy+2; sy++ {
		for sx := csx - 2; sx <= csx+2; sx++ {
			sec := g.Get(sx, sy)
			if sec == nil {
				continue
			}
			for _, f := range sec.Food {
				fx := float64(f.X)
				fy := float64(f.Y)
				distSq := DistSq(hx, hy, fx, fy)

				if distSq < minSafeDistSq {
					angToFood := math.Atan2(fy-hy, fx-hx)
					if math.Abs(NormalizeAngle(angToFood-s.Angle)) > Pi/4 {
						continue
					}
				}

				score := float64(f.Size) * float64(f.Size) / (distSq + 1)
				if score > maxScore {
					maxScore = score
					bestX = fx
					bestY = fy
				}
			}
		}
	}

	s.botTargetX = bestX
	s.botTargetY = bestY

	// Boost only when fed and the prey is worth the burn.
	s.Acceleration = s.Fullness > 30 && maxScore > 0.05
}

// botCheckCollision projects a whisker point ahead of the head and scans the
// 3x3 neighborhood around it for other snakes' bodies and the arena edge.
// On a hit it returns the angle to steer toward.
func (s *Snake) botCheckCollision(g *Grid, lookAhead float64) (avoidAng float64, hit bool) {
	hx := s.HeadX()
	hy := s.HeadY()

	wx := hx + math.Cos(s.Angle)*lookAhead
	wy := hy + math.Sin(s.Angle)*lookAhead

	const gr = float64(GameRadius)
	if DistSq(wx, wy, gr, gr) >= DeathRadius*DeathRadius {
		return math.Atan2(gr-hy, gr-hx), true
	}

	wsx := int(wx / SectorSize)
	wsy := int(wy / SectorSize)

	for sy := wsy - 1; sy <= wsy+1; sy++ {
		for sx := wsx - 1; sx <= wsx+1; sx++ {
			sec := g.Get(sx, sy)
			if sec == nil {
				continue
			}
			for _, bb := range sec.Snakes {
				other := bb.Snake
				if other == s {
					continue
				}

				if math.Abs(wx-other.SBB.X) > other.SBB.R+50 ||
					math.Abs(wy-other.SBB.Y) > other.SBB.R+50 {
					continue
				}

				collisionDist := s.sbpr + other.sbpr + 40
				collisionDistSq := collisionDist * collisionDist

				for _, b := range other.Parts {
					if DistSq(wx, wy, b.X, b.Y) >= collisionDistSq {
						continue
					}

					angToObs := math.Atan2(b.Y-hy, b.X-hx)
					relAng := NormalizeAngle(angToObs - s.Angle)

					// Obstacle on the left turns us right and vice versa.
					if relAng > 0 && relAng < Pi {
						return s.Angle - Pi/1.5, true
					}
					return s.Angle + Pi/1.5, true
				}
			}
		}
	}

	return 0, false
}
