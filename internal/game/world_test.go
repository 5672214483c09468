package game

import (
	"math"
	"math/rand"
	"testing"
)

func testConfig() Config {
	return Config{
		HSnakeStartScore: 10,
		BSnakeStartScore: 10,
		SnakeMinLength:   2,
		// No food regeneration so scenarios control the pellets.
		FoodSpawnRate:      0,
		SpawnProbNearSnake: 25,
		SpawnProbOnSnake:   25,
		SpawnProbRandom:    50,
		BoostCost:          10,
		BoostDropSize:      2,
	}
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	return NewWorld(testConfig(), rand.New(rand.NewSource(1)))
}

// clearFood empties every sector so tests place their own pellets.
func clearFood(w *World) {
	for i := 0; i < w.grid.Len(); i++ {
		w.grid.At(i).Food = nil
	}
}

// placeSnake builds a snake at an exact pose: head at (x, y), body walking
// straight back at movement-step spacing.
func placeSnake(w *World, x, y, angle float64, length int) *Snake {
	w.lastSnakeID++
	s := &Snake{
		ID:          w.lastSnakeID,
		Speed:       BaseMoveSpeed,
		Angle:       angle,
		Wangle:      angle,
		TargetScore: length,
	}

	px, py := x, y
	for i := 0; i < length; i++ {
		s.Parts = append(s.Parts, Point{X: px, Y: py})
		px -= math.Cos(angle) * MoveStepDistance
		py -= math.Sin(angle) * MoveStepDistance
	}
	s.ClientPartsIndex = length

	s.SBB = BoundBox{Circle: Circle{X: x, Y: y}, Snake: s}
	s.VP.init(s, x, y)
	s.UpdateBoxCenter()
	s.UpdateBoxRadius()
	s.UpdateSnakeConsts()
	s.InitBoxNewSectors(w.grid)
	s.VP.Flush()

	w.AddSnake(s)
	return s
}

func TestHeadOnCollision(t *testing.T) {
	w := newTestWorld(t)
	clearFood(w)

	a := placeSnake(w, 10000, 10000, 0, 5)
	b := placeSnake(w, 10100, 10000, math.Pi, 5)

	for i := 0; i < 100; i++ {
		w.Tick(10)
		if (a.Update|b.Update)&ChangeDying != 0 {
			break
		}
	}

	// The geometry is symmetric, so whichever snake the collision pass
	// visits first dies; the other is shielded by the dying check.
	aDying := a.Update&ChangeDying != 0
	bDying := b.Update&ChangeDying != 0
	if aDying == bDying {
		t.Fatalf("want exactly one snake dying, got a=%v b=%v", aDying, bDying)
	}
}

func TestHeadIntoSideKillsAttacker(t *testing.T) {
	w := newTestWorld(t)
	clearFood(w)

	// B crosses A's path moving away; only A's head ever reaches a body.
	a := placeSnake(w, 10000, 10000, 0, 5)
	b := placeSnake(w, 10100, 10000, Pi/2, 8)

	for i := 0; i < 100; i++ {
		w.Tick(10)
		if a.Update&ChangeDying != 0 {
			break
		}
	}

	if a.Update&ChangeDying == 0 {
		t.Fatal("snake A never marked dying after driving into B's body")
	}
	if a.KilledBy != b.ID {
		t.Errorf("KilledBy = %d, want %d", a.KilledBy, b.ID)
	}
	if b.Update&ChangeDying != 0 {
		t.Error("snake B marked dying from A's collision")
	}
}

func TestWallDeath(t *testing.T) {
	w := newTestWorld(t)
	clearFood(w)

	s := placeSnake(w, GameRadius+DeathRadius-10, GameRadius, 0, 5)

	// One movement step is enough to push the head tip past the death
	// radius.
	w.Tick(250)

	if s.Update&ChangeDying == 0 {
		t.Fatal("snake not dying after crossing the death radius")
	}
	if s.KilledBy != 0 {
		t.Errorf("wall death recorded killer %d, want 0", s.KilledBy)
	}
}

func TestDeadFoodBurst(t *testing.T) {
	w := newTestWorld(t)
	clearFood(w)

	s := placeSnake(w, 10000, 10000, 0, 10)
	s.DeadFoodSpawn(w.grid, w.Randf)

	perPart := int(2 * s.sc)
	if perPart < 1 {
		perPart = 1
	}
	want := perPart * len(s.Parts)
	if len(s.Spawn) != want {
		t.Errorf("death burst emitted %d pellets, want %d", len(s.Spawn), want)
	}

	for _, f := range s.Spawn {
		d := math.Sqrt(DistSq(float64(f.X), float64(f.Y), s.SBB.X, s.SBB.Y))
		if d > s.SBB.R+3*s.sbpr+1 {
			t.Errorf("pellet at (%d,%d) far outside the body, dist %f", f.X, f.Y, d)
		}
		if f.Color >= 29 {
			t.Errorf("pellet color %d out of range", f.Color)
		}
	}
}

func TestRemoveSnakeUnlinksSectors(t *testing.T) {
	w := newTestWorld(t)
	s := placeSnake(w, 10000, 10000, 0, 10)
	id := s.ID

	if len(s.SBB.Sectors) == 0 {
		t.Fatal("snake has no sector membership after placement")
	}
	secs := append([]*Sector(nil), s.SBB.Sectors...)

	w.RemoveSnake(id)

	if w.GetSnake(id) != nil {
		t.Fatal("snake still in world after RemoveSnake")
	}
	for _, sec := range secs {
		for _, bb := range sec.Snakes {
			if bb.Snake == s {
				t.Fatalf("sector (%d,%d) still references removed snake", sec.X, sec.Y)
			}
		}
	}
}

func TestSpawnPlacementInsideArena(t *testing.T) {
	w := newTestWorld(t)

	for i := 0; i < 20; i++ {
		s := w.CreateSnake(0)
		d := math.Sqrt(DistSq(s.HeadX(), s.HeadY(), GameRadius, GameRadius))
		if d > GameRadius-1500+1 {
			t.Errorf("spawn %d at dist %.0f from center, outside the annulus", i, d)
		}
		if len(s.Parts) != 2 {
			t.Errorf("spawn %d has %d parts, want snake_min_length 2", i, len(s.Parts))
		}
		if s.TargetScore != 10 {
			t.Errorf("spawn %d target score %d, want 10", i, s.TargetScore)
		}
		w.AddSnake(s)
	}
}

func TestFoodRegenerationRespectsPlayableDisk(t *testing.T) {
	cfg := testConfig()
	cfg.FoodSpawnRate = 50
	w := NewWorld(cfg, rand.New(rand.NewSource(7)))
	clearFood(w)
	placeSnake(w, 10000, 10000, 0, 5)

	for i := 0; i < 100; i++ {
		w.regenerateFood()
	}

	const edge = float64(GameRadius - 500)
	total := 0
	for i := 0; i < w.grid.Len(); i++ {
		for _, f := range w.grid.At(i).Food {
			total++
			if DistSq(float64(f.X), float64(f.Y), GameRadius, GameRadius) > edge*edge {
				t.Errorf("pellet (%d,%d) outside the playable disk", f.X, f.Y)
			}
			if f.Size < 1 || f.Size > 5 {
				t.Errorf("pellet size %d out of range", f.Size)
			}
		}
	}
	if total == 0 {
		t.Error("no food regenerated")
	}
}
