package game

import (
	"testing"
)

func TestEatFood(t *testing.T) {
	w := newTestWorld(t)
	clearFood(w)

	s := placeSnake(w, 10000, 10000, 0, 2)

	f := Food{X: 10050, Y: 10000, Size: 5, Color: 3}
	sec := w.grid.Get(int(f.X)/SectorSize, int(f.Y)/SectorSize)
	sec.Insert(f)

	// One movement step puts the mouth on top of the pellet.
	w.Tick(250)

	if len(s.Eaten) != 1 {
		t.Fatalf("eaten = %d pellets, want 1", len(s.Eaten))
	}
	if s.Eaten[0] != f {
		t.Errorf("eaten pellet %+v, want %+v", s.Eaten[0], f)
	}
	if s.Fullness != 5 {
		t.Errorf("fullness = %d, want 5", s.Fullness)
	}
	for _, left := range sec.Food {
		if left == f {
			t.Error("pellet still in sector food list after being eaten")
		}
	}
}

func TestBoostDropsTail(t *testing.T) {
	w := newTestWorld(t)
	clearFood(w)

	s := placeSnake(w, 10000, 10000, 0, 50)
	s.TargetScore = 10 // grown past its spawn target
	s.Fullness = 0
	s.Acceleration = true

	preTail := s.Parts[len(s.Parts)-1]

	w.Tick(250)

	if len(s.Parts) != 49 {
		t.Fatalf("parts = %d after one boost step, want 49", len(s.Parts))
	}
	if len(s.Spawn) != 1 {
		t.Fatalf("spawn buffer has %d pellets, want 1", len(s.Spawn))
	}
	drop := s.Spawn[0]
	if drop.Size != w.cfg.BoostDropSize {
		t.Errorf("drop size %d, want %d", drop.Size, w.cfg.BoostDropSize)
	}
	// The pellet lands at the popped tail position, which by then has
	// followed the body one step.
	if DistSq(float64(drop.X), float64(drop.Y), preTail.X, preTail.Y) > 50*50 {
		t.Errorf("drop at (%d,%d), far from pre-step tail (%.0f,%.0f)",
			drop.X, drop.Y, preTail.X, preTail.Y)
	}
	if s.Speed <= BaseMoveSpeed {
		t.Errorf("speed = %d, want trending above base %d", s.Speed, BaseMoveSpeed)
	}
}

func TestBoostRefusedAtMinimum(t *testing.T) {
	w := newTestWorld(t)
	clearFood(w)

	s := placeSnake(w, 10000, 10000, 0, 10)
	s.Fullness = 0
	s.Acceleration = true

	w.Tick(250)

	if s.Acceleration {
		t.Error("acceleration stayed on at the boost floor with zero fullness")
	}
	if len(s.Parts) != 10 {
		t.Errorf("parts = %d, want 10 (no shrink below the floor)", len(s.Parts))
	}
}

func TestFullnessStaysInRange(t *testing.T) {
	w := newTestWorld(t)
	clearFood(w)

	s := placeSnake(w, 10000, 10000, 0, 30)
	s.TargetScore = 10
	s.Acceleration = true

	for i := 0; i < 400; i++ {
		w.Tick(10)
		if s.Fullness < 0 || s.Fullness > 99 {
			t.Fatalf("fullness = %d after tick %d, outside [0,99]", s.Fullness, i)
		}
		if len(s.Parts) < 2 {
			t.Fatalf("parts = %d after tick %d, below minimum", len(s.Parts), i)
		}
	}
}

func TestIncreaseSnakeConvertsFullness(t *testing.T) {
	w := newTestWorld(t)
	s := placeSnake(w, 10000, 10000, 0, 5)

	s.IncreaseSnake(250)

	if len(s.Parts) != 7 {
		t.Errorf("parts = %d after +250 volume, want 7", len(s.Parts))
	}
	if s.Fullness != 50 {
		t.Errorf("fullness = %d, want 50", s.Fullness)
	}
}

func TestSpawnGrowthAnimation(t *testing.T) {
	w := newTestWorld(t)
	clearFood(w)

	s := placeSnake(w, 10000, 10000, 0, 2)
	s.TargetScore = 10

	start := len(s.Parts)
	w.Tick(250)

	if len(s.Parts) != start+1 {
		t.Errorf("parts = %d after one step, want %d (one growth per step)",
			len(s.Parts), start+1)
	}

	for i := 0; i < 40; i++ {
		w.Tick(250)
	}
	if len(s.Parts) != s.TargetScore {
		t.Errorf("parts = %d after growth, want target %d", len(s.Parts), s.TargetScore)
	}
}

func TestScoreOrdering(t *testing.T) {
	w := newTestWorld(t)

	short := placeSnake(w, 8000, 8000, 0, 5)
	fed := placeSnake(w, 9000, 9000, 0, 5)
	fed.Fullness = 50
	long := placeSnake(w, 11000, 11000, 0, 10)

	if !(long.Score() > fed.Score()) {
		t.Errorf("Score: length 10 (%d) should beat length 5 fullness 50 (%d)",
			long.Score(), fed.Score())
	}
	if !(fed.Score() > short.Score()) {
		t.Errorf("Score: fullness 50 (%d) should beat fullness 0 (%d) at equal length",
			fed.Score(), short.Score())
	}
}

func TestBoundingRadiusGrowsWithLength(t *testing.T) {
	w := newTestWorld(t)

	small := placeSnake(w, 8000, 8000, 0, 5)
	big := placeSnake(w, 12000, 12000, 0, 100)

	if big.SBB.R <= small.SBB.R {
		t.Errorf("bounding radius %f for length 100 not above %f for length 5",
			big.SBB.R, small.SBB.R)
	}
}
