package game

// Arena geometry. The playable region is the open disk of radius
// GameRadius - SectorSize centered at (GameRadius, GameRadius).
const (
	GameRadius    = 21600
	MaxSnakeParts = 411

	// 90 x 480 = 21600 radius * 2 width, the standard grid.
	SectorSize           = 480
	SectorCountAlongEdge = 90
	SectorDiagSize       = 680 // sqrt(480^2 + 480^2)

	DeathRadius = GameRadius - SectorSize

	MoveStepDistance = 42
	FrameTimeMs      = 8

	ProtocolVersion = 14
)

// Snake physics constants, matching what the init packet advertises to
// clients so both sides integrate the same curves.
const (
	Spangdv = 4.8
	Nsp1    = 5.39
	Nsp2    = 0.4
	Nsp3    = 14.0

	BaseMoveSpeed     = 172
	BoostSpeed        = 448
	SpeedAcceleration = 1000

	SnakeAngularSpeed = 4.125
	PreyAngularSpeed  = 3.625
	SnakeTailK        = 0.43

	PartsSkipCount      = 3
	PartsStartMoveCount = 4
	TailStepDistance    = 24.0

	// One rotation step covers the angle swept over one movement step at
	// full boost, so the interval is the boost-speed step time.
	RotStepIntervalMs int64 = 1000 * MoveStepDistance / BoostSpeed

	AIStepIntervalMs = 250
)
