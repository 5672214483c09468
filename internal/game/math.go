package game

import "math"

const (
	Pi    = math.Pi
	TwoPi = 2 * math.Pi
)

// Point is a 2D world coordinate.
type Point struct {
	X float64
	Y float64
}

// NormalizeAngle folds any angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	return a - TwoPi*math.Floor(a/TwoPi)
}

// DistSq returns the squared distance between two points.
func DistSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// CheckIntersection reports whether segment ab crosses segment cd, treating
// both as closed segments. Near-parallel pairs (determinant within 1e-4)
// and colinear overlap report false. This is the anti-tunneling test: the
// collision pass runs it with ab = the head's swept segment.
func CheckIntersection(ax, ay, bx, by, cx, cy, dx, dy float64) bool {
	aa2 := by - ay
	bb2 := ax - bx
	cc2 := aa2*ax + bb2*ay

	aa1 := cy - dy
	bb1 := dx - cx
	cc1 := aa1*dx + bb1*dy

	det := aa1*bb2 - aa2*bb1
	if math.Abs(det) < 1e-4 {
		return false
	}

	isx := (bb2*cc1 - bb1*cc2) / det
	isy := (aa1*cc2 - aa2*cc1) / det

	if isx < math.Min(ax, bx) || isx > math.Max(ax, bx) ||
		isy < math.Min(ay, by) || isy > math.Max(ay, by) {
		return false
	}
	if isx < math.Min(cx, dx) || isx > math.Max(cx, dx) ||
		isy < math.Min(cy, dy) || isy > math.Max(cy, dy) {
		return false
	}
	return true
}
