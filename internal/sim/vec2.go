package sim

import "math"

// Vec2 is a 2D vector with fixed-precision arithmetic so that two runs of
// the simulation from the same seed produce bit-identical states.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// fix rounds to 4 decimal places. Every physics quantity passes through
// this so accumulated float noise cannot diverge between runs.
func fix(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	return math.Round(n*10000) / 10000
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: fix(x), Y: fix(y)}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: fix(v.X + o.X), Y: fix(v.Y + o.Y)}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: fix(v.X - o.X), Y: fix(v.Y - o.Y)}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: fix(v.X * s), Y: fix(v.Y * s)}
}

func (v Vec2) Dot(o Vec2) float64 {
	return fix(v.X*o.X + v.Y*o.Y)
}

func (v Vec2) Magnitude() float64 {
	return fix(math.Sqrt(v.X*v.X + v.Y*v.Y))
}

func (v Vec2) MagnitudeSquared() float64 {
	return fix(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) Normalize() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}
	}
	return v.Times(1.0 / m)
}

// Angle returns the direction of v in radians, normalized to [0, 2π).
func (v Vec2) Angle() float64 {
	return wrapAngle(math.Atan2(v.Y, v.X))
}

// Rotate rotates v by the given angle in radians.
func (v Vec2) Rotate(rad float64) Vec2 {
	mag := math.Sqrt(v.X*v.X + v.Y*v.Y)
	newAngle := math.Atan2(v.Y, v.X) + rad
	return Vec2{
		X: fix(mag * math.Cos(newAngle)),
		Y: fix(mag * math.Sin(newAngle)),
	}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// wrapAngle normalizes an angle to [0, 2π).
func wrapAngle(a float64) float64 {
	m := math.Mod(a, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return fix(m)
}

// angleInArc reports whether theta lies within the arc starting at start
// and spanning span radians counter-clockwise, all mod 2π.
func angleInArc(theta, start, span float64) bool {
	return wrapAngle(theta-start) < span
}
