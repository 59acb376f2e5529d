package entity

import "math"

// NormalizeAngle maps an angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a == 0 {
		return 0
	}
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a -= 360
	}
	return a
}

// CCWSweep returns the counter-clockwise angle from start to end in
// degrees, in (0, 360]. Equal angles are a full turn.
func CCWSweep(start, end float64) float64 {
	sweep := NormalizeAngle(end - start)
	if sweep == 0 {
		return 360
	}
	return sweep
}

// Polar returns the point at distance r from center in direction deg.
func Polar(center Point, r, deg float64) Point {
	rad := deg * math.Pi / 180
	return Point{
		X: center.X + r*math.Cos(rad),
		Y: center.Y + r*math.Sin(rad),
		Z: center.Z,
	}
}

// Sweep is the counter-clockwise extent of the arc in degrees.
func (a Arc) Sweep() float64 {
	return CCWSweep(a.StartAngle, a.EndAngle)
}

// AngleAt returns the angle reached after travelling fraction t (0..1) of the
// sweep counter-clockwise from StartAngle.
func (a Arc) AngleAt(t float64) float64 {
	return NormalizeAngle(a.StartAngle + t*a.Sweep())
}

// PointAt returns the point reached after travelling fraction t of the arc.
func (a Arc) PointAt(t float64) Point {
	return Polar(a.Center, a.Radius, a.AngleAt(t))
}

// Covers reports whether the direction deg lies on the arc's CCW path.
func (a Arc) Covers(deg float64) bool {
	offset := NormalizeAngle(deg - a.StartAngle)
	return offset <= a.Sweep()
}

// Measured is the angle the dimension reports, in degrees.
func (d AngularDimension) Measured() float64 {
	return CCWSweep(d.StartAngle, d.EndAngle)
}

// Arc returns the measured arc at the dimension's radius.
func (d AngularDimension) Arc() Arc {
	return Arc{Center: d.Center, Radius: d.Radius, StartAngle: d.StartAngle, EndAngle: d.EndAngle}
}
