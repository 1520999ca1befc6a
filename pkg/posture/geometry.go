package posture

import "math"

// Angle returns the unsigned angle in degrees at vertex b between the rays
// b->a and b->c. Only the image-plane components are used, so the result is
// always within [0, 180]. A ray of zero length has no direction, so an outer
// point sitting on the vertex yields 0.
func Angle(a, b, c Landmark) float64 {
	if samePlanePoint(a, b) || samePlanePoint(c, b) {
		return 0
	}

	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	angle := math.Abs(radians * 180.0 / math.Pi)

	if angle > 180.0 {
		angle = 360 - angle
	}

	return angle
}

func Midpoint(a, b Landmark) Landmark {
	return Landmark{
		X: (a.X + b.X) / 2,
		Y: (a.Y + b.Y) / 2,
		Z: (a.Z + b.Z) / 2,
	}
}

// above returns a point offset units higher in the image. Image y grows
// downward.
func above(p Landmark, offset float64) Landmark {
	return Landmark{X: p.X, Y: p.Y - offset, Z: p.Z}
}

func samePlanePoint(p, q Landmark) bool {
	return p.X == q.X && p.Y == q.Y
}
