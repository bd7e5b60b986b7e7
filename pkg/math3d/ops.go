package math3d

import "math"

// Outside is the barycentric coordinate returned for triangles too thin to
// resolve. Its negative first weight fails every inside test.
var Outside = Vec3{-1, 1, 1}

// Cross returns the cross product a × b.
func Cross(a, b Vec3) Vec3 {
	return a.Cross(b)
}

// Dot returns the dot product a · b.
func Dot(a, b Vec3) float64 {
	return a.Dot(b)
}

// Barycentric returns the weights (w0, w1, w2) of p relative to the
// screen-space triangle tri. Only the X and Y components take part.
//
// When the doubled triangle area is below one pixel the normal is not
// reliable and Outside is returned, so degenerate triangles cover nothing.
func Barycentric(tri [3]Vec3, p Vec3) Vec3 {
	n := Cross(
		Vec3{tri[2].X - tri[0].X, tri[1].X - tri[0].X, tri[0].X - p.X},
		Vec3{tri[2].Y - tri[0].Y, tri[1].Y - tri[0].Y, tri[0].Y - p.Y},
	)
	if math.Abs(n.Z) < 1 {
		return Outside
	}
	u := n.X / n.Z
	v := n.Y / n.Z
	return Vec3{1 - (u + v), v, u}
}

// Inside reports whether every barycentric weight is non-negative.
func Inside(bc Vec3) bool {
	return bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0
}
