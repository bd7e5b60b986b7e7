// Package math3d provides the vector and matrix primitives used by the
// tinyrender rasterizer.
package math3d

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDivisionByZero is returned when a vector is divided by exactly zero,
	// including normalization of a zero-length vector.
	ErrDivisionByZero = errors.New("math3d: division by zero")

	// ErrIndexOutOfRange is returned when a component index is outside [0,2].
	ErrIndexOutOfRange = errors.New("math3d: index out of range")
)

// Vec3 represents a 3D vector or point.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// At returns component i (0=X, 1=Y, 2=Z).
func (a Vec3) At(i int) (float64, error) {
	switch i {
	case 0:
		return a.X, nil
	case 1:
		return a.Y, nil
	case 2:
		return a.Z, nil
	}
	return 0, fmt.Errorf("%w: %d out of [0,2]", ErrIndexOutOfRange, i)
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// SubScalar subtracts s from every component.
func (a Vec3) SubScalar(s float64) Vec3 {
	return Vec3{a.X - s, a.Y - s, a.Z - s}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Div returns the scalar division a / s.
// Dividing by exactly zero returns ErrDivisionByZero.
func (a Vec3) Div(s float64) (Vec3, error) {
	if s == 0 {
		return Vec3{}, ErrDivisionByZero
	}
	return Vec3{a.X / s, a.Y / s, a.Z / s}, nil
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float64 {
	return math.Sqrt(a.LenSq())
}

// LenSq returns the squared length.
func (a Vec3) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Normalize returns the unit vector in the same direction.
// A zero-length vector has no direction and yields ErrDivisionByZero.
func (a Vec3) Normalize() (Vec3, error) {
	n, err := a.Div(a.Len())
	if err != nil {
		return Vec3{}, fmt.Errorf("normalize %v: %w", a, err)
	}
	return n, nil
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{
		math.Min(a.X, b.X),
		math.Min(a.Y, b.Y),
		math.Min(a.Z, b.Z),
	}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{
		math.Max(a.X, b.X),
		math.Max(a.Y, b.Y),
		math.Max(a.Z, b.Z),
	}
}

// String implements fmt.Stringer.
func (a Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", a.X, a.Y, a.Z)
}
