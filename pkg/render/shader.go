package render

import (
	"fmt"
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// FaceNormal returns the unit normal of the triangle (v0, v1, v2), oriented
// by the right-hand rule. A triangle with zero area has no normal and yields
// math3d.ErrDivisionByZero.
func FaceNormal(v0, v1, v2 math3d.Vec3) (math3d.Vec3, error) {
	n, err := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	if err != nil {
		return math3d.Vec3{}, fmt.Errorf("face normal: %w", err)
	}
	return n, nil
}

// FaceIntensity returns the directional light intensity of a face:
// the dot product of its unit normal and light. Values <= 0 mean the face
// points away from the light.
func FaceIntensity(v0, v1, v2, light math3d.Vec3) (float64, error) {
	n, err := FaceNormal(v0, v1, v2)
	if err != nil {
		return 0, err
	}
	return n.Dot(light), nil
}

// Shade scales base by intensity, rounding each channel. Intensity is
// clamped to [0, 1] and the result is always opaque.
func Shade(intensity float64, base Color) Color {
	i := math.Max(0, math.Min(1, intensity))
	scale := func(c uint8) uint8 {
		return uint8(math.Round(float64(c) * i))
	}
	return Color{R: scale(base.R), G: scale(base.G), B: scale(base.B), A: 255}
}
