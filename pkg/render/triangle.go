package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// FillStrategy selects how triangle interiors are scan-converted.
type FillStrategy int

const (
	// FillBarycentric tests every pixel of the clamped screen bounding box
	// against the triangle's barycentric coordinates. Pixels exactly on an
	// edge shared by two triangles are painted by both.
	FillBarycentric FillStrategy = iota
	// FillScanline sorts the vertices by y and sweeps horizontal spans
	// between the long edge and the active short edge.
	FillScanline
)

// String returns the config name of the strategy.
func (s FillStrategy) String() string {
	switch s {
	case FillBarycentric:
		return "barycentric"
	case FillScanline:
		return "scanline"
	default:
		return fmt.Sprintf("FillStrategy(%d)", int(s))
	}
}

// ParseFillStrategy accepts "barycentric" (or "bbox") and "scanline" (or
// "sweep"), case-insensitively.
func ParseFillStrategy(name string) (FillStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "barycentric", "bbox":
		return FillBarycentric, nil
	case "scanline", "sweep":
		return FillScanline, nil
	default:
		return 0, fmt.Errorf("unknown fill strategy %q", name)
	}
}

// FragmentFunc receives one covered pixel and its interpolated depth.
type FragmentFunc func(x, y int, z float64)

// FillTriangle scan-converts tri (screen-space x, y plus depth z) into a
// width x height raster and calls emit for every covered pixel. Nothing
// outside the raster is emitted.
func FillTriangle(s FillStrategy, tri [3]math3d.Vec3, width, height int, emit FragmentFunc) {
	switch s {
	case FillScanline:
		fillScanline(tri, width, height, emit)
	default:
		fillBarycentric(tri, width, height, emit)
	}
}

// screenRect is an inclusive pixel rectangle.
type screenRect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Empty reports whether the rectangle contains no pixels.
func (r screenRect) Empty() bool {
	return r.MinX > r.MaxX || r.MinY > r.MaxY
}

// triangleBounds returns the screen bounding box of tri (floor of the
// minimum, ceiling of the maximum) clamped to the raster. Clamping happens
// before the int conversion so far-off coordinates cannot overflow.
func triangleBounds(tri [3]math3d.Vec3, width, height int) screenRect {
	lo := tri[0].Min(tri[1]).Min(tri[2])
	hi := tri[0].Max(tri[1]).Max(tri[2])
	return screenRect{
		MinX: clampInt(math.Floor(lo.X), 0, width),
		MinY: clampInt(math.Floor(lo.Y), 0, height),
		MaxX: clampInt(math.Ceil(hi.X), -1, width-1),
		MaxY: clampInt(math.Ceil(hi.Y), -1, height-1),
	}
}

// clampInt clamps v to [lo, hi] and converts it.
func clampInt(v float64, lo, hi int) int {
	return int(math.Max(float64(lo), math.Min(float64(hi), v)))
}

func fillBarycentric(tri [3]math3d.Vec3, width, height int, emit FragmentFunc) {
	box := triangleBounds(tri, width, height)
	if box.Empty() {
		return
	}

	for y := box.MinY; y <= box.MaxY; y++ {
		for x := box.MinX; x <= box.MaxX; x++ {
			bc := math3d.Barycentric(tri, math3d.V3(float64(x), float64(y), 0))
			if !math3d.Inside(bc) {
				continue
			}
			z := bc.X*tri[0].Z + bc.Y*tri[1].Z + bc.Z*tri[2].Z
			emit(x, y, z)
		}
	}
}

func fillScanline(tri [3]math3d.Vec3, width, height int, emit FragmentFunc) {
	// Work on a truncated, sorted copy; the caller's triangle is untouched.
	t0, t1, t2 := truncXY(tri[0]), truncXY(tri[1]), truncXY(tri[2])
	if t0.Y == t1.Y && t0.Y == t2.Y {
		return
	}
	if t0.Y > t1.Y {
		t0, t1 = t1, t0
	}
	if t0.Y > t2.Y {
		t0, t2 = t2, t0
	}
	if t1.Y > t2.Y {
		t1, t2 = t2, t1
	}

	// Only rows inside the raster are visited. i is the row offset from t0.
	totalHeight := t2.Y - t0.Y
	firstHeight := t1.Y - t0.Y
	y0 := clampInt(t0.Y, 0, height)
	y1 := clampInt(t2.Y, -1, height-1)
	for y := y0; y <= y1; y++ {
		i := float64(y) - t0.Y

		secondHalf := i > firstHeight || t1.Y == t0.Y
		segmentHeight := firstHeight
		if secondHalf {
			segmentHeight = t2.Y - t1.Y
		}

		a := t0.Lerp(t2, i/totalHeight)
		var b math3d.Vec3
		if secondHalf {
			b = t1.Lerp(t2, (i-firstHeight)/segmentHeight)
		} else {
			b = t0.Lerp(t1, i/segmentHeight)
		}
		if a.X > b.X {
			a, b = b, a
		}

		ax, bx := math.Trunc(a.X), math.Trunc(b.X)
		span := bx - ax
		x0 := clampInt(ax, 0, width)
		x1 := clampInt(bx, -1, width-1)
		for x := x0; x <= x1; x++ {
			z := a.Z
			if span > 0 {
				z = a.Z + (b.Z-a.Z)*(float64(x)-ax)/span
			}
			emit(x, y, z)
		}
	}
}

func truncXY(v math3d.Vec3) math3d.Vec3 {
	return math3d.V3(math.Trunc(v.X), math.Trunc(v.Y), v.Z)
}
