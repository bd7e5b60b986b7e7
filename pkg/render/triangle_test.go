package render

import (
	"testing"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

var referenceTriangle = [3]math3d.Vec3{
	math3d.V3(10, 10, 0),
	math3d.V3(100, 30, 0),
	math3d.V3(190, 160, 0),
}

func collect(s FillStrategy, tri [3]math3d.Vec3, w, h int) map[[2]int]float64 {
	px := make(map[[2]int]float64)
	FillTriangle(s, tri, w, h, func(x, y int, z float64) {
		px[[2]int{x, y}] = z
	})
	return px
}

func TestFillTriangleReferenceScene(t *testing.T) {
	for _, s := range []FillStrategy{FillBarycentric, FillScanline} {
		t.Run(s.String(), func(t *testing.T) {
			fb := NewFramebuffer(200, 200)
			r := NewRasterizer(fb)
			r.Strategy = s
			r.FillTriangle(referenceTriangle, ColorRed)

			for _, p := range [][2]int{{10, 10}, {100, 30}, {190, 160}, {100, 67}} {
				if got := fb.GetPixel(p[0], p[1]); got != ColorRed {
					t.Errorf("pixel %v = %v, want red", p, got)
				}
			}
			if got := fb.GetPixel(0, 0); got.A != 0 {
				t.Errorf("pixel (0,0) = %v, want background", got)
			}
			if got := fb.GetPixel(190, 10); got.A != 0 {
				t.Errorf("pixel (190,10) = %v, want background", got)
			}
		})
	}
}

func TestFillStrategiesAgree(t *testing.T) {
	triangles := [][3]math3d.Vec3{
		referenceTriangle,
		{math3d.V3(20, 20, 0), math3d.V3(180, 40, 0), math3d.V3(100, 170, 0)},
		{math3d.V3(5, 150, 0), math3d.V3(60, 10, 0), math3d.V3(195, 120, 0)},
		{math3d.V3(30, 30, 0), math3d.V3(170, 30, 0), math3d.V3(100, 180, 0)},
	}

	near := func(set map[[2]int]float64, p [2]int) bool {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if _, ok := set[[2]int{p[0] + dx, p[1] + dy}]; ok {
					return true
				}
			}
		}
		return false
	}

	for i, tri := range triangles {
		a := collect(FillBarycentric, tri, 200, 200)
		b := collect(FillScanline, tri, 200, 200)
		if len(a) == 0 || len(b) == 0 {
			t.Fatalf("triangle %d: empty fill (a=%d b=%d)", i, len(a), len(b))
		}
		for p := range a {
			if !near(b, p) {
				t.Errorf("triangle %d: barycentric pixel %v has no scanline neighbor", i, p)
			}
		}
		for p := range b {
			if !near(a, p) {
				t.Errorf("triangle %d: scanline pixel %v has no barycentric neighbor", i, p)
			}
		}
	}
}

func TestFillTriangleDegenerate(t *testing.T) {
	tests := []struct {
		name string
		tri  [3]math3d.Vec3
	}{
		{"horizontal", [3]math3d.Vec3{math3d.V3(10, 50, 0), math3d.V3(100, 50, 0), math3d.V3(60, 50, 0)}},
		{"single point", [3]math3d.Vec3{math3d.V3(30, 30, 0), math3d.V3(30, 30, 0), math3d.V3(30, 30, 0)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, s := range []FillStrategy{FillBarycentric, FillScanline} {
				if got := collect(s, tc.tri, 200, 200); len(got) != 0 {
					t.Errorf("%v painted %d pixels, want 0", s, len(got))
				}
			}
		})
	}

	// Collinear but not horizontal: the barycentric test rejects every pixel.
	slanted := [3]math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(50, 50, 0), math3d.V3(100, 100, 0)}
	if got := collect(FillBarycentric, slanted, 200, 200); len(got) != 0 {
		t.Errorf("barycentric painted %d pixels of a collinear triangle", len(got))
	}
}

func TestFillTriangleClamped(t *testing.T) {
	tri := [3]math3d.Vec3{math3d.V3(-50, -50, 0), math3d.V3(150, -20, 0), math3d.V3(40, 160, 0)}

	for _, s := range []FillStrategy{FillBarycentric, FillScanline} {
		px := collect(s, tri, 100, 100)
		if len(px) == 0 {
			t.Errorf("%v: nothing painted", s)
		}
		for p := range px {
			if p[0] < 0 || p[0] >= 100 || p[1] < 0 || p[1] >= 100 {
				t.Errorf("%v: fragment %v outside raster", s, p)
			}
		}
	}
}

func TestFillTriangleDepthInterpolation(t *testing.T) {
	tri := [3]math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(100, 0, 1), math3d.V3(0, 100, 1)}

	for _, s := range []FillStrategy{FillBarycentric, FillScanline} {
		px := collect(s, tri, 200, 200)
		if z := px[[2]int{0, 0}]; z != 0 {
			t.Errorf("%v: z at vertex 0 = %v, want 0", s, z)
		}
		if z, ok := px[[2]int{25, 25}]; !ok || z < 0.45 || z > 0.55 {
			t.Errorf("%v: z at (25,25) = %v, want about 0.5", s, z)
		}
	}
}

func TestParseFillStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want FillStrategy
	}{
		{"barycentric", FillBarycentric},
		{"BBOX", FillBarycentric},
		{"scanline", FillScanline},
		{" sweep ", FillScanline},
	}
	for _, tc := range tests {
		got, err := ParseFillStrategy(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseFillStrategy(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParseFillStrategy("zigzag"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestFillTriangleEachPixelOnce(t *testing.T) {
	triangles := map[string][3]math3d.Vec3{
		"reference":   referenceTriangle,
		"flat bottom": {math3d.V3(20, 20, 0), math3d.V3(180, 20, 0), math3d.V3(100, 170, 0)},
		"flat top":    {math3d.V3(20, 170, 0), math3d.V3(180, 170, 0), math3d.V3(100, 20, 0)},
		"clipped":     {math3d.V3(-50, -50, 0), math3d.V3(250, 60, 0), math3d.V3(90, 260, 0)},
	}

	for _, s := range []FillStrategy{FillBarycentric, FillScanline} {
		for name, tri := range triangles {
			t.Run(s.String()+"/"+name, func(t *testing.T) {
				c := newRecordCanvas(200, 200)
				r := NewRasterizer(c)
				r.Strategy = s
				r.FillTriangle(tri, ColorRed)

				if len(c.pixels) == 0 {
					t.Fatal("triangle painted nothing")
				}
				if c.writes != len(c.pixels) {
					t.Errorf("%d writes for %d pixels, want one write per pixel", c.writes, len(c.pixels))
				}
			})
		}
	}
}

func TestFillBarycentricSharedEdge(t *testing.T) {
	// Two halves of a square split along the diagonal (90,10)-(10,90).
	lower := [3]math3d.Vec3{math3d.V3(10, 10, 0), math3d.V3(90, 10, 0), math3d.V3(10, 90, 0)}
	upper := [3]math3d.Vec3{math3d.V3(90, 10, 0), math3d.V3(90, 90, 0), math3d.V3(10, 90, 0)}

	c := newRecordCanvas(100, 100)
	r := NewRasterizer(c)
	r.FillTriangle(lower, ColorRed)
	r.FillTriangle(upper, ColorBlue)

	for y := 10; y <= 90; y++ {
		for x := 10; x <= 90; x++ {
			if !c.has(x, y) {
				t.Fatalf("pixel (%d,%d) not covered by either half", x, y)
			}
		}
	}
	// Pixels exactly on the shared edge belong to both halves.
	if c.writes <= len(c.pixels) {
		t.Errorf("writes = %d, pixels = %d; want the shared edge painted twice", c.writes, len(c.pixels))
	}
	if got := c.pixels[[2]int{90, 10}]; got != ColorBlue {
		t.Errorf("shared vertex = %v, want the later triangle's color", got)
	}
}

func TestFillTriangleFarCoordinates(t *testing.T) {
	tests := []struct {
		name string
		tri  [3]math3d.Vec3
		want int // expected fragment count, -1 for "some"
	}{
		{
			name: "very tall",
			tri:  [3]math3d.Vec3{math3d.V3(0, -1e15, 0), math3d.V3(100, 1e15, 0), math3d.V3(50, 50, 0)},
			want: -1,
		},
		{
			name: "beyond int range",
			tri:  [3]math3d.Vec3{math3d.V3(-10, -10, 0), math3d.V3(1e19, -10, 0), math3d.V3(-10, 1e19, 0)},
			want: 100 * 100,
		},
		{
			name: "above the raster",
			tri:  [3]math3d.Vec3{math3d.V3(0, 1e19, 0), math3d.V3(100, 2e19, 0), math3d.V3(50, 3e19, 0)},
			want: 0,
		},
		{
			name: "left of the raster",
			tri:  [3]math3d.Vec3{math3d.V3(-3e19, 0, 0), math3d.V3(-2e19, 100, 0), math3d.V3(-1e19, 50, 0)},
			want: 0,
		},
	}

	for _, s := range []FillStrategy{FillBarycentric, FillScanline} {
		for _, tt := range tests {
			t.Run(s.String()+"/"+tt.name, func(t *testing.T) {
				var n int
				seen := make(map[[2]int]bool)
				FillTriangle(s, tt.tri, 100, 100, func(x, y int, _ float64) {
					n++
					if x < 0 || x >= 100 || y < 0 || y >= 100 {
						t.Fatalf("fragment (%d,%d) outside the raster", x, y)
					}
					seen[[2]int{x, y}] = true
				})

				if n != len(seen) {
					t.Errorf("%d fragments for %d pixels", n, len(seen))
				}
				switch {
				case tt.want < 0 && n == 0:
					t.Error("no fragments, want some")
				case tt.want >= 0 && n != tt.want:
					t.Errorf("got %d fragments, want %d", n, tt.want)
				}
			})
		}
	}
}

func BenchmarkFillScanlineTall(b *testing.B) {
	tri := [3]math3d.Vec3{math3d.V3(0, -2e8, 0), math3d.V3(100, 2e8, 0), math3d.V3(50, 50, 0)}
	for b.Loop() {
		FillTriangle(FillScanline, tri, 100, 100, func(int, int, float64) {})
	}
}

func BenchmarkFillBarycentric(b *testing.B) {
	for b.Loop() {
		FillTriangle(FillBarycentric, referenceTriangle, 200, 200, func(int, int, float64) {})
	}
}

func BenchmarkFillScanline(b *testing.B) {
	for b.Loop() {
		FillTriangle(FillScanline, referenceTriangle, 200, 200, func(int, int, float64) {})
	}
}
