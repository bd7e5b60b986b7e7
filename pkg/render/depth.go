package render

import "math"

// DepthBuffer stores one depth value per canvas pixel. Larger z is closer
// to the viewer; an empty buffer holds -Inf everywhere.
type DepthBuffer struct {
	width  int
	height int
	data   []float64 // row-major, same layout as Framebuffer.Pixels
}

// NewDepthBuffer allocates a cleared buffer.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{}
	d.Resize(width, height)
	return d
}

// Resize reallocates the buffer and clears it.
func (d *DepthBuffer) Resize(width, height int) {
	d.width, d.height = width, height
	d.data = make([]float64, max(width*height, 0))
	d.Clear()
}

// Size returns the buffer dimensions.
func (d *DepthBuffer) Size() (int, int) {
	return d.width, d.height
}

// Clear resets every entry to -Inf (call before each frame).
func (d *DepthBuffer) Clear() {
	// Use copy-doubling for faster clearing
	n := len(d.data)
	if n == 0 {
		return
	}
	d.data[0] = math.Inf(-1)
	for i := 1; i < n; i *= 2 {
		copy(d.data[i:], d.data[:i])
	}
}

// At returns the stored depth, or -Inf outside the buffer.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return math.Inf(-1)
	}
	return d.data[y*d.width+x]
}

// Test stores z and returns true if z is strictly greater than the current
// value at (x, y). Equal depths keep the earlier fragment. Coordinates
// outside the buffer always fail.
func (d *DepthBuffer) Test(x, y int, z float64) bool {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return false
	}
	i := y*d.width + x
	if z <= d.data[i] {
		return false
	}
	d.data[i] = z
	return true
}
