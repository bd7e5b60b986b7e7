package render

import "image/color"

// recordCanvas remembers every write, including repeated ones.
type recordCanvas struct {
	w, h   int
	pixels map[[2]int]Color
	writes int
}

func newRecordCanvas(w, h int) *recordCanvas {
	return &recordCanvas{w: w, h: h, pixels: make(map[[2]int]Color)}
}

func (c *recordCanvas) Size() (int, int) { return c.w, c.h }

func (c *recordCanvas) SetPixel(x, y int, col color.RGBA) {
	c.writes++
	c.pixels[[2]int{x, y}] = col
}

func (c *recordCanvas) has(x, y int) bool {
	_, ok := c.pixels[[2]int{x, y}]
	return ok
}

// countColored returns how many framebuffer pixels are not transparent.
func countColored(fb *Framebuffer) int {
	n := 0
	for _, p := range fb.Pixels {
		if p.A != 0 {
			n++
		}
	}
	return n
}
