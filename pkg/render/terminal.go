package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each terminal row covers two framebuffer rows, so the framebuffer
// height should be 2x the terminal height. The framebuffer's bottom row
// ends up on the last terminal row.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := fb.Height - 1 - row*2
		botY := topY - 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// TerminalRenderer presents framebuffers on a terminal screen using
// half-block cells.
type TerminalRenderer struct {
	scr    uv.Screen
	width  int // terminal columns
	height int // terminal rows
}

// NewTerminalRenderer creates a renderer for a width x height cell area.
func NewTerminalRenderer(scr uv.Screen, width, height int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, width: width, height: height}
}

// FramebufferSize returns the framebuffer dimensions that fill the
// terminal: one pixel per column, two per row.
func (t *TerminalRenderer) FramebufferSize() (int, int) {
	return t.width, t.height * 2
}

// Render draws fb onto the screen buffer. Call Flush to display it.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.scr, uv.Rectangle(image.Rect(0, 0, t.width, t.height)))
}

// Flush pushes pending cells to the terminal if the screen buffers its
// output.
func (t *TerminalRenderer) Flush() error {
	switch s := t.scr.(type) {
	case interface{ Display() error }:
		return s.Display()
	case interface{ Flush() error }:
		return s.Flush()
	}
	return nil
}
