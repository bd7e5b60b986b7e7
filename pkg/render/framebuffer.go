// Package render provides software rasterization for tinyrender.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Canvas is a pixel sink with its origin at the bottom-left corner.
// Implementations ignore writes outside [0,w)x[0,h).
type Canvas interface {
	Size() (width, height int)
	SetPixel(x, y int, c Color)
}

// Framebuffer is a 2D array of pixels. Row 0 is the bottom row; call
// FlipVertical before handing Pixels to anything that expects a top-left
// origin, or use ToImage which does it for you.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Row-major pixel data, bottom row first
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Pixels start as transparent black.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (int, int) {
	return fb.Width, fb.Height
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// FlipVertical mirrors the rows in place.
func (fb *Framebuffer) FlipVertical() {
	w := fb.Width
	tmp := make([]color.RGBA, w)
	for top, bot := 0, fb.Height-1; top < bot; top, bot = top+1, bot-1 {
		a := fb.Pixels[top*w : (top+1)*w]
		b := fb.Pixels[bot*w : (bot+1)*w]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// DrawImage copies src into the framebuffer, with the top row of src
// landing on the top row of the framebuffer. Pixels outside either image are
// skipped.
func (fb *Framebuffer) DrawImage(src image.Image) {
	b := src.Bounds()
	for y := 0; y < fb.Height && y < b.Dy(); y++ {
		for x := 0; x < fb.Width && x < b.Dx(); x++ {
			c := color.RGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			fb.Pixels[(fb.Height-1-y)*fb.Width+x] = c
		}
	}
}

// ToImage converts the framebuffer to a top-left origin image.RGBA. The
// framebuffer itself is not modified.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		row := fb.Pixels[(fb.Height-1-y)*fb.Width : (fb.Height-y)*fb.Width]
		for x, c := range row {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// ImageCanvas adapts any draw.Image to Canvas. Canvas row 0 maps to the
// last row of the image, so the result needs no flip before encoding.
type ImageCanvas struct {
	img draw.Image
}

// NewImageCanvas wraps img.
func NewImageCanvas(img draw.Image) *ImageCanvas {
	return &ImageCanvas{img: img}
}

// Image returns the wrapped image.
func (c *ImageCanvas) Image() draw.Image {
	return c.img
}

// Size returns the image dimensions.
func (c *ImageCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// SetPixel writes col at canvas position (x, y).
func (c *ImageCanvas) SetPixel(x, y int, col Color) {
	b := c.img.Bounds()
	if x < 0 || x >= b.Dx() || y < 0 || y >= b.Dy() {
		return
	}
	c.img.Set(b.Min.X+x, b.Max.Y-1-y, col)
}
