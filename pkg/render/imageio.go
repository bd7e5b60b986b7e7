package render

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder for backdrops
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder for backdrops
)

// ErrUnsupportedFormat is returned for output paths whose extension has no
// encoder.
var ErrUnsupportedFormat = errors.New("render: unsupported image format")

// Format names accepted by Encode.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatBMP  = "bmp"
	FormatTGA  = "tga"
	FormatWebP = "webp"
)

// FormatFromPath picks the encoder for path by its extension.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tga":
		return FormatTGA, nil
	case ".webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Encode writes img to w in the named format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTGA:
		return tga.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SaveImage encodes img to path, choosing the format from the extension.
func SaveImage(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	Logger().Info("image written", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

// Save writes the framebuffer to path with a top-left origin.
func (fb *Framebuffer) Save(path string) error {
	return SaveImage(path, fb.ToImage())
}

// LoadImage decodes an image file in any registered format (PNG, JPEG,
// GIF, BMP, TGA, WebP).
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	Logger().Debug("image loaded", "path", path, "format", format)
	return img, nil
}

// ScaleImage resamples src to exactly width x height.
func ScaleImage(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// LoadBackdrop loads an image and scales it to width x height.
func LoadBackdrop(path string, width, height int) (*image.RGBA, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("load backdrop: %w", err)
	}
	return ScaleImage(img, width, height), nil
}
