package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func testPattern() *Framebuffer {
	fb := NewFramebuffer(8, 6)
	fb.Clear(RGB(30, 30, 40))
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(7, 5, ColorBlue)
	return fb
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"out.png":       FormatPNG,
		"OUT.PNG":       FormatPNG,
		"a/b/photo.jpg": FormatJPEG,
		"photo.jpeg":    FormatJPEG,
		"x.bmp":         FormatBMP,
		"x.tga":         FormatTGA,
		"x.webp":        FormatWebP,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}

	for _, path := range []string{"x.gif", "noext", "x.tiff"} {
		if _, err := FormatFromPath(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("FormatFromPath(%q) error = %v, want ErrUnsupportedFormat", path, err)
		}
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testPattern().ToImage(), "gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Encode error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSaveLoadLossless(t *testing.T) {
	fb := testPattern()
	dir := t.TempDir()

	for _, ext := range []string{".png", ".bmp", ".tga", ".webp"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "frame"+ext)
			if err := fb.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}

			img, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
				t.Fatalf("decoded size = %v, want 8x6", b)
			}

			b := img.Bounds()
			at := func(x, y int) color.RGBA {
				return color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			}
			// Canvas (0,0) is the bottom-left of the file.
			if got := at(0, 5); got != ColorRed {
				t.Errorf("bottom-left = %v, want red", got)
			}
			if got := at(7, 0); got != ColorBlue {
				t.Errorf("top-right = %v, want blue", got)
			}
			if got := at(3, 3); got != RGB(30, 30, 40) {
				t.Errorf("background = %v, want (30,30,40)", got)
			}
		})
	}
}

func TestSaveJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.jpg")
	if err := testPattern().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("decoded size = %v, want 8x6", b)
	}
}

func TestSaveImageUnsupportedCreatesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.gif")
	err := SaveImage(path, testPattern().ToImage())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("SaveImage error = %v, want ErrUnsupportedFormat", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("file created for unsupported format: %v", statErr)
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}

	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(junk); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoadBackdrop(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			src.SetRGBA(x, y, RGB(200, 100, 50))
		}
	}
	path := filepath.Join(t.TempDir(), "bg.png")
	if err := SaveImage(path, src); err != nil {
		t.Fatal(err)
	}

	bg, err := LoadBackdrop(path, 20, 10)
	if err != nil {
		t.Fatalf("LoadBackdrop: %v", err)
	}
	if b := bg.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("scaled size = %v, want 20x10", b)
	}
	got := bg.RGBAAt(10, 5)
	if abs(int(got.R)-200) > 1 || abs(int(got.G)-100) > 1 || abs(int(got.B)-50) > 1 || got.A < 254 {
		t.Errorf("scaled pixel = %v, want about (200,100,50)", got)
	}
}
