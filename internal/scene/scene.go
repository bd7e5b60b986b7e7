// Package scene turns mesh files and resolved settings into frames.
package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/tinyrender/internal/config"
	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/models"
	"github.com/taigrr/tinyrender/pkg/render"
)

// ErrUnsupportedMesh is returned for mesh files that are neither OBJ nor glTF.
var ErrUnsupportedMesh = errors.New("scene: unsupported mesh format")

// LoadMesh loads an OBJ, GLB or glTF file and checks its face indices.
func LoadMesh(path string) (*models.Mesh, error) {
	var (
		mesh *models.Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		mesh, err = models.LoadOBJ(path)
	case ".glb", ".gltf":
		mesh, err = models.LoadGLB(path)
	default:
		return nil, fmt.Errorf("%w: %s (use .obj, .glb or .gltf)", ErrUnsupportedMesh, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("load model %s: %w", mesh.Name, err)
	}
	return mesh, nil
}

// Render draws mesh into a new framebuffer according to s.
func Render(mesh *models.Mesh, s config.Settings) (*render.Framebuffer, render.Stats, error) {
	fb := render.NewFramebuffer(s.Width, s.Height)
	fb.Clear(s.Background)
	if s.Backdrop != "" {
		bg, err := render.LoadBackdrop(s.Backdrop, s.Width, s.Height)
		if err != nil {
			return nil, render.Stats{}, err
		}
		fb.DrawImage(bg)
	}

	if s.Fit {
		mesh = mesh.Transform(mesh.FitTransform())
	}

	r := render.NewRasterizer(fb)
	r.Strategy = s.Strategy
	if err := Draw(r, mesh, s); err != nil {
		return nil, r.Stats, err
	}
	return fb, r.Stats, nil
}

// Draw renders mesh with an existing rasterizer in the configured mode.
// The caller clears the canvas and depth buffer.
func Draw(r *render.Rasterizer, mesh render.MeshSource, s config.Settings) error {
	switch s.Mode {
	case config.ModeWire:
		return r.DrawMeshWireframe(mesh, s.Color)
	case config.ModeFlat:
		return r.DrawMeshFlat(mesh, s.Color)
	default:
		return r.DrawMesh(mesh, s.Color, s.Light)
	}
}

// RenderFile loads the mesh at in, renders it and writes the frame to out.
// The output format follows the extension of out.
func RenderFile(in, out string, s config.Settings) (render.Stats, error) {
	mesh, err := LoadMesh(in)
	if err != nil {
		return render.Stats{}, err
	}

	fb, stats, err := Render(mesh, s)
	if err != nil {
		return stats, fmt.Errorf("render %s: %w", mesh.Name, err)
	}
	if err := fb.Save(out); err != nil {
		return stats, fmt.Errorf("save %s: %w", out, err)
	}
	return stats, nil
}

// Demo size and geometry of the reference scene.
const (
	DemoWidth  = 200
	DemoHeight = 200
)

// DemoTriangle is the reference triangle in pixel coordinates.
var DemoTriangle = [3]math3d.Vec3{
	math3d.V3(10, 10, 0),
	math3d.V3(100, 30, 0),
	math3d.V3(190, 160, 0),
}

// Demo fills the reference triangle in red on a black 200x200 canvas.
func Demo(strategy render.FillStrategy) *render.Framebuffer {
	fb := render.NewFramebuffer(DemoWidth, DemoHeight)
	fb.Clear(render.ColorBlack)
	r := render.NewRasterizer(fb)
	r.Strategy = strategy
	r.FillTriangle(DemoTriangle, render.ColorRed)
	return fb
}
