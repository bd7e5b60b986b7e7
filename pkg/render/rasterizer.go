package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Rasterizer fills triangles into a Canvas, optionally through a depth
// buffer. One Rasterizer renders one frame at a time and is not safe for
// concurrent use.
type Rasterizer struct {
	canvas   Canvas
	depth    *DepthBuffer
	Strategy FillStrategy // Triangle fill algorithm
	Stats    Stats        // Counters since the last ResetStats
}

// MeshSource is a list of triangles addressed by face number.
// models.Mesh implements it.
type MeshSource interface {
	TriangleCount() int
	Triangle(i int) ([3]math3d.Vec3, error)
}

// Stats tracks what happened to faces and fragments.
type Stats struct {
	FacesTested       int // Faces considered by DrawMesh
	FacesCulled       int // Faces facing away from the light (intensity <= 0)
	FacesDegenerate   int // Faces with a zero-length normal
	FacesDrawn        int // Faces handed to the triangle filler
	FragmentsWritten  int // Fragments that passed the depth test
	FragmentsRejected int // Fragments hidden by a closer one
}

// NewRasterizer creates a rasterizer drawing into c with a depth buffer of
// the same size.
func NewRasterizer(c Canvas) *Rasterizer {
	r := &Rasterizer{canvas: c}
	r.Resize()
	return r
}

// Resize resizes the rasterizer's depth buffer to match the canvas.
func (r *Rasterizer) Resize() {
	if r.canvas == nil {
		r.depth = NewDepthBuffer(0, 0)
		return
	}
	w, h := r.canvas.Size()
	r.depth = NewDepthBuffer(w, h)
}

// Depth returns the depth buffer.
func (r *Rasterizer) Depth() *DepthBuffer {
	return r.depth
}

// Width returns the canvas width.
func (r *Rasterizer) Width() int {
	w, _ := r.depth.Size()
	return w
}

// Height returns the canvas height.
func (r *Rasterizer) Height() int {
	_, h := r.depth.Size()
	return h
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	r.depth.Clear()
}

// ResetStats resets the statistics (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// FillTriangle paints tri in a flat color without consulting the depth
// buffer. Later calls overwrite earlier ones.
func (r *Rasterizer) FillTriangle(tri [3]math3d.Vec3, col Color) {
	FillTriangle(r.Strategy, tri, r.Width(), r.Height(), func(x, y int, _ float64) {
		r.canvas.SetPixel(x, y, col)
	})
}

// DrawTriangle paints tri in a flat color where it is closer than what the
// depth buffer already holds.
func (r *Rasterizer) DrawTriangle(tri [3]math3d.Vec3, col Color) {
	FillTriangle(r.Strategy, tri, r.Width(), r.Height(), func(x, y int, z float64) {
		if !r.depth.Test(x, y, z) {
			r.Stats.FragmentsRejected++
			return
		}
		r.Stats.FragmentsWritten++
		r.canvas.SetPixel(x, y, col)
	})
}

// DrawLine draws a 2D line on the canvas.
func (r *Rasterizer) DrawLine(x0, y0, x1, y1 int, col Color) {
	DrawLine(r.canvas, x0, y0, x1, y1, col)
}

// Viewport maps normalized device coordinates in [-1, 1] to pixel
// coordinates: x' = trunc((x+1) * (width/2)), likewise for y, with the
// half sizes computed in integers. z passes through unchanged.
func Viewport(v math3d.Vec3, width, height int) math3d.Vec3 {
	return math3d.V3(
		float64(int((v.X+1)*float64(width/2))),
		float64(int((v.Y+1)*float64(height/2))),
		v.Z,
	)
}

// DrawMesh renders every face of mesh with flat directional shading. Face
// vertices are expected in normalized device coordinates; use
// Mesh.FitTransform to get there from arbitrary model units.
//
// Faces whose intensity against light is <= 0 are skipped before
// rasterization, as are faces with no area. An invalid face index aborts
// the draw and is returned.
func (r *Rasterizer) DrawMesh(mesh MeshSource, base Color, light math3d.Vec3) error {
	start := time.Now()
	w, h := r.Width(), r.Height()

	for i := range mesh.TriangleCount() {
		world, err := mesh.Triangle(i)
		if err != nil {
			return fmt.Errorf("draw mesh: %w", err)
		}
		r.Stats.FacesTested++

		intensity, err := FaceIntensity(world[0], world[1], world[2], light)
		if errors.Is(err, math3d.ErrDivisionByZero) {
			r.Stats.FacesDegenerate++
			Logger().Debug("skipping degenerate face", "face", i)
			continue
		}
		if intensity <= 0 {
			r.Stats.FacesCulled++
			continue
		}

		var screen [3]math3d.Vec3
		for k, v := range world {
			screen[k] = Viewport(v, w, h)
		}
		r.Stats.FacesDrawn++
		r.DrawTriangle(screen, Shade(intensity, base))
	}

	Logger().Debug("mesh drawn",
		"strategy", r.Strategy,
		"faces", r.Stats.FacesTested,
		"culled", r.Stats.FacesCulled,
		"degenerate", r.Stats.FacesDegenerate,
		"fragments", r.Stats.FragmentsWritten,
		"elapsed", time.Since(start),
	)
	return nil
}

// DrawMeshFlat renders every face of mesh in one color through the depth
// buffer, without lighting.
func (r *Rasterizer) DrawMeshFlat(mesh MeshSource, col Color) error {
	w, h := r.Width(), r.Height()
	for i := range mesh.TriangleCount() {
		world, err := mesh.Triangle(i)
		if err != nil {
			return fmt.Errorf("draw mesh: %w", err)
		}
		r.Stats.FacesTested++

		var screen [3]math3d.Vec3
		for k, v := range world {
			screen[k] = Viewport(v, w, h)
		}
		r.Stats.FacesDrawn++
		r.DrawTriangle(screen, col)
	}
	return nil
}
