package render

import (
	"fmt"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// DrawMeshWireframe renders a mesh as wireframe: every face is mapped
// through Viewport and outlined with DrawLine. Depth is ignored.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshSource, col Color) error {
	w, h := r.Width(), r.Height()
	for i := range mesh.TriangleCount() {
		tri, err := mesh.Triangle(i)
		if err != nil {
			return fmt.Errorf("draw wireframe: %w", err)
		}
		r.Stats.FacesTested++
		for k := range tri {
			tri[k] = Viewport(tri[k], w, h)
		}
		r.DrawTriangleOutline(tri, col)
		r.Stats.FacesDrawn++
	}
	return nil
}

// DrawTriangleOutline draws the three edges of a screen-space triangle.
func (r *Rasterizer) DrawTriangleOutline(tri [3]math3d.Vec3, col Color) {
	for k := range 3 {
		r.drawEdge(tri[k], tri[(k+1)%3], col)
	}
}

// DrawAxes draws the x and y axes through the center of the canvas.
func (r *Rasterizer) DrawAxes(col Color) {
	w, h := r.Width(), r.Height()
	r.DrawLine(0, h/2, w-1, h/2, col)
	r.DrawLine(w/2, 0, w/2, h-1, col)
}

func (r *Rasterizer) drawEdge(a, b math3d.Vec3, col Color) {
	r.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), col)
}
