// Package models provides mesh representation and loading for tinyrender.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// ErrInvalidFaceIndex is returned when a face references a vertex that does
// not exist. Face indices are 1-based, so 0 is always invalid.
var ErrInvalidFaceIndex = errors.New("models: invalid face index")

// Mesh is an ordered vertex list plus an ordered list of triangle faces.
// Faces refer to vertices by 1-based position in Vertices.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle given by three 1-based vertex indices.
type Face struct {
	V [3]int
}

// NewFace creates a face from 1-based vertex indices.
func NewFace(a, b, c int) Face {
	return Face{V: [3]int{a, b, c}}
}

// Index returns the 0-based vertex index of corner k (0..2).
func (f Face) Index(k int) (int, error) {
	if k < 0 || k > 2 {
		return 0, fmt.Errorf("%w: corner %d out of [0,2]", ErrInvalidFaceIndex, k)
	}
	if f.V[k] < 1 {
		return 0, fmt.Errorf("%w: %d (indices are 1-based)", ErrInvalidFaceIndex, f.V[k])
	}
	return f.V[k] - 1, nil
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([]Face, 0),
	}
}

// AddVertex appends a vertex and returns its 1-based index.
func (m *Mesh) AddVertex(v math3d.Vec3) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices)
}

// AddFace appends a face.
func (m *Mesh) AddFace(f Face) {
	m.Faces = append(m.Faces, f)
}

// Triangle returns the three vertices of face i.
func (m *Mesh) Triangle(i int) ([3]math3d.Vec3, error) {
	var tri [3]math3d.Vec3
	if i < 0 || i >= len(m.Faces) {
		return tri, fmt.Errorf("face %d: out of range (%d faces)", i, len(m.Faces))
	}
	f := m.Faces[i]
	for k := range 3 {
		idx, err := f.Index(k)
		if err != nil {
			return tri, fmt.Errorf("face %d: %w", i, err)
		}
		if idx >= len(m.Vertices) {
			return tri, fmt.Errorf("face %d: %w: %d exceeds %d vertices",
				i, ErrInvalidFaceIndex, f.V[k], len(m.Vertices))
		}
		tri[k] = m.Vertices[idx]
	}
	return tri, nil
}

// Validate checks every face against the vertex list.
func (m *Mesh) Validate() error {
	for i := range m.Faces {
		if _, err := m.Triangle(i); err != nil {
			return err
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Transform returns a copy of the mesh with mat applied to every vertex.
// Faces are shared by value; the receiver is left untouched.
func (m *Mesh) Transform(mat math3d.Mat4) *Mesh {
	out := m.Clone()
	for i, v := range out.Vertices {
		out.Vertices[i] = mat.MulVec3(v)
	}
	out.CalculateBounds()
	return out
}

// FitTransform returns the transform that centers the mesh at the origin
// and scales its largest dimension to span [-1, 1].
func (m *Mesh) FitTransform() math3d.Mat4 {
	size := m.Size()
	maxDim := max(size.X, size.Y, size.Z)
	if maxDim <= 0 {
		return math3d.Translate(m.Center().Negate())
	}
	scale := 2.0 / maxDim
	return math3d.ScaleUniform(scale).Mul(math3d.Translate(m.Center().Negate()))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}
