package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// ErrMalformedOBJ is returned for vertex or face statements that cannot be
// parsed.
var ErrMalformedOBJ = errors.New("models: malformed obj")

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads "v" and "f" statements from r. Everything else (normals,
// texture coordinates, groups, materials, comments) is ignored.
//
// Face tokens may be "i", "i/t", "i//n" or "i/t/n"; only i is used.
// Negative indices count back from the most recent vertex. Polygons with
// more than three corners are split into a triangle fan.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			mesh.AddVertex(v)
		case "f":
			idx, err := parseFace(fields[1:], len(mesh.Vertices))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			for i := 1; i+1 < len(idx); i++ {
				mesh.AddFace(NewFace(idx[0], idx[i], idx[i+1]))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func parseVertex(tokens []string) (math3d.Vec3, error) {
	if len(tokens) < 3 {
		return math3d.Vec3{}, fmt.Errorf("%w: vertex needs 3 coordinates, got %d", ErrMalformedOBJ, len(tokens))
	}
	var c [3]float64
	for i := range 3 {
		f, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("%w: vertex coordinate %q", ErrMalformedOBJ, tokens[i])
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// parseFace returns positive 1-based indices for every corner.
func parseFace(tokens []string, vertexCount int) ([]int, error) {
	if len(tokens) < 3 {
		return nil, fmt.Errorf("%w: face needs 3 vertices, got %d", ErrMalformedOBJ, len(tokens))
	}
	idx := make([]int, len(tokens))
	for i, tok := range tokens {
		head, _, _ := strings.Cut(tok, "/")
		n, err := strconv.Atoi(head)
		if err != nil {
			return nil, fmt.Errorf("%w: face index %q", ErrMalformedOBJ, tok)
		}
		if n < 0 {
			n += vertexCount + 1
		}
		if n < 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFaceIndex, tok)
		}
		idx[i] = n
	}
	return idx, nil
}
