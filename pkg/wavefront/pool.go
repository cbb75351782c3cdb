package wavefront

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// geometryPool holds positions, normals and texture coordinates in declaration order.
type geometryPool struct {
	positions []mgl32.Vec4
	normals   []mgl32.Vec4
	uvs       []mgl32.Vec2
}

// addPosition scales a "v" vector and forces W to 1.
func (p *geometryPool) addPosition(data string, scale float32) error {
	v, err := parseVector(data)
	if err != nil {
		return err
	}
	v = v.Mul(scale)
	v[3] = 1
	p.positions = append(p.positions, v)
	return nil
}

// addNormal stores a "vn" vector with W forced to 0.
func (p *geometryPool) addNormal(data string) error {
	v, err := parseVector(data)
	if err != nil {
		return err
	}
	v[3] = 0
	p.normals = append(p.normals, v)
	return nil
}

// addUV stores the first two components of a "vt" vector.
func (p *geometryPool) addUV(data string) error {
	v, err := parseVector(data)
	if err != nil {
		return err
	}
	p.uvs = append(p.uvs, mgl32.Vec2{v[0], v[1]})
	return nil
}

// hasNormals reports whether any "vn" line has been seen.
func (p *geometryPool) hasNormals() bool {
	return len(p.normals) > 0
}

// resolve builds the vertex referenced by a face triplet. Indices are 1-based;
// zero UV or normal indices mean "absent".
func (p *geometryPool) resolve(t Triplet) (Vertex, error) {
	var vert Vertex
	if t.V < 1 || t.V > len(p.positions) {
		return vert, fmt.Errorf("%w: position %d of %d", ErrIndexOutOfRange, t.V, len(p.positions))
	}
	vert.Position = p.positions[t.V-1]

	if t.VN != 0 {
		if t.VN < 1 || t.VN > len(p.normals) {
			return vert, fmt.Errorf("%w: normal %d of %d", ErrIndexOutOfRange, t.VN, len(p.normals))
		}
		vert.Normal = p.normals[t.VN-1]
	}
	if t.VT != 0 {
		if t.VT < 1 || t.VT > len(p.uvs) {
			return vert, fmt.Errorf("%w: uv %d of %d", ErrIndexOutOfRange, t.VT, len(p.uvs))
		}
		vert.UV = p.uvs[t.VT-1]
	}
	return vert, nil
}
