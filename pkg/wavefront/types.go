// Package wavefront loads Wavefront OBJ models and their MTL material libraries
// into an in-memory scene of meshes and materials.
package wavefront

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
)

// Interleaved vertex layout in bytes, matching Vertex field order.
const (
	PositionOffset = 0
	NormalOffset   = PositionOffset + 4*4
	UVOffset       = NormalOffset + 4*4
	VertexStride   = UVOffset + 2*4

	// FloatsPerVertex is VertexStride expressed in float32 elements.
	FloatsPerVertex = VertexStride / 4
)

// Vertex is a single mesh vertex. Position.W is always 1 and Normal.W always 0.
type Vertex struct {
	Position mgl32.Vec4
	Normal   mgl32.Vec4
	UV       mgl32.Vec2
}

// bits returns the raw IEEE-754 representation of all fields in layout order.
func (v Vertex) bits() (out [FloatsPerVertex]uint32) {
	for i, f := range v.Position {
		out[i] = math.Float32bits(f)
	}
	for i, f := range v.Normal {
		out[4+i] = math.Float32bits(f)
	}
	for i, f := range v.UV {
		out[8+i] = math.Float32bits(f)
	}
	return out
}

// Equal reports whether both vertices are bitwise identical.
func (v Vertex) Equal(other Vertex) bool {
	return v.bits() == other.bits()
}

// Less orders vertices by their raw bits, for use as a sort key when deduplicating.
func (v Vertex) Less(other Vertex) bool {
	a, b := v.bits(), other.bits()
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// TextureType indexes a material's texture slots.
type TextureType int

const (
	DiffuseTexture TextureType = iota
	SpecularTexture
	NormalTexture

	TextureTypeCount
)

// String returns a human-readable texture slot name.
func (t TextureType) String() string {
	switch t {
	case DiffuseTexture:
		return "diffuse"
	case SpecularTexture:
		return "specular"
	case NormalTexture:
		return "normal"
	default:
		return "unknown"
	}
}

// Material holds raw MTL colour coefficients and texture file paths.
//
// The fourth channel of each colour carries an auxiliary scalar: Ambient.W is the
// refractive index (Ni), Diffuse.W the opacity (d or 1-Tr) and Specular.W the
// specular exponent (Ns). Use the named accessors rather than reading W directly.
type Material struct {
	Name     string
	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4

	// TexturePaths are file names already prefixed with the model's base path.
	TexturePaths [TextureTypeCount]string
	// TextureHandles are filled by a texture loader after Load returns.
	TextureHandles [TextureTypeCount]uint32
}

// RefractiveIndex returns the optical density (Ni).
func (m *Material) RefractiveIndex() float32 { return m.Ambient.W() }

// Opacity returns the dissolve value in [0,1].
func (m *Material) Opacity() float32 { return m.Diffuse.W() }

// SpecularExponent returns the specular power (Ns).
func (m *Material) SpecularExponent() float32 { return m.Specular.W() }

// HasTexture reports whether a file name was recorded for the given slot.
func (m *Material) HasTexture(t TextureType) bool {
	return t >= 0 && t < TextureTypeCount && m.TexturePaths[t] != ""
}

// Mesh is a named triangle list. Indices address Vertices of the same mesh.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32

	// material is owned by the Model.
	material *Material
}

// Material returns the mesh's material, or nil if none was assigned.
func (m *Mesh) Material() *Material {
	return m.material
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// InterleavedVertices flattens the vertex data into VertexStride-sized records
// ready for a GPU vertex buffer.
func (m *Mesh) InterleavedVertices() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out, v.Position[:]...)
		out = append(out, v.Normal[:]...)
		out = append(out, v.UV[:]...)
	}
	return out
}

// CalculateFaceNormals overwrites every vertex normal with the flat normal of the
// last triangle that references it.
func (m *Mesh) CalculateFaceNormals() {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		n := m.faceNormal(a, b, c)
		m.Vertices[a].Normal = n
		m.Vertices[b].Normal = n
		m.Vertices[c].Normal = n
	}
}

// faceNormal returns normalize(normalize(B-A) x normalize(C-A)) with W = 0.
func (m *Mesh) faceNormal(a, b, c uint32) mgl32.Vec4 {
	pa := m.Vertices[a].Position.Vec3()
	pb := m.Vertices[b].Position.Vec3()
	pc := m.Vertices[c].Position.Vec3()

	ab := pb.Sub(pa).Normalize()
	ac := pc.Sub(pa).Normalize()
	return ab.Cross(ac).Normalize().Vec4(0)
}

// Model is a loaded OBJ file. It is immutable once Load returns.
type Model struct {
	path      string
	world     mgl32.Mat4
	meshes    []*Mesh
	materials []*Material

	boundsMin mgl32.Vec4
	boundsMax mgl32.Vec4
	warnings  error
}

func newModel(basePath string) *Model {
	return &Model{
		path:  basePath,
		world: mgl32.Ident4(),
	}
}

// Path returns the directory the model was loaded from, with a trailing separator,
// or "" when the file name had no directory component.
func (m *Model) Path() string { return m.path }

// WorldTransform returns the model's root transform (always identity).
func (m *Model) WorldTransform() mgl32.Mat4 { return m.world }

// MeshCount returns the number of meshes.
func (m *Model) MeshCount() int { return len(m.meshes) }

// MeshByIndex returns the i-th mesh, or nil if out of range.
func (m *Model) MeshByIndex(i int) *Mesh {
	if i < 0 || i >= len(m.meshes) {
		return nil
	}
	return m.meshes[i]
}

// MeshByName returns the first mesh with the given name, or nil.
func (m *Model) MeshByName(name string) *Mesh {
	for _, mesh := range m.meshes {
		if mesh.Name == name {
			return mesh
		}
	}
	return nil
}

// MaterialCount returns the number of materials.
func (m *Model) MaterialCount() int { return len(m.materials) }

// MaterialByIndex returns the i-th material, or nil if out of range.
func (m *Model) MaterialByIndex(i int) *Material {
	if i < 0 || i >= len(m.materials) {
		return nil
	}
	return m.materials[i]
}

// MaterialByName returns the first material with the given name, or nil.
// Duplicate names are kept; the earliest definition wins.
func (m *Model) MaterialByName(name string) *Material {
	for _, mat := range m.materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// Bounds returns the axis-aligned box of every position declared in the file.
// For a file without positions both corners hold the BoundingBox sentinels.
func (m *Model) Bounds() (min, max mgl32.Vec4) {
	return m.boundsMin, m.boundsMax
}

// Warnings returns the recoverable problems met while loading, combined with
// multierr, or nil if there were none.
func (m *Model) Warnings() error { return m.warnings }

// WarningList returns Warnings as a slice.
func (m *Model) WarningList() []error { return multierr.Errors(m.warnings) }

// VertexCount returns the total number of vertices across all meshes.
func (m *Model) VertexCount() int {
	total := 0
	for _, mesh := range m.meshes {
		total += len(mesh.Vertices)
	}
	return total
}

// TriangleCount returns the total number of triangles across all meshes.
func (m *Model) TriangleCount() int {
	total := 0
	for _, mesh := range m.meshes {
		total += mesh.TriangleCount()
	}
	return total
}
