package wavefront

import (
	"fmt"
	"strconv"
	"strings"
)

// Triplet holds the 1-based position, texture and normal indices of one face
// vertex as written in the file. Zero VT or VN means the slot is absent.
type Triplet struct {
	V, VT, VN int
}

// ParseTriplet parses "v", "v/vt", "v//vn" or "v/vt/vn".
func ParseTriplet(tok string) (Triplet, error) {
	var t Triplet
	parts := SplitAt(tok, "/")
	if len(parts) == 0 || parts[0] == "" {
		return t, fmt.Errorf("%w: empty vertex index in %q", ErrMalformedNumber, tok)
	}

	fields := []*int{&t.V, &t.VT, &t.VN}
	for i, part := range parts {
		if i >= len(fields) {
			break
		}
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Triplet{}, fmt.Errorf("%w: %q", ErrMalformedNumber, tok)
		}
		*fields[i] = n
	}
	return t, nil
}

// parseFace splits face data into triplets.
func parseFace(data string) ([]Triplet, error) {
	tokens := strings.Fields(data)
	triplets := make([]Triplet, 0, len(tokens))
	for _, tok := range tokens {
		t, err := ParseTriplet(tok)
		if err != nil {
			return nil, err
		}
		triplets = append(triplets, t)
	}
	return triplets, nil
}

// appendFace resolves face triplets against the pool, appends one vertex per
// triplet to mesh and fan-triangulates them. When the file carries no normals
// each triangle's flat normal is written to its three vertices, later triangles
// overwriting shared slots.
//
// Nothing is appended if any triplet fails to resolve.
func appendFace(mesh *Mesh, pool *geometryPool, triplets []Triplet) error {
	verts := make([]Vertex, 0, len(triplets))
	for _, t := range triplets {
		v, err := pool.resolve(t)
		if err != nil {
			return err
		}
		verts = append(verts, v)
	}

	first := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, verts...)

	calcNormals := !pool.hasNormals()
	for offset := uint32(1); int(offset)+1 < len(verts); offset++ {
		a, b, c := first, first+offset, first+offset+1
		mesh.Indices = append(mesh.Indices, a, b, c)

		if calcNormals {
			n := mesh.faceNormal(a, b, c)
			mesh.Vertices[a].Normal = n
			mesh.Vertices[b].Normal = n
			mesh.Vertices[c].Normal = n
		}
	}
	return nil
}
