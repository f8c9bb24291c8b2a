// Package geometry synthesizes the procedural meshes of the race scene: the banked
// velodrome ribbon, the curves derived from it, the water course and a set of
// small primitives used by the decorations.
//
// Track-space convention: the track outline lies in the XY plane with banking
// height on +Z. Scene nodes holding track-space meshes are rotated -π/2 about X,
// which maps (x, y, z) to world (x, z, -y).
package geometry

import (
	"math"
)

// Topology describes how a mesh's indices are assembled into primitives.
type Topology int

const (
	// TopologyTriangles interprets every three indices as a triangle.
	TopologyTriangles Topology = iota
	// TopologyLines interprets every two indices as an independent segment.
	TopologyLines
	// TopologyLineStrip connects consecutive vertices; Closed meshes also join last to first.
	TopologyLineStrip
	// TopologyPoints draws one point per vertex.
	TopologyPoints
)

func (t Topology) String() string {
	switch t {
	case TopologyTriangles:
		return "triangles"
	case TopologyLines:
		return "lines"
	case TopologyLineStrip:
		return "line-strip"
	case TopologyPoints:
		return "points"
	}
	return "unknown"
}

// Vertex is one mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Color    [4]float32
}

// Mesh is an indexed vertex set. Line strips and point sets may leave Indices empty.
type Mesh struct {
	// Name is a debug label.
	Name string

	// Topology selects the primitive assembly.
	Topology Topology

	// Closed marks line strips that loop back to their first vertex.
	Closed bool

	// Vertices holds the vertex data.
	Vertices []Vertex

	// Indices holds the index buffer.
	Indices []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Bounds returns the axis-aligned bounding box of the mesh.
//
// Returns:
//   - [3]float32: minimum corner
//   - [3]float32: maximum corner
func (m *Mesh) Bounds() ([3]float32, [3]float32) {
	if len(m.Vertices) == 0 {
		return [3]float32{}, [3]float32{}
	}

	bmin := m.Vertices[0].Position
	bmax := m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Position[i] < bmin[i] {
				bmin[i] = v.Position[i]
			}
			if v.Position[i] > bmax[i] {
				bmax[i] = v.Position[i]
			}
		}
	}
	return bmin, bmax
}

// Positions returns a copy of every vertex position.
func (m *Mesh) Positions() [][3]float32 {
	out := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Position
	}
	return out
}

// SetColor paints every vertex with c.
func (m *Mesh) SetColor(c [4]float32) {
	for i := range m.Vertices {
		m.Vertices[i].Color = c
	}
}

// ComputeNormals computes smooth per-vertex normals by accumulating area-weighted
// face normals of every triangle that references each vertex. Vertices touched by
// no triangle, or whose accumulated normal degenerates, receive +Z.
// Only meaningful for TopologyTriangles meshes; other topologies are left unchanged.
func (m *Mesh) ComputeNormals() {
	if m.Topology != TopologyTriangles {
		return
	}

	n := len(m.Vertices)
	accum := make([][3]float64, n)

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}

		p0, p1, p2 := m.Vertices[i0].Position, m.Vertices[i1].Position, m.Vertices[i2].Position
		e1 := [3]float64{float64(p1[0] - p0[0]), float64(p1[1] - p0[1]), float64(p1[2] - p0[2])}
		e2 := [3]float64{float64(p2[0] - p0[0]), float64(p2[1] - p0[1]), float64(p2[2] - p0[2])}

		face := [3]float64{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}

		for _, idx := range [3]uint32{i0, i1, i2} {
			accum[idx][0] += face[0]
			accum[idx][1] += face[1]
			accum[idx][2] += face[2]
		}
	}

	for i := range n {
		a := accum[i]
		length := math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
		if length < 1e-12 {
			m.Vertices[i].Normal = [3]float32{0, 0, 1}
			continue
		}
		m.Vertices[i].Normal = [3]float32{float32(a[0] / length), float32(a[1] / length), float32(a[2] / length)}
	}
}

// Merge appends the vertices and indices of other into m, rebasing indices.
// Both meshes must share a topology.
func (m *Mesh) Merge(other Mesh) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}

// Translate offsets every vertex position by d.
func (m *Mesh) Translate(d [3]float32) {
	for i := range m.Vertices {
		m.Vertices[i].Position[0] += d[0]
		m.Vertices[i].Position[1] += d[1]
		m.Vertices[i].Position[2] += d[2]
	}
}

// Curve is an ordered 3D polyline.
type Curve struct {
	// Points are the samples in order.
	Points [][3]float32

	// Closed marks curves whose last point connects back to the first.
	Closed bool
}

// Len returns the number of samples.
func (c Curve) Len() int {
	return len(c.Points)
}

// Mesh converts the curve into a line-strip mesh.
func (c Curve) Mesh(name string) Mesh {
	m := Mesh{Name: name, Topology: TopologyLineStrip, Closed: c.Closed}
	m.Vertices = make([]Vertex, len(c.Points))
	for i, p := range c.Points {
		m.Vertices[i] = Vertex{Position: p, Normal: [3]float32{0, 0, 1}, Color: [4]float32{1, 1, 1, 1}}
	}
	return m
}

// Centroid returns the arithmetic mean of the curve's samples.
func (c Curve) Centroid() [3]float32 {
	var sum [3]float64
	for _, p := range c.Points {
		sum[0] += float64(p[0])
		sum[1] += float64(p[1])
		sum[2] += float64(p[2])
	}
	if len(c.Points) == 0 {
		return [3]float32{}
	}
	n := float64(len(c.Points))
	return [3]float32{float32(sum[0] / n), float32(sum[1] / n), float32(sum[2] / n)}
}
