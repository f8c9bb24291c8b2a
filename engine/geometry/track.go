package geometry

import (
	"fmt"
	"math"
)

// TrackMesh is the banked, extruded ribbon of a velodrome.
type TrackMesh struct {
	Mesh

	// Params are the parameters the mesh was built from.
	Params TrackParameters

	// Bank holds the banking lift applied to each vertex.
	Bank []float32

	// LoopSize is the sample count of each outline ring.
	LoopSize int

	// SurfaceCount is the number of leading vertices that form the riding surface.
	SurfaceCount int
}

// SurfaceVertex returns the riding-surface vertex on lane (0 = inner edge,
// WidthSegments = outer edge) at outline index i.
func (t *TrackMesh) SurfaceVertex(lane, i int) Vertex {
	return t.Vertices[lane*t.LoopSize+i]
}

// NearestVertex returns the index of the vertex closest to (x, y) by planar
// distance. Ties resolve to the lowest index, which favors the riding surface.
// This is a linear scan over every vertex.
func (t *TrackMesh) NearestVertex(x, y float32) int {
	return nearestPlanar(t.Vertices, x, y)
}

// MaxHeight returns the highest vertex Z.
func (t *TrackMesh) MaxHeight() float32 {
	var h float32
	for _, v := range t.Vertices {
		h = max(h, v.Position[2])
	}
	return h
}

// BuildTrackMesh synthesizes the velodrome ribbon from p. The outline is two
// straights and two 180° arcs; the inset copy at the inner radius forms the hole.
// The ribbon is laid out in WidthSegments lanes, extruded by Extrusion.Depth
// with beveled walls, and then every vertex is lifted by BankingHeight.
// The function is deterministic: identical parameters yield identical meshes.
//
// Parameters:
//   - p: the track parameters
//
// Returns:
//   - *TrackMesh: the banked mesh with normals
//   - error: error if the parameters cannot form a ribbon
func BuildTrackMesh(p TrackParameters) (*TrackMesh, error) {
	if p.TrackWidth <= 0 || p.CurveRadius <= p.TrackWidth {
		return nil, fmt.Errorf("invalid track dimensions: radius %.2f width %.2f", p.CurveRadius, p.TrackWidth)
	}
	if p.StraightLength < 0 {
		return nil, fmt.Errorf("invalid straight length %.2f", p.StraightLength)
	}

	lanes := max(1, p.WidthSegments)
	ex := p.Extrusion
	bevelSegs := max(1, ex.BevelSegments)
	inner := p.InnerRadius()

	loops := make([][]loopPoint, lanes+1)
	for k := 0; k <= lanes; k++ {
		r := inner + p.TrackWidth*float64(k)/float64(lanes)
		loops[k] = stadiumLoop(p.HalfLength(), r, p.StraightSegments, p.CurveSegments)
	}
	n := len(loops[0])

	top := ex.Depth + ex.BevelThickness
	bottom := -ex.BevelThickness

	tm := &TrackMesh{Params: p, LoopSize: n}
	tm.Name = fmt.Sprintf("track-%s", p.Discipline)
	tm.Topology = TopologyTriangles

	emit := func(lp loopPoint, outward, z float64, u, v float32) {
		x := lp.P[0] + lp.N[0]*outward
		y := lp.P[1] + lp.N[1]*outward
		tm.Vertices = append(tm.Vertices, Vertex{
			Position: [3]float32{float32(x), float32(y), float32(z)},
			TexCoord: [2]float32{u, v},
			Color:    [4]float32{1, 1, 1, 1},
		})
	}

	// Riding surface lanes, inner to outer.
	for k := 0; k <= lanes; k++ {
		for i, lp := range loops[k] {
			emit(lp, 0, top, float32(i)/float32(n), float32(k)/float32(lanes))
		}
	}
	tm.SurfaceCount = len(tm.Vertices)

	// Underside: inner and outer edge only.
	bottomBase := len(tm.Vertices)
	for _, k := range []int{0, lanes} {
		for i, lp := range loops[k] {
			emit(lp, 0, bottom, float32(i)/float32(n), float32(k)/float32(lanes))
		}
	}

	// Bevel profile from the top edge down to the bottom edge.
	type ring struct{ z, out float64 }
	profile := make([]ring, 0, 2*(bevelSegs+1))
	for s := 0; s <= bevelSegs; s++ {
		theta := float64(s) / float64(bevelSegs) * math.Pi / 2
		profile = append(profile, ring{z: ex.Depth + ex.BevelThickness*math.Cos(theta), out: ex.BevelSize * math.Sin(theta)})
	}
	for s := 0; s <= bevelSegs; s++ {
		theta := float64(s) / float64(bevelSegs) * math.Pi / 2
		profile = append(profile, ring{z: -ex.BevelThickness * math.Sin(theta), out: ex.BevelSize * math.Cos(theta)})
	}

	// Walls: outer edge pushes along the outline normal, inner edge against it.
	wallBase := len(tm.Vertices)
	edges := []struct {
		lane int
		sign float64
	}{{lanes, 1}, {0, -1}}
	for _, e := range edges {
		for ri, r := range profile {
			for i, lp := range loops[e.lane] {
				emit(lp, e.sign*r.out, r.z, float32(i)/float32(n), float32(ri)/float32(len(profile)-1))
			}
		}
	}

	idx := func(base, row, i int) uint32 {
		return uint32(base + row*n + (i % n))
	}

	for k := 0; k < lanes; k++ {
		for i := 0; i < n; i++ {
			a, b := idx(0, k, i), idx(0, k, i+1)
			c, d := idx(0, k+1, i+1), idx(0, k+1, i)
			tm.Indices = append(tm.Indices, a, c, b, a, d, c)
		}
	}
	for i := 0; i < n; i++ {
		a, b := idx(bottomBase, 0, i), idx(bottomBase, 0, i+1)
		c, d := idx(bottomBase, 1, i+1), idx(bottomBase, 1, i)
		tm.Indices = append(tm.Indices, a, b, c, a, c, d)
	}
	rings := len(profile)
	for ei := range edges {
		for r := 0; r+1 < rings; r++ {
			row := ei*rings + r
			for i := 0; i < n; i++ {
				a, b := idx(wallBase, row, i), idx(wallBase, row, i+1)
				c, d := idx(wallBase, row+1, i+1), idx(wallBase, row+1, i)
				if ei == 0 {
					tm.Indices = append(tm.Indices, a, d, c, a, c, b)
				} else {
					tm.Indices = append(tm.Indices, a, b, c, a, c, d)
				}
			}
		}
	}

	tm.Bank = make([]float32, len(tm.Vertices))
	for i := range tm.Vertices {
		pos := &tm.Vertices[i].Position
		h := float32(p.BankingHeight(float64(pos[0]), float64(pos[1])))
		tm.Bank[i] = h
		pos[2] += h
	}

	tm.ComputeNormals()
	return tm, nil
}
