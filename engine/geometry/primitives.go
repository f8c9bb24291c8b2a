package geometry

import (
	"math"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
)

var white = [4]float32{1, 1, 1, 1}

// Box returns an axis-aligned box of the given size centered at the origin,
// with four vertices per face so each face keeps a flat normal.
func Box(width, height, depth float32) Mesh {
	hw, hh, hd := width/2, height/2, depth/2
	faces := []struct {
		n       [3]float32
		corners [4][3]float32
	}{
		{[3]float32{1, 0, 0}, [4][3]float32{{hw, -hh, hd}, {hw, -hh, -hd}, {hw, hh, -hd}, {hw, hh, hd}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hw, -hh, -hd}, {-hw, -hh, hd}, {-hw, hh, hd}, {-hw, hh, -hd}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hw, hh, hd}, {hw, hh, hd}, {hw, hh, -hd}, {-hw, hh, -hd}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hw, -hh, -hd}, {hw, -hh, -hd}, {hw, -hh, hd}, {-hw, -hh, hd}}},
		{[3]float32{0, 0, 1}, [4][3]float32{{-hw, -hh, hd}, {hw, -hh, hd}, {hw, hh, hd}, {-hw, hh, hd}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{hw, -hh, -hd}, {-hw, -hh, -hd}, {-hw, hh, -hd}, {hw, hh, -hd}}},
	}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	m := Mesh{Name: "box", Topology: TopologyTriangles}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for i, c := range f.corners {
			m.Vertices = append(m.Vertices, Vertex{Position: c, Normal: f.n, TexCoord: uvs[i], Color: white})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Sphere returns a UV sphere centered at the origin.
//
// Parameters:
//   - radius: the sphere radius
//   - widthSegments: longitudinal subdivisions (minimum 3)
//   - heightSegments: latitudinal subdivisions (minimum 2)
//
// Returns:
//   - Mesh: the sphere
func Sphere(radius float32, widthSegments, heightSegments int) Mesh {
	widthSegments = max(3, widthSegments)
	heightSegments = max(2, heightSegments)

	m := Mesh{Name: "sphere", Topology: TopologyTriangles}
	for y := 0; y <= heightSegments; y++ {
		v := float64(y) / float64(heightSegments)
		theta := v * math.Pi
		for x := 0; x <= widthSegments; x++ {
			u := float64(x) / float64(widthSegments)
			phi := u * 2 * math.Pi
			n := [3]float32{
				float32(-math.Cos(phi) * math.Sin(theta)),
				float32(math.Cos(theta)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			m.Vertices = append(m.Vertices, Vertex{
				Position: common.Scale3(n, radius),
				Normal:   n,
				TexCoord: [2]float32{float32(u), float32(1 - v)},
				Color:    white,
			})
		}
	}

	row := uint32(widthSegments + 1)
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < widthSegments; x++ {
			a := uint32(y)*row + uint32(x) + 1
			b := uint32(y)*row + uint32(x)
			c := uint32(y+1)*row + uint32(x)
			d := uint32(y+1)*row + uint32(x) + 1
			if y != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if y != heightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}
	return m
}

// Cone returns a closed cone standing on the XZ plane with its apex at +Y.
//
// Parameters:
//   - radius: the base radius
//   - height: the apex height above the base
//   - radialSegments: subdivisions around the axis (minimum 3)
//
// Returns:
//   - Mesh: the cone
func Cone(radius, height float32, radialSegments int) Mesh {
	radialSegments = max(3, radialSegments)
	m := Mesh{Name: "cone", Topology: TopologyTriangles}

	apex := uint32(0)
	m.Vertices = append(m.Vertices, Vertex{Position: [3]float32{0, height, 0}, Color: white})
	center := uint32(1)
	m.Vertices = append(m.Vertices, Vertex{Position: [3]float32{0, 0, 0}, Color: white})

	base := uint32(len(m.Vertices))
	for i := 0; i < radialSegments; i++ {
		a := 2 * math.Pi * float64(i) / float64(radialSegments)
		m.Vertices = append(m.Vertices, Vertex{
			Position: [3]float32{radius * float32(math.Cos(a)), 0, radius * float32(math.Sin(a))},
			TexCoord: [2]float32{float32(i) / float32(radialSegments), 0},
			Color:    white,
		})
	}
	for i := 0; i < radialSegments; i++ {
		cur := base + uint32(i)
		next := base + uint32((i+1)%radialSegments)
		m.Indices = append(m.Indices, apex, next, cur)
		m.Indices = append(m.Indices, center, cur, next)
	}
	m.ComputeNormals()
	return m
}

// Plane returns a subdivided rectangle in the XY plane facing +Z, centered at the origin.
//
// Parameters:
//   - width, height: the plane size
//   - segW, segH: subdivisions along each axis (minimum 1)
//
// Returns:
//   - Mesh: the plane
func Plane(width, height float32, segW, segH int) Mesh {
	segW = max(1, segW)
	segH = max(1, segH)
	m := Mesh{Name: "plane", Topology: TopologyTriangles}

	for iy := 0; iy <= segH; iy++ {
		v := float32(iy) / float32(segH)
		for ix := 0; ix <= segW; ix++ {
			u := float32(ix) / float32(segW)
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{(u - 0.5) * width, (v - 0.5) * height, 0},
				Normal:   [3]float32{0, 0, 1},
				TexCoord: [2]float32{u, v},
				Color:    white,
			})
		}
	}

	row := uint32(segW + 1)
	for iy := 0; iy < segH; iy++ {
		for ix := 0; ix < segW; ix++ {
			a := uint32(iy)*row + uint32(ix)
			b := a + 1
			c := a + row + 1
			d := a + row
			m.Indices = append(m.Indices, a, b, c, a, c, d)
		}
	}
	return m
}

// Point returns a single-vertex point mesh at the origin.
func Point() Mesh {
	return Mesh{
		Name:     "point",
		Topology: TopologyPoints,
		Vertices: []Vertex{{Normal: [3]float32{0, 1, 0}, Color: white}},
	}
}

// Band returns a flat quad strip from a to b of the given width, lying in the
// plane of its endpoints' Z and facing +Z.
//
// Parameters:
//   - a, b: the centerline endpoints
//   - width: the band width across the centerline
//
// Returns:
//   - Mesh: the band
func Band(a, b [3]float32, width float32) Mesh {
	dir := common.Normalize3(common.Sub3(b, a))
	side := common.Scale3(common.Normalize3(common.Cross3([3]float32{0, 0, 1}, dir)), width/2)
	m := Mesh{Name: "band", Topology: TopologyTriangles}
	corners := [4][3]float32{
		common.Sub3(a, side),
		common.Sub3(b, side),
		common.Add3(b, side),
		common.Add3(a, side),
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, c := range corners {
		m.Vertices = append(m.Vertices, Vertex{Position: c, Normal: [3]float32{0, 0, 1}, TexCoord: uvs[i], Color: white})
	}
	m.Indices = []uint32{0, 1, 2, 0, 2, 3}
	return m
}

// Tube sweeps a circle of the given radius along path.
//
// Parameters:
//   - path: the centerline; a closed path joins its last ring to the first
//   - radius: the tube radius
//   - radialSegments: subdivisions around the centerline (minimum 3)
//
// Returns:
//   - Mesh: the tube
func Tube(path Curve, radius float32, radialSegments int) Mesh {
	radialSegments = max(3, radialSegments)
	m := Mesh{Name: "tube", Topology: TopologyTriangles}
	n := len(path.Points)
	if n < 2 {
		return m
	}

	up := [3]float32{0, 0, 1}
	for i, p := range path.Points {
		var prev, next [3]float32
		switch {
		case path.Closed:
			prev, next = path.Points[(i-1+n)%n], path.Points[(i+1)%n]
		case i == 0:
			prev, next = p, path.Points[1]
		case i == n-1:
			prev, next = path.Points[n-2], p
		default:
			prev, next = path.Points[i-1], path.Points[i+1]
		}
		t := common.Normalize3(common.Sub3(next, prev))
		nrm := common.Normalize3(common.Cross3(up, t))
		if common.Length3(nrm) < 1e-6 {
			nrm = [3]float32{1, 0, 0}
		}
		bin := common.Cross3(t, nrm)

		for j := 0; j < radialSegments; j++ {
			a := 2 * math.Pi * float64(j) / float64(radialSegments)
			c, s := float32(math.Cos(a)), float32(math.Sin(a))
			dir := common.Add3(common.Scale3(nrm, c), common.Scale3(bin, s))
			m.Vertices = append(m.Vertices, Vertex{
				Position: common.Add3(p, common.Scale3(dir, radius)),
				Normal:   dir,
				TexCoord: [2]float32{float32(i) / float32(n), float32(j) / float32(radialSegments)},
				Color:    white,
			})
		}
	}

	segments := n - 1
	if path.Closed {
		segments = n
	}
	rs := uint32(radialSegments)
	for i := 0; i < segments; i++ {
		r0 := uint32(i) * rs
		r1 := uint32((i+1)%n) * rs
		for j := uint32(0); j < rs; j++ {
			jn := (j + 1) % rs
			a, b, c, d := r0+j, r1+j, r1+jn, r0+jn
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
	return m
}

// Grid returns a square line grid in the XY plane centered at the origin.
// Each line is colored by blending colorA toward colorB with its distance from
// the center relative to size.
//
// Parameters:
//   - size: the edge length
//   - divisions: the number of cells per side
//   - colorA: the center color
//   - colorB: the edge color
//
// Returns:
//   - Mesh: the line-segment grid with 2*(divisions+1) lines
func Grid(size float32, divisions int, colorA, colorB common.Color) Mesh {
	divisions = max(1, divisions)
	m := Mesh{Name: "grid", Topology: TopologyLines}
	half := size / 2

	addLine := func(a, b [3]float32, offset float32) {
		c := colorA.Lerp(colorB, float32(math.Abs(float64(offset)))/size)
		c[3] = 1
		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices,
			Vertex{Position: a, Normal: [3]float32{0, 0, 1}, Color: c},
			Vertex{Position: b, Normal: [3]float32{0, 0, 1}, Color: c},
		)
		m.Indices = append(m.Indices, base, base+1)
	}

	for i := 0; i <= divisions; i++ {
		y := (float32(i)/float32(divisions) - 0.5) * size
		addLine([3]float32{-half, y, 0}, [3]float32{half, y, 0}, y)
	}
	for i := 0; i <= divisions; i++ {
		x := (float32(i)/float32(divisions) - 0.5) * size
		addLine([3]float32{x, -half, 0}, [3]float32{x, half, 0}, x)
	}
	return m
}
