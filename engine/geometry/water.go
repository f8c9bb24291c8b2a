package geometry

import (
	"fmt"
)

// WaterCourseOptions tunes the procedural water course.
type WaterCourseOptions struct {
	// PlaneSize is the edge length of the square water plane.
	PlaneSize float32

	// PlaneSegments subdivides the water plane along each axis.
	PlaneSegments int

	// ControlStraightSegments and ControlCurveSegments set the coarse outline
	// the boundary spline interpolates.
	ControlStraightSegments int
	ControlCurveSegments    int

	// TubeSegments is the number of spline samples along the boundary.
	TubeSegments int

	// TubeRadius and TubeRadialSegments shape the boundary tube cross-section.
	TubeRadius         float32
	TubeRadialSegments int

	// TubeHeight lifts the boundary above the water surface.
	TubeHeight float32

	// StartBandWidth is the width of the start/finish band across the course.
	StartBandWidth float32
}

// DefaultWaterCourseOptions returns the tuning used by the boat scene.
func DefaultWaterCourseOptions() WaterCourseOptions {
	return WaterCourseOptions{
		PlaneSize:               10000,
		PlaneSegments:           128,
		ControlStraightSegments: 2,
		ControlCurveSegments:    8,
		TubeSegments:            200,
		TubeRadius:              0.4,
		TubeRadialSegments:      8,
		TubeHeight:              0.1,
		StartBandWidth:          1,
	}
}

// WaterCourse is the static geometry of the boat discipline.
type WaterCourse struct {
	// Plane is the animated water surface.
	Plane Mesh

	// Boundary is the smooth closed centerline of the course boundary.
	Boundary Curve

	// Tube is the swept boundary.
	Tube Mesh

	// Buoys are the turn-mark positions at the two arc centers.
	Buoys [2][3]float32

	// StartBand spans the course at the start/finish line.
	StartBand Mesh
}

// CatmullRom samples a uniform Catmull-Rom spline through the control points.
//
// Parameters:
//   - control: the control points, at least two
//   - samples: the number of output samples
//   - closed: whether the spline loops back to the first control point
//
// Returns:
//   - Curve: the sampled spline
func CatmullRom(control [][3]float32, samples int, closed bool) Curve {
	n := len(control)
	if n < 2 || samples < 2 {
		return Curve{Points: append([][3]float32(nil), control...), Closed: closed}
	}

	at := func(i int) [3]float32 {
		if closed {
			return control[((i%n)+n)%n]
		}
		return control[min(max(i, 0), n-1)]
	}

	spans := n - 1
	if closed {
		spans = n
	}

	out := make([][3]float32, 0, samples)
	for s := 0; s < samples; s++ {
		var u float32
		if closed {
			u = float32(s) / float32(samples) * float32(spans)
		} else {
			u = float32(s) / float32(samples-1) * float32(spans)
		}
		i := int(u)
		if i >= spans {
			i = spans - 1
		}
		t := u - float32(i)

		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		t2, t3 := t*t, t*t*t
		var p [3]float32
		for k := 0; k < 3; k++ {
			p[k] = 0.5 * ((2 * p1[k]) +
				(-p0[k]+p2[k])*t +
				(2*p0[k]-5*p1[k]+4*p2[k]-p3[k])*t2 +
				(-p0[k]+3*p1[k]-3*p2[k]+p3[k])*t3)
		}
		out = append(out, p)
	}
	return Curve{Points: out, Closed: closed}
}

// BuildWaterCourse synthesizes the water plane, the smooth boundary tube along the
// outer edge of the stadium outline, the two turn-buoy positions and the
// start/finish band.
//
// Parameters:
//   - p: the course parameters
//   - opts: tuning options
//
// Returns:
//   - *WaterCourse: the course geometry in track space
//   - error: error if the parameters cannot form a course
func BuildWaterCourse(p TrackParameters, opts WaterCourseOptions) (*WaterCourse, error) {
	if p.CurveRadius <= 0 || p.TrackWidth <= 0 || p.TrackWidth >= p.CurveRadius {
		return nil, fmt.Errorf("invalid course dimensions: radius %.2f width %.2f", p.CurveRadius, p.TrackWidth)
	}

	loop := stadiumLoop(p.HalfLength(), p.CurveRadius, opts.ControlStraightSegments, opts.ControlCurveSegments)
	control := make([][3]float32, len(loop))
	for i, lp := range loop {
		control[i] = [3]float32{float32(lp.P[0]), float32(lp.P[1]), opts.TubeHeight}
	}
	boundary := CatmullRom(control, opts.TubeSegments, true)

	tube := Tube(boundary, opts.TubeRadius, opts.TubeRadialSegments)
	tube.Name = "water-boundary"

	plane := Plane(opts.PlaneSize, opts.PlaneSize, opts.PlaneSegments, opts.PlaneSegments)
	plane.Name = "water"

	hl := float32(p.HalfLength())
	r := float32(p.CurveRadius)
	band := Band([3]float32{0, -r, 0.02}, [3]float32{0, -r + float32(p.TrackWidth), 0.02}, opts.StartBandWidth)
	band.Name = "start-band"

	return &WaterCourse{
		Plane:     plane,
		Boundary:  boundary,
		Tube:      tube,
		Buoys:     [2][3]float32{{hl, 0, 0}, {-hl, 0, 0}},
		StartBand: band,
	}, nil
}
