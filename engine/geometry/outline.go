package geometry

import (
	"math"
)

// loopPoint is one sample of a stadium outline with its outward planar normal.
type loopPoint struct {
	P [2]float64
	N [2]float64
}

// stadiumLoop samples a closed stadium outline of the given radius,
// counter-clockwise, with no duplicated closing point:
// bottom straight (+X), right arc, top straight (-X), left arc.
// Every radius yields the same sample count for equal segment counts, so
// outlines at different radii correspond index by index.
//
// Parameters:
//   - halfLength: half of the straight length
//   - radius: the distance of the outline from the straight axis
//   - straightSegments: subdivisions per straight
//   - curveSegments: subdivisions per arc
//
// Returns:
//   - []loopPoint: 2*straightSegments + 2*curveSegments samples
func stadiumLoop(halfLength, radius float64, straightSegments, curveSegments int) []loopPoint {
	straightSegments = max(1, straightSegments)
	curveSegments = max(1, curveSegments)
	out := make([]loopPoint, 0, 2*(straightSegments+curveSegments))

	for i := 0; i < straightSegments; i++ {
		t := float64(i) / float64(straightSegments)
		out = append(out, loopPoint{P: [2]float64{-halfLength + 2*halfLength*t, -radius}, N: [2]float64{0, -1}})
	}
	for j := 0; j < curveSegments; j++ {
		a := -math.Pi/2 + math.Pi*float64(j)/float64(curveSegments)
		c, s := math.Cos(a), math.Sin(a)
		out = append(out, loopPoint{P: [2]float64{halfLength + radius*c, radius * s}, N: [2]float64{c, s}})
	}
	for i := 0; i < straightSegments; i++ {
		t := float64(i) / float64(straightSegments)
		out = append(out, loopPoint{P: [2]float64{halfLength - 2*halfLength*t, radius}, N: [2]float64{0, 1}})
	}
	for j := 0; j < curveSegments; j++ {
		a := math.Pi/2 + math.Pi*float64(j)/float64(curveSegments)
		c, s := math.Cos(a), math.Sin(a)
		out = append(out, loopPoint{P: [2]float64{-halfLength + radius*c, radius * s}, N: [2]float64{c, s}})
	}
	return out
}

// Outline returns the closed stadium outline at radius as planar points.
//
// Parameters:
//   - p: the track parameters supplying the straight length and tessellation
//   - radius: the outline radius
//   - curveSegments: arc tessellation
//
// Returns:
//   - [][2]float32: the counter-clockwise outline samples
func Outline(p TrackParameters, radius float64, curveSegments int) [][2]float32 {
	loop := stadiumLoop(p.HalfLength(), radius, p.StraightSegments, curveSegments)
	out := make([][2]float32, len(loop))
	for i, lp := range loop {
		out[i] = [2]float32{float32(lp.P[0]), float32(lp.P[1])}
	}
	return out
}
