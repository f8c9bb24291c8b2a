package geometry

import (
	"math"
)

// nearestPlanar returns the index of the vertex closest to (x, y) in the XY
// plane, or -1 for an empty slice. The first minimum wins on ties.
func nearestPlanar(vertices []Vertex, x, y float32) int {
	best := -1
	bestDist := math.MaxFloat64
	for i := range vertices {
		dx := float64(vertices[i].Position[0] - x)
		dy := float64(vertices[i].Position[1] - y)
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// SnapToSurface lifts planar samples onto a surface: each sample copies the Z of
// its nearest surface vertex by planar distance, plus clearance.
// Runs in O(len(points) × len(surface)); acceptable for tens of samples against a
// few thousand vertices.
//
// Parameters:
//   - points: the planar samples
//   - surface: the vertices to snap against
//   - clearance: the constant offset above the snapped height
//
// Returns:
//   - [][3]float32: the lifted samples, in input order
func SnapToSurface(points [][2]float32, surface []Vertex, clearance float32) [][3]float32 {
	out := make([][3]float32, len(points))
	for i, pt := range points {
		var h float32
		if j := nearestPlanar(surface, pt[0], pt[1]); j >= 0 {
			h = surface[j].Position[2]
		}
		out[i] = [3]float32{pt[0], pt[1], h + clearance}
	}
	return out
}

// RacingLine samples the mid-width path of the ribbon and snaps it onto the
// banked surface with RacingLineClearance.
//
// Parameters:
//   - track: the banked mesh to follow
//
// Returns:
//   - Curve: the closed racing line
func RacingLine(track *TrackMesh) Curve {
	p := track.Params
	return LaneLine(track, p.MidRadius(), float32(p.RacingLineClearance))
}

// LaneLine samples a closed outline at radius and snaps it onto the banked surface.
// Radii inside the inner edge snap to the nearest inner-edge sample.
//
// Parameters:
//   - track: the banked mesh to follow
//   - radius: the outline radius
//   - clearance: the height above the surface
//
// Returns:
//   - Curve: the closed lane line
func LaneLine(track *TrackMesh, radius float64, clearance float32) Curve {
	p := track.Params
	planar := Outline(p, radius, max(1, p.RacingLineSegments))
	return Curve{
		Points: SnapToSurface(planar, track.Vertices[:track.SurfaceCount], clearance),
		Closed: true,
	}
}
