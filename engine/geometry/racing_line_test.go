package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRacingLine_HeightMatchesNearestSurfaceVertex(t *testing.T) {
	p := KeirinParameters()
	tm, err := BuildTrackMesh(p)
	require.NoError(t, err)

	line := RacingLine(tm)
	require.Equal(t, 2*p.StraightSegments+2*p.RacingLineSegments, line.Len())
	assert.True(t, line.Closed)

	surface := tm.Vertices[:tm.SurfaceCount]
	for i, pt := range line.Points {
		best, bestDist := -1, math.Inf(1)
		for j, v := range surface {
			d := math.Hypot(float64(v.Position[0]-pt[0]), float64(v.Position[1]-pt[1]))
			if d < bestDist {
				best, bestDist = j, d
			}
		}
		require.GreaterOrEqual(t, best, 0)
		assert.InDelta(t, surface[best].Position[2]+float32(p.RacingLineClearance), pt[2], 1e-6, "sample %d", i)
	}
}

func TestRacingLine_FollowsMidRadius(t *testing.T) {
	p := KeirinParameters()
	tm, err := BuildTrackMesh(p)
	require.NoError(t, err)

	hl := float32(p.HalfLength())
	for _, pt := range RacingLine(tm).Points {
		var r float64
		switch {
		case pt[0] > hl:
			r = math.Hypot(float64(pt[0]-hl), float64(pt[1]))
		case pt[0] < -hl:
			r = math.Hypot(float64(pt[0]+hl), float64(pt[1]))
		default:
			r = math.Abs(float64(pt[1]))
		}
		assert.InDelta(t, p.MidRadius(), r, 1e-4)
	}
}

func TestSnapToSurface(t *testing.T) {
	surface := []Vertex{
		{Position: [3]float32{0, 0, 1}},
		{Position: [3]float32{10, 0, 2}},
		{Position: [3]float32{10, 0, 9}},
	}

	out := SnapToSurface([][2]float32{{1, 1}, {9, 0}, {100, 100}}, surface, 0.5)
	require.Len(t, out, 3)
	assert.Equal(t, [3]float32{1, 1, 1.5}, out[0])
	// Ties resolve to the first vertex.
	assert.Equal(t, [3]float32{9, 0, 2.5}, out[1])
	assert.Equal(t, [3]float32{100, 100, 2.5}, out[2])

	empty := SnapToSurface([][2]float32{{3, 4}}, nil, 0.25)
	assert.Equal(t, [3]float32{3, 4, 0.25}, empty[0])
}

func TestLaneLine_Clearance(t *testing.T) {
	p := KeirinParameters()
	tm, err := BuildTrackMesh(p)
	require.NoError(t, err)

	inner := LaneLine(tm, p.InnerRadius()+0.3, 0.05)
	for _, pt := range inner.Points {
		assert.GreaterOrEqual(t, pt[2], surfaceZ(p)+0.05-1e-6)
	}
}
