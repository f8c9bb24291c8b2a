package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
)

func surfaceZ(p TrackParameters) float32 {
	return float32(p.Extrusion.Depth + p.Extrusion.BevelThickness)
}

func TestBuildTrackMesh_VertexLayout(t *testing.T) {
	p := KeirinParameters()
	tm, err := BuildTrackMesh(p)
	require.NoError(t, err)

	n := 2*p.StraightSegments + 2*p.CurveSegments
	rings := 2 * (p.Extrusion.BevelSegments + 1)
	lanes := p.WidthSegments + 1

	assert.Equal(t, n, tm.LoopSize)
	assert.Equal(t, lanes*n, tm.SurfaceCount)
	assert.Equal(t, lanes*n+2*n+2*rings*n, tm.VertexCount())
	assert.Len(t, tm.Bank, tm.VertexCount())
	assert.Zero(t, len(tm.Indices)%3)
	for _, idx := range tm.Indices {
		require.Less(t, int(idx), tm.VertexCount())
	}
}

func TestBuildTrackMesh_RejectsDegenerateDimensions(t *testing.T) {
	p := KeirinParameters()
	p.TrackWidth = p.CurveRadius
	_, err := BuildTrackMesh(p)
	assert.Error(t, err)

	p = KeirinParameters()
	p.TrackWidth = 0
	_, err = BuildTrackMesh(p)
	assert.Error(t, err)
}

func TestBuildTrackMesh_Deterministic(t *testing.T) {
	a, err := BuildTrackMesh(KeirinParameters())
	require.NoError(t, err)
	b, err := BuildTrackMesh(KeirinParameters())
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a.Vertices, b.Vertices))
	assert.Empty(t, cmp.Diff(a.Indices, b.Indices))
}

func TestBuildTrackMesh_StraightEdgesAreFlat(t *testing.T) {
	for _, p := range []TrackParameters{KeirinParameters(), BoatParameters()} {
		t.Run(string(p.Discipline), func(t *testing.T) {
			tm, err := BuildTrackMesh(p)
			require.NoError(t, err)

			limit := float32(p.HalfLength() - p.Banking.TransitionZone)
			checked := 0
			for _, lane := range []int{0, p.WidthSegments} {
				for i := 0; i < tm.LoopSize; i++ {
					v := tm.SurfaceVertex(lane, i)
					if math.Abs(float64(v.Position[0])) >= float64(limit) {
						continue
					}
					idx := lane*tm.LoopSize + i
					assert.InDelta(t, 0, tm.Bank[idx], 1e-6, "vertex %d at x=%.3f", idx, v.Position[0])
					assert.InDelta(t, surfaceZ(p), v.Position[2], 1e-6)
					checked++
				}
			}
			assert.Positive(t, checked)
		})
	}
}

func TestBuildTrackMesh_TurnsAreBanked(t *testing.T) {
	p := KeirinParameters()
	tm, err := BuildTrackMesh(p)
	require.NoError(t, err)

	mid := p.WidthSegments / 2
	apex := p.StraightSegments + p.CurveSegments/2
	v := tm.SurfaceVertex(mid, apex)
	assert.InDelta(t, p.HalfLength()+p.MidRadius(), float64(v.Position[0]), 1e-4)
	assert.Greater(t, float64(tm.Bank[mid*tm.LoopSize+apex]), 0.9)
	assert.Greater(t, tm.MaxHeight(), float32(1))
}

func TestBuildTrackMesh_SurfaceNormalsFaceUp(t *testing.T) {
	tm, err := BuildTrackMesh(KeirinParameters())
	require.NoError(t, err)

	for i := 0; i < tm.SurfaceCount; i++ {
		require.Greater(t, tm.Vertices[i].Normal[2], float32(0), "surface vertex %d", i)
	}
}

func TestHeightCurve_ZeroAtEdgesPeakAtMid(t *testing.T) {
	assert.InDelta(t, 0, HeightCurve(0), 1e-12)
	assert.InDelta(t, 0, HeightCurve(1), 1e-12)
	assert.InDelta(t, 1, HeightCurve(0.5), 1e-12)
	assert.Less(t, HeightCurve(0.25), HeightCurve(0.5))
}

func TestTransitionFactor(t *testing.T) {
	p := KeirinParameters()
	hl, tz := p.HalfLength(), p.Banking.TransitionZone
	y := -p.MidRadius()

	assert.Equal(t, 0.0, p.TransitionFactor(0, y))
	assert.Equal(t, 0.0, p.TransitionFactor(hl-tz, y))
	assert.Equal(t, 0.0, p.TransitionFactor(-(hl - tz), y))
	assert.InDelta(t, 0.5, p.TransitionFactor(hl-tz/2, y), 1e-12)
	assert.Equal(t, 1.0, p.TransitionFactor(hl, y))
	assert.Equal(t, 1.0, p.TransitionFactor(hl+p.MidRadius(), 0))
	assert.Equal(t, 1.0, p.TransitionFactor(-hl-p.MidRadius(), 0))
}

func TestBankingHeight_ContinuousAcrossZoneEdge(t *testing.T) {
	p := KeirinParameters()
	edge := p.HalfLength() - p.Banking.TransitionZone

	for _, rel := range []float64{0.2, 0.5, 0.8} {
		y := -(p.InnerRadius() + rel*p.TrackWidth)
		straight := p.StraightHeight(p.StraightRelative(y))

		before := p.BankingHeight(edge-1e-7, y)
		after := p.BankingHeight(edge+1e-7, y)
		assert.InDelta(t, straight, before, 1e-9)
		assert.InDelta(t, before, after, 1e-5, "relative %.1f", rel)

		// Stepping inward the height moves monotonically toward the turn profile.
		prev := after
		for d := 0.5; d <= p.Banking.TransitionZone; d += 0.5 {
			h := p.BankingHeight(edge+d, y)
			assert.InDelta(t, prev, h, 0.5)
			prev = h
		}
	}
}

func TestBankingHeight_MirrorsAcrossTurns(t *testing.T) {
	p := KeirinParameters()
	for _, x := range []float64{22, 26, 30, 40} {
		for _, y := range []float64{-20, -5, 0, 12} {
			assert.InDelta(t, p.BankingHeight(x, y), p.BankingHeight(-x, y), 1e-12)
		}
	}
}

func TestParametersFor(t *testing.T) {
	assert.Equal(t, common.DisciplineBoat, ParametersFor(common.DisciplineBoat).Discipline)
	assert.Equal(t, common.DisciplineKeirin, ParametersFor(common.DisciplineKeirin).Discipline)
	w, h := KeirinParameters().Extent()
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 50.0, h)
}
