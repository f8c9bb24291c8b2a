package geometry

import (
	"math"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
)

// HeightCurve shapes banking across the ribbon width. It is zero at both
// edges (relative 0 and 1) and peaks at mid-width.
func HeightCurve(relative float64) float64 {
	return (1 - math.Cos(2*math.Pi*relative)) / 2
}

// inTurnZone reports whether (x, y) lies in a turn or its approach zone and
// returns the X of the governing arc center.
func (p TrackParameters) inTurnZone(x, y float64) (float64, bool) {
	hl := p.HalfLength()
	tz := p.Banking.TransitionZone
	if math.Abs(y) > p.CurveRadius+tz {
		return 0, false
	}
	switch {
	case x > hl-tz:
		return hl, true
	case x < -hl+tz:
		return -hl, true
	}
	return 0, false
}

// TransitionFactor returns the blend weight of turn banking at (x, y).
// It is 0 on the straights and at the outer edge of the approach zone, ramps
// with a smoothstep over TransitionZone, and is 1 from the arc junction onward.
//
// Parameters:
//   - x, y: the planar track-space position
//
// Returns:
//   - float64: the weight in [0, 1]
func (p TrackParameters) TransitionFactor(x, y float64) float64 {
	if _, ok := p.inTurnZone(x, y); !ok {
		return 0
	}
	penetration := math.Abs(x) - (p.HalfLength() - p.Banking.TransitionZone)
	return common.Smoothstep(0, p.Banking.TransitionZone, penetration)
}

// StraightRelative returns the normalized distance from the inner edge of a straight.
func (p TrackParameters) StraightRelative(y float64) float64 {
	return common.Clamp(math.Abs(math.Abs(y)-p.InnerRadius())/p.TrackWidth, 0, 1)
}

// TurnRelative returns the normalized radial distance from the inner edge of the
// arc centered at (cx, 0).
func (p TrackParameters) TurnRelative(x, y, cx float64) float64 {
	return common.Clamp(math.Abs(math.Hypot(x-cx, y)-p.InnerRadius())/p.TrackWidth, 0, 1)
}

// StraightHeight returns the banking height of a straight at the given relative width.
func (p TrackParameters) StraightHeight(relative float64) float64 {
	return math.Sin(relative*p.Banking.StraightAngle) * p.Banking.StraightHeight * HeightCurve(relative)
}

// turnHeight returns the un-blended turn banking height at (x, y) around arc center cx.
func (p TrackParameters) turnHeight(x, y, cx float64) float64 {
	relX := math.Abs(x - cx)
	angleFactor := math.Abs(math.Atan2(y, relX) / (math.Pi / 2))
	relative := p.TurnRelative(x, y, cx)
	angle := relative * p.Banking.MaxAngle * (0.7 + 0.3*angleFactor)
	return math.Sin(angle) * p.Banking.MaxHeight * HeightCurve(relative)
}

// BankingHeight returns the vertical lift of the surface at planar position (x, y).
// On the straights it is the shallow straight profile; through the turn zones the
// turn profile is blended in by TransitionFactor, so the height is continuous
// across the zone boundary.
//
// Parameters:
//   - x, y: the planar track-space position
//
// Returns:
//   - float64: the banking height
func (p TrackParameters) BankingHeight(x, y float64) float64 {
	straight := p.StraightHeight(p.StraightRelative(y))
	cx, ok := p.inTurnZone(x, y)
	if !ok {
		return straight
	}
	tf := p.TransitionFactor(x, y)
	return common.Lerp(straight, p.turnHeight(x, y, cx), tf)
}
