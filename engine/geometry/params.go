package geometry

import (
	"math"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
)

// Extrusion controls the slab depth and beveled edges of the track ribbon.
type Extrusion struct {
	Depth          float64
	BevelThickness float64
	BevelSize      float64
	BevelSegments  int
}

// Banking controls the height profile lifting the ribbon through the turns.
type Banking struct {
	// TransitionZone is the distance before each straight/arc junction over
	// which turn banking ramps in.
	TransitionZone float64

	// MaxAngle is the bank angle reached at the outer edge of a turn.
	MaxAngle float64

	// MaxHeight scales the turn banking height.
	MaxHeight float64

	// StraightAngle is the bank angle applied along the straights.
	StraightAngle float64

	// StraightHeight scales the straight banking height.
	StraightHeight float64
}

// TrackParameters fully determines the procedural geometry of one discipline.
// Values are immutable once selected.
type TrackParameters struct {
	Discipline common.Discipline

	// StraightLength is the length of each of the two straights.
	StraightLength float64

	// CurveRadius is the outer radius of the two 180° turns.
	CurveRadius float64

	// TrackWidth is the ribbon width; the inner radius is CurveRadius - TrackWidth.
	TrackWidth float64

	// CurveSegments is the tessellation count of each arc.
	CurveSegments int

	// StraightSegments is the subdivision count of each straight.
	StraightSegments int

	// WidthSegments is the lane count across the ribbon surface.
	WidthSegments int

	Extrusion Extrusion
	Banking   Banking

	// RacingLineSegments is the arc tessellation of the racing line.
	RacingLineSegments int

	// RacingLineClearance lifts the racing line above the surface.
	RacingLineClearance float64
}

// KeirinParameters returns the land velodrome parameter set.
func KeirinParameters() TrackParameters {
	return TrackParameters{
		Discipline:       common.DisciplineKeirin,
		StraightLength:   50,
		CurveRadius:      25,
		TrackWidth:       10,
		CurveSegments:    64,
		StraightSegments: 16,
		WidthSegments:    8,
		Extrusion: Extrusion{
			Depth:          0.1,
			BevelThickness: 0.02,
			BevelSize:      0.02,
			BevelSegments:  5,
		},
		Banking: Banking{
			TransitionZone: 5,
			MaxAngle:       math.Pi / 4.3,
			MaxHeight:      4,
			StraightAngle:  math.Pi / 36,
			StraightHeight: 0.5,
		},
		RacingLineSegments:  32,
		RacingLineClearance: 0.5,
	}
}

// BoatParameters returns the water course parameter set.
func BoatParameters() TrackParameters {
	p := KeirinParameters()
	p.Discipline = common.DisciplineBoat
	p.StraightLength = 100
	p.CurveRadius = 35
	p.TrackWidth = 15
	return p
}

// ParametersFor returns the parameter set of a discipline. Any tag other than
// boat selects the velodrome.
func ParametersFor(d common.Discipline) TrackParameters {
	if d.IsBoat() {
		return BoatParameters()
	}
	return KeirinParameters()
}

// InnerRadius returns the radius of the inner ribbon edge through the turns.
func (p TrackParameters) InnerRadius() float64 {
	return p.CurveRadius - p.TrackWidth
}

// MidRadius returns the radius halfway across the ribbon.
func (p TrackParameters) MidRadius() float64 {
	return p.CurveRadius - p.TrackWidth/2
}

// HalfLength returns half the straight length, the X of each arc center.
func (p TrackParameters) HalfLength() float64 {
	return p.StraightLength / 2
}

// Extent returns the planar size of the outer outline (x, y).
func (p TrackParameters) Extent() (float64, float64) {
	return p.StraightLength + 2*p.CurveRadius, 2 * p.CurveRadius
}
