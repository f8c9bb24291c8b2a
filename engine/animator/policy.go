package animator

import (
	"math"
	"math/rand"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/game_object"
)

// PolicyKind tags the motion rule of a registry entry.
type PolicyKind int

const (
	// PolicyOscillation is a sinusoidal height plus a per-call rotation increment.
	PolicyOscillation PolicyKind = iota
	// PolicyBoundedTravel is linear travel that reverses at the bounds.
	PolicyBoundedTravel
	// PolicyFadeRespawn decays opacity and respawns at a random position.
	PolicyFadeRespawn
	// PolicyPulse writes a sinusoid of elapsed time into a scalar channel.
	PolicyPulse
	// PolicyClock forwards elapsed time into a scalar channel.
	PolicyClock
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyOscillation:
		return "oscillation"
	case PolicyBoundedTravel:
		return "bounded-travel"
	case PolicyFadeRespawn:
		return "fade-respawn"
	case PolicyPulse:
		return "pulse"
	case PolicyClock:
		return "clock"
	default:
		return "unknown"
	}
}

// Step is the per-call input handed to every policy.
type Step struct {
	// Elapsed is the absolute scene clock in seconds.
	Elapsed float64

	// Delta is 1 / nominal frame rate, the fixed per-call time step.
	Delta float64

	// Rand is the driver's random source.
	Rand *rand.Rand
}

// Policy advances one element by one call.
type Policy interface {
	// Kind returns the policy tag.
	Kind() PolicyKind

	// Advance applies one call's worth of motion.
	//
	// Parameters:
	//   - s: the per-call input
	Advance(s Step)
}

// Axis indexes a transform component.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Oscillation moves Object along Axis as Base + sin(t·Frequency + Phase)·Amplitude
// and adds RotationRate·Delta to its rotation on every call.
type Oscillation struct {
	Object    game_object.GameObject
	Axis      Axis
	Base      float64
	Amplitude float64
	Frequency float64
	Phase     float64

	// RotationRate is radians per nominal second about each axis. The increment is
	// per call, so real rotation speed follows the call cadence.
	RotationRate [3]float32
}

// NewOscillation returns a vertical oscillation with unit frequency.
//
// Parameters:
//   - obj: the moved object
//   - base: the rest height
//   - amplitude: the peak offset
//   - phase: the phase offset in radians
//
// Returns:
//   - *Oscillation: the policy
func NewOscillation(obj game_object.GameObject, base, amplitude, phase float64) *Oscillation {
	return &Oscillation{Object: obj, Axis: AxisY, Base: base, Amplitude: amplitude, Frequency: 1, Phase: phase}
}

func (o *Oscillation) Kind() PolicyKind { return PolicyOscillation }

func (o *Oscillation) Advance(s Step) {
	pos := o.Object.Position()
	pos[o.Axis] = float32(o.Base + math.Sin(s.Elapsed*o.Frequency+o.Phase)*o.Amplitude)
	o.Object.SetPosition(pos)

	if o.RotationRate != [3]float32{} {
		rot := o.Object.Rotation()
		for i := range rot {
			rot[i] += o.RotationRate[i] * float32(s.Delta)
		}
		o.Object.SetRotation(rot)
	}
}

// BoundedTravel moves Object along Axis by Speed·Direction·Delta per call.
// Reaching Max clamps to Max and sets Direction to -1; reaching Min clamps to
// Min and sets Direction to +1. Position never leaves [Min, Max].
type BoundedTravel struct {
	Object    game_object.GameObject
	Axis      Axis
	Speed     float64
	Direction float64
	Min, Max  float64
}

// NewBoundedTravel returns travel over [-bound, bound] starting in the positive direction.
//
// Parameters:
//   - obj: the moved object
//   - axis: the travel axis
//   - speed: units per nominal second
//   - bound: the half-range
//
// Returns:
//   - *BoundedTravel: the policy
func NewBoundedTravel(obj game_object.GameObject, axis Axis, speed, bound float64) *BoundedTravel {
	return &BoundedTravel{Object: obj, Axis: axis, Speed: speed, Direction: 1, Min: -bound, Max: bound}
}

func (b *BoundedTravel) Kind() PolicyKind { return PolicyBoundedTravel }

func (b *BoundedTravel) Advance(s Step) {
	pos := b.Object.Position()
	p := float64(pos[b.Axis]) + b.Speed*b.Direction*s.Delta

	switch {
	case p >= b.Max:
		p = b.Max
		b.Direction = -1
	case p <= b.Min:
		p = b.Min
		b.Direction = 1
	}

	pos[b.Axis] = float32(p)
	b.Object.SetPosition(pos)
}

// FadeRespawn lowers Opacity by Decrement per call. When it reaches zero the
// object is moved to a uniform random point in [Min, Max] and opacity resets
// to Initial.
type FadeRespawn struct {
	Object    game_object.GameObject
	Opacity   Channel
	Initial   float32
	Decrement float32
	Min, Max  [3]float32

	respawns int
}

// NewFadeRespawn returns a fade policy that starts at the initial opacity.
//
// Parameters:
//   - obj: the respawned object
//   - opacity: the faded channel
//   - initial: the opacity after each respawn
//   - decrement: the per-call opacity loss
//   - lo, hi: the respawn extent corners
//
// Returns:
//   - *FadeRespawn: the policy
func NewFadeRespawn(obj game_object.GameObject, opacity Channel, initial, decrement float32, lo, hi [3]float32) *FadeRespawn {
	opacity.Set(initial)
	return &FadeRespawn{Object: obj, Opacity: opacity, Initial: initial, Decrement: decrement, Min: lo, Max: hi}
}

func (f *FadeRespawn) Kind() PolicyKind { return PolicyFadeRespawn }

func (f *FadeRespawn) Advance(s Step) {
	v := f.Opacity.Get() - f.Decrement
	if v > 0 {
		f.Opacity.Set(v)
		return
	}

	var pos [3]float32
	for i := range pos {
		pos[i] = f.Min[i] + s.Rand.Float32()*(f.Max[i]-f.Min[i])
	}
	f.Object.SetPosition(pos)
	f.Opacity.Set(f.Initial)
	f.respawns++
}

// Respawns returns the number of respawn events so far.
func (f *FadeRespawn) Respawns() int {
	return f.respawns
}

// Pulse writes Base + sin(t·Frequency + Phase)·Amplitude into Target.
type Pulse struct {
	Target    Channel
	Base      float64
	Amplitude float64
	Frequency float64
	Phase     float64
}

// NewPulse returns a pulse policy.
//
// Parameters:
//   - target: the written channel
//   - base: the center value
//   - amplitude: the peak offset
//   - frequency: radians per second
//   - phase: the phase offset
//
// Returns:
//   - *Pulse: the policy
func NewPulse(target Channel, base, amplitude, frequency, phase float64) *Pulse {
	return &Pulse{Target: target, Base: base, Amplitude: amplitude, Frequency: frequency, Phase: phase}
}

func (p *Pulse) Kind() PolicyKind { return PolicyPulse }

func (p *Pulse) Advance(s Step) {
	p.Target.Set(float32(p.Base + math.Sin(s.Elapsed*p.Frequency+p.Phase)*p.Amplitude))
}

// Clock forwards the elapsed time into Target, driving shader time uniforms.
type Clock struct {
	Target Channel
}

// NewClock returns a clock policy.
func NewClock(target Channel) *Clock {
	return &Clock{Target: target}
}

func (c *Clock) Kind() PolicyKind { return PolicyClock }

func (c *Clock) Advance(s Step) {
	c.Target.Set(float32(s.Elapsed))
}
