// Package animator advances every time-varying scene property once per frame.
package animator

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultNominalFrameRate is the frame rate the per-call deltas are scaled by.
const DefaultNominalFrameRate = 60.0

// driver is the implementation of the Driver interface.
type driver struct {
	mu sync.Mutex

	entries     []Policy
	nominalFPS  float64
	rng         *rand.Rand
	lastElapsed float64
	ticks       uint64
}

// Driver is the single per-frame callback of the scene. It holds a flat registry
// of policies and advances all of them in one pass per Tick. Motion is a function
// of absolute elapsed time, or a fixed per-call step of 1/nominal frame rate.
type Driver interface {
	// Register appends a policy to the registry.
	//
	// Parameters:
	//   - p: the policy
	Register(p Policy)

	// Tick advances every registered policy once. Runs to completion synchronously.
	//
	// Parameters:
	//   - elapsed: the absolute scene clock in seconds
	Tick(elapsed float64)

	// Clear drops every registered policy.
	Clear()

	// Len returns the number of registered policies.
	Len() int

	// CountByKind returns the number of registered policies with the tag.
	CountByKind(kind PolicyKind) int

	// Ticks returns the number of Tick calls since construction.
	Ticks() uint64

	// Elapsed returns the clock value passed to the latest Tick.
	Elapsed() float64

	// NominalFrameRate returns the frame rate per-call steps are scaled by.
	NominalFrameRate() float64

	// Rand returns the random source shared with the policies.
	Rand() *rand.Rand
}

var _ Driver = &driver{}

// NewDriver creates an empty Driver. Without WithRand the random source is seeded from the clock.
//
// Parameters:
//   - options: functional options to configure the driver
//
// Returns:
//   - Driver: the new driver
func NewDriver(options ...DriverOption) Driver {
	d := &driver{nominalFPS: DefaultNominalFrameRate}
	for _, opt := range options {
		opt(d)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return d
}

func (d *driver) Register(p Policy) {
	if p == nil {
		return
	}
	d.mu.Lock()
	d.entries = append(d.entries, p)
	d.mu.Unlock()
}

func (d *driver) Tick(elapsed float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Step{Elapsed: elapsed, Delta: 1 / d.nominalFPS, Rand: d.rng}
	for _, p := range d.entries {
		p.Advance(s)
	}
	d.lastElapsed = elapsed
	d.ticks++
}

func (d *driver) Clear() {
	d.mu.Lock()
	d.entries = nil
	d.mu.Unlock()
}

func (d *driver) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

func (d *driver) CountByKind(kind PolicyKind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, p := range d.entries {
		if p.Kind() == kind {
			n++
		}
	}
	return n
}

func (d *driver) Ticks() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ticks
}

func (d *driver) Elapsed() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastElapsed
}

func (d *driver) NominalFrameRate() float64 {
	return d.nominalFPS
}

func (d *driver) Rand() *rand.Rand {
	return d.rng
}
