// Package resource accounts for graphics primitives so every creation is paired
// with exactly one disposal.
package resource

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Kind classifies a tracked primitive.
type Kind string

const (
	KindGeometry Kind = "geometry"
	KindMaterial Kind = "material"
	KindTexture  Kind = "texture"
)

// Handle is the ownership token of one tracked primitive.
// Dispose is safe to call any number of times; only the first call is counted.
type Handle interface {
	// ID returns the tracker-unique identifier of the primitive.
	ID() uint64

	// Kind returns the primitive classification.
	Kind() Kind

	// Name returns the debug label given at creation.
	Name() string

	// Dispose releases the primitive. Repeated calls are no-ops.
	Dispose()

	// Disposed reports whether Dispose has run.
	Disposed() bool
}

// Tracker issues handles and counts creations and disposals.
type Tracker interface {
	// Track registers a new primitive and returns its handle.
	//
	// Parameters:
	//   - kind: the primitive classification
	//   - name: a debug label
	//
	// Returns:
	//   - Handle: the ownership token
	Track(kind Kind, name string) Handle

	// Created returns the total number of handles issued.
	Created() int

	// Disposed returns the total number of first-time disposals.
	Disposed() int

	// Live returns Created - Disposed.
	Live() int

	// CreatedOf returns the number of handles issued for kind.
	CreatedOf(kind Kind) int

	// DisposedOf returns the number of disposals for kind.
	DisposedOf(kind Kind) int

	// LiveHandles returns the handles that have not been disposed, for leak reports.
	LiveHandles() []Handle
}

type tracker struct {
	mu       sync.Mutex
	nextID   uint64
	live     map[uint64]*handle
	created  map[Kind]int
	disposed map[Kind]int
	onEvent  func(event string, h Handle)
}

var _ Tracker = &tracker{}

// TrackerOption configures a Tracker.
type TrackerOption func(*tracker)

// WithObserver installs a callback invoked after every "create" and "dispose" event.
func WithObserver(fn func(event string, h Handle)) TrackerOption {
	return func(t *tracker) {
		t.onEvent = fn
	}
}

// NewTracker creates an empty Tracker.
//
// Parameters:
//   - options: tracker options
//
// Returns:
//   - Tracker: the new tracker
func NewTracker(options ...TrackerOption) Tracker {
	t := &tracker{
		live:     make(map[uint64]*handle),
		created:  make(map[Kind]int),
		disposed: make(map[Kind]int),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *tracker) Track(kind Kind, name string) Handle {
	t.mu.Lock()
	t.nextID++
	h := &handle{id: t.nextID, kind: kind, name: name, owner: t}
	t.live[h.id] = h
	t.created[kind]++
	fn := t.onEvent
	t.mu.Unlock()

	if fn != nil {
		fn("create", h)
	}
	return h
}

func (t *tracker) release(h *handle) {
	t.mu.Lock()
	delete(t.live, h.id)
	t.disposed[h.kind]++
	fn := t.onEvent
	t.mu.Unlock()

	if fn != nil {
		fn("dispose", h)
	}
}

func (t *tracker) Created() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sum(t.created)
}

func (t *tracker) Disposed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sum(t.disposed)
}

func (t *tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

func (t *tracker) CreatedOf(kind Kind) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.created[kind]
}

func (t *tracker) DisposedOf(kind Kind) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disposed[kind]
}

func (t *tracker) LiveHandles() []Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Handle, 0, len(t.live))
	for _, h := range t.live {
		out = append(out, h)
	}
	return out
}

func sum(m map[Kind]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

type handle struct {
	id       uint64
	kind     Kind
	name     string
	owner    *tracker
	disposed atomic.Bool
}

func (h *handle) ID() uint64 {
	return h.id
}

func (h *handle) Kind() Kind {
	return h.kind
}

func (h *handle) Name() string {
	return h.name
}

func (h *handle) Dispose() {
	if h == nil || !h.disposed.CompareAndSwap(false, true) {
		return
	}
	h.owner.release(h)
}

func (h *handle) Disposed() bool {
	return h.disposed.Load()
}

func (h *handle) String() string {
	return fmt.Sprintf("%s#%d(%s)", h.kind, h.id, h.name)
}
