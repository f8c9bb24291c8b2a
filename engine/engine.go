// Package engine runs the fixed-rate frame loop that drives the race scene.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/profiler"
)

// DefaultTickRate is the frame rate used when none, or a non-positive one, is configured.
const DefaultTickRate = 60.0

// ErrFramePanic is returned by Run when a frame callback panicked.
var ErrFramePanic = errors.New("engine: frame callback panicked")

// FrameCallback is called once per frame with the scene clock in seconds since Run started.
type FrameCallback func(elapsed float64)

// engine implements the Engine interface.
type engine struct {
	mu sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	frames  atomic.Uint64
	elapsed atomic.Int64 // nanoseconds

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	frameCallbacks []FrameCallback

	logger zerolog.Logger
	now    func() time.Time
}

// Engine is the main entry point of the frame loop. It ticks at a fixed rate
// and hands every registered callback a monotonically increasing clock. All
// callbacks of one frame run sequentially on the loop goroutine.
type Engine interface {
	// EnableProfiler enables frame-time profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables frame-time profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// If the engine is running, the change takes effect on the next tick.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// TickRate returns the configured frame interval.
	TickRate() time.Duration

	// AddFrameCallback registers a function called each frame, after the ones
	// already registered.
	//
	// Parameters:
	//   - callback: the frame function
	AddFrameCallback(callback FrameCallback)

	// Frames returns the number of completed frames.
	Frames() uint64

	// Elapsed returns the clock value of the latest frame.
	Elapsed() time.Duration

	// Running reports whether Run is active.
	Running() bool

	// Run blocks, ticking frames until ctx is cancelled or Quit is called.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ErrFramePanic if a callback panicked, nil on a regular stop
	Run(ctx context.Context) error

	// Quit signals the loop to stop. Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, callbacks)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  rateInterval(DefaultTickRate),
		logger:          zerolog.Nop(),
		now:             time.Now,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

func rateInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = DefaultTickRate
	}
	return time.Duration(float64(time.Second) / fps)
}

// Quit signals the loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return errors.New("engine: already running")
	}
	defer e.running.Store(false)

	e.mu.Lock()
	rate := e.engineTickRate
	e.mu.Unlock()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	start := e.now()
	lastTick := start
	e.logger.Info().Dur("interval", rate).Msg("frame loop started")

	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Uint64("frames", e.frames.Load()).Msg("frame loop cancelled")
			return nil
		case <-e.quitChannel:
			e.logger.Info().Uint64("frames", e.frames.Load()).Msg("frame loop stopped")
			return nil
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.logger.Debug().Dur("interval", newRate).Msg("tick rate changed")
		case <-ticker.C:
			now := e.now()
			elapsed := now.Sub(start)
			if err := e.frame(elapsed); err != nil {
				e.Quit()
				return err
			}
			if e.isProfiling() {
				e.profiler.Tick(now.Sub(lastTick))
			}
			lastTick = now
		}
	}
}

// frame runs every callback once. A panic is recovered, logged and turned into an error.
func (e *engine) frame(elapsed time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Uint64("frame", e.frames.Load()).Msg("frame callback recovered from panic")
			err = fmt.Errorf("%w: %v", ErrFramePanic, r)
		}
	}()

	e.mu.Lock()
	callbacks := e.frameCallbacks
	e.mu.Unlock()

	e.elapsed.Store(int64(elapsed))
	seconds := elapsed.Seconds()
	for _, cb := range callbacks {
		cb(seconds)
	}
	e.frames.Add(1)
	return nil
}

func (e *engine) isProfiling() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profilingEnabled
}

// EnableProfiler enables frame-time profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = true
	e.mu.Unlock()
}

// DisableProfiler disables frame-time profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = false
	e.mu.Unlock()
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := rateInterval(fps)

	e.mu.Lock()
	e.engineTickRate = newRate
	e.mu.Unlock()

	if !e.running.Load() {
		return
	}
	// Non-blocking send - if the channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) TickRate() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engineTickRate
}

func (e *engine) AddFrameCallback(callback FrameCallback) {
	if callback == nil {
		return
	}
	e.mu.Lock()
	e.frameCallbacks = append(e.frameCallbacks, callback)
	e.mu.Unlock()
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

func (e *engine) Elapsed() time.Duration {
	return time.Duration(e.elapsed.Load())
}

func (e *engine) Running() bool {
	return e.running.Load()
}
