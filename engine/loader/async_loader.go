package loader

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/rs/zerolog"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
)

// ErrLoaderClosed is delivered for requests made after Close.
var ErrLoaderClosed = errors.New("loader: async loader is closed")

const (
	// DefaultAsyncWorkers is the worker cap of the load pool.
	DefaultAsyncWorkers = 2
	asyncQueueSize      = 256
	asyncIdleTimeout    = 1 * time.Second
)

// Result is the outcome of one asynchronous load. Exactly one of Model,
// Texture and Font is set when Err is nil.
type Result struct {
	Kind AssetKind
	Path string

	// Token is the caller's request token, echoed back unchanged so the
	// receiver can tell stale results from current ones.
	Token uint64

	Model   *model.ImportedModel
	Texture *common.ImportedTexture
	Font    *Font

	Err error

	// Elapsed is the wall time the load took.
	Elapsed time.Duration
}

// asyncLoader is the implementation of the AsyncLoader interface.
type asyncLoader struct {
	loader  Loader
	workers int
	logger  zerolog.Logger

	pool     worker.DynamicWorkerPool
	taskID   atomic.Int64
	pending  sync.WaitGroup
	inFlight atomic.Int64
	closed   atomic.Bool
}

// AsyncLoader runs Loader calls on a worker pool. Deliver callbacks run on a
// pool goroutine; receivers that own single-threaded state must hand the
// result over to their own loop rather than apply it in the callback.
type AsyncLoader interface {
	// Request schedules a load. deliver is called exactly once, with a load
	// error, a recovered panic or ErrLoaderClosed in Result.Err on failure.
	//
	// Parameters:
	//   - kind: the asset kind
	//   - path: the asset path
	//   - token: an opaque value echoed in the Result
	//   - deliver: the completion callback
	Request(kind AssetKind, path string, token uint64, deliver func(Result))

	// InFlight returns the number of requests not yet delivered.
	InFlight() int

	// Close rejects new requests and waits for in-flight ones to be delivered.
	Close()
}

var _ AsyncLoader = &asyncLoader{}

// NewAsyncLoader creates an AsyncLoader over l.
//
// Parameters:
//   - l: the synchronous loader doing the work
//   - options: a variadic list of AsyncLoaderBuilderOption functions
//
// Returns:
//   - AsyncLoader: the async loader
func NewAsyncLoader(l Loader, options ...AsyncLoaderBuilderOption) AsyncLoader {
	if l == nil {
		panic("loader: NewAsyncLoader requires a non-nil Loader")
	}
	a := &asyncLoader{
		loader:  l,
		workers: DefaultAsyncWorkers,
		logger:  zerolog.Nop(),
	}
	for _, option := range options {
		option(a)
	}

	// The pool is created after options so WithWorkers can override the default.
	a.pool = worker.NewDynamicWorkerPool(a.workers, asyncQueueSize, asyncIdleTimeout)
	return a
}

func (a *asyncLoader) Request(kind AssetKind, path string, token uint64, deliver func(Result)) {
	if deliver == nil {
		panic("loader: Request requires a non-nil deliver callback")
	}
	if a.closed.Load() {
		deliver(Result{Kind: kind, Path: path, Token: token, Err: ErrLoaderClosed})
		return
	}

	a.pending.Add(1)
	a.inFlight.Add(1)
	id := int(a.taskID.Add(1))
	a.logger.Debug().Str("kind", kind.String()).Str("path", path).Uint64("token", token).Msg("asset load queued")

	a.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer a.pending.Done()
			res := a.load(kind, path, token)
			a.inFlight.Add(-1)
			deliver(res)
			return nil, nil
		},
	})
}

// load performs one request, converting a panic into an error result.
func (a *asyncLoader) load(kind AssetKind, path string, token uint64) (res Result) {
	res = Result{Kind: kind, Path: path, Token: token}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic loading %s %s: %v", kind, path, r)
		}
		res.Elapsed = time.Since(start)
		a.logger.Debug().Err(res.Err).Str("kind", kind.String()).Str("path", path).Dur("elapsed", res.Elapsed).Msg("asset load finished")
	}()

	switch kind {
	case AssetModel:
		res.Model, res.Err = a.loader.LoadModel(path)
	case AssetTexture:
		res.Texture, res.Err = a.loader.LoadTexture(path)
	case AssetFont:
		res.Font, res.Err = a.loader.LoadFont(path)
	default:
		res.Err = fmt.Errorf("unknown asset kind %d", kind)
	}
	return res
}

func (a *asyncLoader) InFlight() int {
	return int(a.inFlight.Load())
}

func (a *asyncLoader) Close() {
	a.closed.Store(true)
	// pool.Wait blocks until workers idle-exit, so in-flight work is tracked separately.
	a.pending.Wait()
}
