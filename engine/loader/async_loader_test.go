package loader

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/model"
)

// panickyLoader panics on every model load.
type panickyLoader struct {
	Loader
}

func (p *panickyLoader) LoadModel(string) (*model.ImportedModel, error) {
	panic("corrupt asset")
}

func (p *panickyLoader) LoadTexture(string) (*common.ImportedTexture, error) {
	time.Sleep(20 * time.Millisecond)
	return &common.ImportedTexture{Name: "slow"}, nil
}

func collect(t *testing.T, n int) (func(Result), func() []Result) {
	t.Helper()
	var mu sync.Mutex
	var wg sync.WaitGroup
	var out []Result
	wg.Add(n)
	deliver := func(r Result) {
		mu.Lock()
		out = append(out, r)
		mu.Unlock()
		wg.Done()
	}
	wait := func() []Result {
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for async results")
		}
		mu.Lock()
		defer mu.Unlock()
		return out
	}
	return deliver, wait
}

func TestAsyncLoader_DeliversTokenAndModel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tri.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")

	a := NewAsyncLoader(NewLoader(WithBaseDir(dir)), WithWorkers(3))
	defer a.Close()

	deliver, wait := collect(t, 2)
	a.Request(AssetModel, "tri.obj", 7, deliver)
	a.Request(AssetModel, "gone.obj", 8, deliver)

	results := wait()
	require.Len(t, results, 2)
	byToken := map[uint64]Result{}
	for _, r := range results {
		byToken[r.Token] = r
	}

	ok := byToken[7]
	require.NoError(t, ok.Err)
	assert.Equal(t, AssetModel, ok.Kind)
	assert.Equal(t, "tri.obj", ok.Path)
	require.NotNil(t, ok.Model)
	assert.Equal(t, 3, ok.Model.VertexCount())

	failed := byToken[8]
	assert.Error(t, failed.Err)
	assert.Nil(t, failed.Model)
}

func TestAsyncLoader_RecoversPanics(t *testing.T) {
	a := NewAsyncLoader(&panickyLoader{Loader: NewLoader()})
	defer a.Close()

	deliver, wait := collect(t, 1)
	a.Request(AssetModel, "any.glb", 1, deliver)

	results := wait()
	require.Len(t, results, 1)
	assert.ErrorContains(t, results[0].Err, "corrupt asset")
}

func TestAsyncLoader_UnknownKind(t *testing.T) {
	a := NewAsyncLoader(NewLoader())
	defer a.Close()

	deliver, wait := collect(t, 1)
	a.Request(AssetKind(42), "x", 1, deliver)
	assert.ErrorContains(t, wait()[0].Err, "unknown asset kind")
}

func TestAsyncLoader_CloseWaitsForInFlight(t *testing.T) {
	a := NewAsyncLoader(&panickyLoader{Loader: NewLoader()}, WithWorkers(1))

	delivered := make(chan Result, 4)
	deliver := func(r Result) { delivered <- r }
	a.Request(AssetTexture, "a.png", 1, deliver)
	a.Request(AssetTexture, "b.png", 2, deliver)

	a.Close()
	assert.Len(t, delivered, 2)
	assert.Zero(t, a.InFlight())

	a.Request(AssetTexture, "c.png", 3, deliver)
	require.Len(t, delivered, 3)
	var last Result
	for range 3 {
		last = <-delivered
	}
	assert.ErrorIs(t, last.Err, ErrLoaderClosed)
	assert.Equal(t, uint64(3), last.Token)
}

func TestNewAsyncLoader_Panics(t *testing.T) {
	assert.Panics(t, func() { NewAsyncLoader(nil) })
	a := NewAsyncLoader(NewLoader())
	defer a.Close()
	assert.Panics(t, func() { a.Request(AssetModel, "x", 0, nil) })
}
