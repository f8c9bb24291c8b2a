package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(viper.Reset)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigCommandLayersFileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "racetrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 9\naddr: \":9000\"\n"), 0644))
	t.Setenv("RACETRACK_DISCIPLINE", "boat")
	t.Setenv("RACETRACK_ASSETS_FONT", "fonts/other.json")

	out, err := run(t, "--config", path, "--log-level", "debug", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "seed: 9")
	assert.Contains(t, out, "discipline: boat")
	assert.Contains(t, out, "log-level: debug")
	assert.Contains(t, out, "font: fonts/other.json")
	assert.Contains(t, out, "water-normals: textures/waternormals.jpg")
}

func TestConfigCommandWritesFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "effective.yaml")
	_, err := run(t, "config", "--output", dst)
	require.NoError(t, err)

	got, err := config.Load(dst)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), got)
}

func TestConfigCommandRejectsInvalidDiscipline(t *testing.T) {
	t.Setenv("RACETRACK_DISCIPLINE", "rowing")
	_, err := run(t, "config")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestMissingExplicitConfigFile(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "config")
	assert.ErrorContains(t, err, "failed to read config")
}

// lockedBuffer collects log output written from several goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

func TestServeStopsWithContext(t *testing.T) {
	var logs lockedBuffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })

	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"
	cfg.Seed = 1
	cfg.AssetDir = t.TempDir()
	cfg.Discipline = "boat"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}

	// The shutdown report comes after the scene is released.
	var report map[string]any
	for _, line := range logs.lines() {
		var entry map[string]any
		if json.Unmarshal([]byte(line), &entry) == nil && entry["message"] == "resources at shutdown" {
			report = entry
		}
	}
	require.NotNil(t, report, "no shutdown report in %v", logs.lines())
	assert.Positive(t, report["created"])
	assert.Equal(t, report["created"], report["disposed"])
	assert.Equal(t, float64(0), report["live"])
}

func TestServeRejectsBrokenStart(t *testing.T) {
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"
	cfg.Discipline = "unknown"

	err := serve(context.Background(), cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
