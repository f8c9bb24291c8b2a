package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/config"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/animator"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/camera"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/composition"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/loader"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/resource"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/scene"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/preview"
)

func newServeCmd() *cobra.Command {
	d := config.Default()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "runs the frame loop and serves the preview sockets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String(config.KeyAddr, d.Addr, "preview listen address")
	cmd.Flags().Float64(config.KeyTickRate, d.TickRate, "frame loop rate")
	cmd.Flags().Float64(config.KeyNominalFPS, d.NominalFPS, "frame rate the per-call motion steps assume")
	cmd.Flags().Int64(config.KeySeed, d.Seed, "random seed (0 = time based)")
	cmd.Flags().String(config.KeyDiscipline, d.Discipline, "discipline activated at startup (keirin, boat)")
	cmd.Flags().String(config.KeyAssetDir, d.AssetDir, "directory the asset names resolve against")
	cmd.Flags().Bool(config.KeyProfile, d.Profile, "log frame time summaries")
	return cmd
}

func applyLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("unknown log level; using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func serve(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	applyLogLevel(cfg.LogLevel)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	tracker := resource.NewTracker()
	cam := camera.NewCamera(camera.WithController(camera.NewOrbitController()))
	sc := scene.NewScene("race", cam, scene.WithActive(true))

	async := loader.NewAsyncLoader(
		loader.NewLoader(loader.WithBaseDir(cfg.AssetDir)),
		loader.WithLogger(component("loader")),
	)
	root := composition.NewRoot(
		composition.WithScene(sc),
		composition.WithTracker(tracker),
		composition.WithRand(rng),
		composition.WithDriver(animator.NewDriver(
			animator.WithRand(rng),
			animator.WithNominalFrameRate(cfg.NominalFPS),
		)),
		composition.WithAsyncLoader(async),
		composition.WithAssets(cfg.CompositionAssets()),
		composition.WithLogger(component("composition")),
	)
	defer root.Close()

	if err := root.Activate(cfg.StartDiscipline()); err != nil {
		return fmt.Errorf("failed to build %s scene: %w", cfg.Discipline, err)
	}

	surface := preview.NewServer(root, preview.WithLogger(component("preview")))
	eng := engine.NewEngine(
		engine.WithTickRate(cfg.TickRate),
		engine.WithProfiling(cfg.Profile),
		engine.WithLogger(component("engine")),
		engine.WithFrameCallback(root.Frame),
		engine.WithFrameCallback(surface.Broadcast),
	)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      surface.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 2)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("discipline", cfg.Discipline).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := eng.Run(ctx); err != nil {
			errs <- fmt.Errorf("frame loop: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case runErr = <-errs:
		log.Error().Err(runErr).Msg("shutting down after failure")
	}

	eng.Quit()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
	}

	// Release the scene before reporting so the counts reflect the teardown.
	root.Close()
	log.Info().
		Int("created", tracker.Created()).
		Int("disposed", tracker.Disposed()).
		Int("live", tracker.Live()).
		Msg("resources at shutdown")
	return runErr
}
