// Package config holds the runtime configuration of the race scene service.
// Values resolve from defaults, then an optional YAML file, then RACETRACK_
// environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/common"
	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/composition"
)

// EnvPrefix is the environment variable prefix for every key.
const EnvPrefix = "RACETRACK"

// Keys as they appear in the config file and as flag names.
const (
	KeyAddr         = "addr"
	KeyTickRate     = "tick-rate"
	KeyNominalFPS   = "nominal-fps"
	KeySeed         = "seed"
	KeyDiscipline   = "discipline"
	KeyAssetDir     = "asset-dir"
	KeyLogLevel     = "log-level"
	KeyProfile      = "profile"
	KeyWaterNormals = "assets.water-normals"
	KeyOverlay      = "assets.overlay"
	KeyFont         = "assets.font"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Assets names the asynchronously loaded files, relative to AssetDir.
type Assets struct {
	WaterNormals string `yaml:"water-normals" mapstructure:"water-normals"`
	Overlay      string `yaml:"overlay" mapstructure:"overlay"`
	Font         string `yaml:"font" mapstructure:"font"`
}

// Config is the resolved configuration.
type Config struct {
	// Addr is the preview listen address.
	Addr string `yaml:"addr" mapstructure:"addr"`

	// TickRate is the frame loop rate.
	TickRate float64 `yaml:"tick-rate" mapstructure:"tick-rate"`

	// NominalFPS is the rate per-call motion steps assume.
	NominalFPS float64 `yaml:"nominal-fps" mapstructure:"nominal-fps"`

	// Seed feeds the scene randomness. 0 means time based.
	Seed int64 `yaml:"seed" mapstructure:"seed"`

	Discipline string `yaml:"discipline" mapstructure:"discipline"`
	AssetDir   string `yaml:"asset-dir" mapstructure:"asset-dir"`
	LogLevel   string `yaml:"log-level" mapstructure:"log-level"`
	Profile    bool   `yaml:"profile" mapstructure:"profile"`
	Assets     Assets `yaml:"assets" mapstructure:"assets"`
}

// Default returns the built-in configuration.
func Default() Config {
	a := composition.DefaultAssets()
	return Config{
		Addr:       ":8080",
		TickRate:   60,
		NominalFPS: 60,
		Discipline: string(common.DisciplineKeirin),
		AssetDir:   "assets",
		LogLevel:   "info",
		Assets: Assets{
			WaterNormals: a.WaterNormals,
			Overlay:      a.Overlay,
			Font:         a.Font,
		},
	}
}

// SetDefaults registers Default under every key of v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyAddr, d.Addr)
	v.SetDefault(KeyTickRate, d.TickRate)
	v.SetDefault(KeyNominalFPS, d.NominalFPS)
	v.SetDefault(KeySeed, d.Seed)
	v.SetDefault(KeyDiscipline, d.Discipline)
	v.SetDefault(KeyAssetDir, d.AssetDir)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyProfile, d.Profile)
	v.SetDefault(KeyWaterNormals, d.Assets.WaterNormals)
	v.SetDefault(KeyOverlay, d.Assets.Overlay)
	v.SetDefault(KeyFont, d.Assets.Font)
}

// FromViper decodes the global viper instance into a validated Config.
//
// Returns:
//   - Config: the resolved configuration
//   - error: decode or validation failure
func FromViper() (Config, error) {
	return FromInstance(viper.GetViper())
}

// FromInstance decodes v into a validated Config.
func FromInstance(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks rates and the startup discipline.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick-rate must be positive, got %v", ErrInvalidConfig, c.TickRate)
	}
	if c.NominalFPS <= 0 {
		return fmt.Errorf("%w: nominal-fps must be positive, got %v", ErrInvalidConfig, c.NominalFPS)
	}
	if _, err := common.ParseDiscipline(c.Discipline); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// StartDiscipline returns the parsed startup discipline. Call Validate first.
func (c Config) StartDiscipline() common.Discipline {
	d, _ := common.ParseDiscipline(c.Discipline)
	return d
}

// CompositionAssets maps the asset names onto the composition root.
func (c Config) CompositionAssets() composition.Assets {
	return composition.Assets{
		WaterNormals: c.Assets.WaterNormals,
		Overlay:      c.Assets.Overlay,
		Font:         c.Assets.Font,
	}
}

// Load reads a YAML file over Default, so absent keys keep their defaults.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the loaded configuration
//   - error: read or parse failure
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return c, nil
}

// Marshal encodes c as YAML.
func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes c to path as YAML.
func Save(path string, c Config) error {
	b, err := Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
