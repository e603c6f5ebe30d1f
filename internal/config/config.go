// Package config loads the command-line tool configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables with the SPECTRA_ prefix (SPECTRA_LOGGING_LEVEL,
// SPECTRA_ANALYSIS_PEAK_DISTANCE, SPECTRA_FORMATS_DISABLED=hdf5,netcdf).
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/cwbudde/algo-spectra/format"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SPECTRA"

// EnvFile names the variable holding the configuration file path when none
// is passed to Load.
const EnvFile = EnvPrefix + "_CONFIG"

// Config is the complete tool configuration.
type Config struct {
	Logging  Logging  `yaml:"logging"`
	Analysis Analysis `yaml:"analysis"`
	Formats  Formats  `yaml:"formats"`
}

// Logging configures the diagnostic logger.
type Logging struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // console or json
}

// Analysis holds the default analysis parameters.
type Analysis struct {
	PeakDistance int     `yaml:"peak_distance" split_words:"true"`
	PolyOrder    int     `yaml:"poly_order" split_words:"true"`
	SmoothSigma  float64 `yaml:"smooth_sigma" split_words:"true"`
}

// Formats controls the loader registry.
type Formats struct {
	Disabled []string `yaml:"disabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: Logging{
			Level:  "warn",
			Format: "console",
		},
		Analysis: Analysis{
			PeakDistance: 2,
			PolyOrder:    1,
			SmoothSigma:  1.0,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (or
// at $SPECTRA_CONFIG when path is empty) and the environment, and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file onto c. Unknown keys are rejected.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

var (
	levels  = []string{"debug", "info", "warn", "error"}
	formats = []string{"console", "json"}
)

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error

	if !slices.Contains(levels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level %q must be one of %v", c.Logging.Level, levels))
	}
	if !slices.Contains(formats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format %q must be one of %v", c.Logging.Format, formats))
	}
	if c.Analysis.PeakDistance < 1 {
		errs = append(errs, fmt.Errorf("analysis.peak_distance %d must be >= 1", c.Analysis.PeakDistance))
	}
	if c.Analysis.PolyOrder < 0 {
		errs = append(errs, fmt.Errorf("analysis.poly_order %d must be >= 0", c.Analysis.PolyOrder))
	}
	if s := c.Analysis.SmoothSigma; s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		errs = append(errs, fmt.Errorf("analysis.smooth_sigma %v must be finite and >= 0", s))
	}
	known := format.Names()
	for _, name := range c.Formats.Disabled {
		if !slices.Contains(known, name) {
			errs = append(errs, fmt.Errorf("formats.disabled: unknown format %q", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
