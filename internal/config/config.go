// Package config loads the trueform CLI's TOML configuration file:
// default units, tolerance, staged-feature policy, and cache location.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/trueform/core/ir"
	"github.com/trueform/core/normalize"
)

// Config is the top-level shape of trueform.toml.
type Config struct {
	Units          UnitsConfig `toml:"units"`
	Tolerance      Tolerance   `toml:"tolerance"`
	StagedFeatures string      `toml:"staged_features"`
	CacheDir       string      `toml:"cache_dir"`
}

// UnitsConfig mirrors ir.UnitsConfig in TOML form.
type UnitsConfig struct {
	Length string `toml:"length"`
	Angle  string `toml:"angle"`
}

// Tolerance mirrors ir.Tolerance in TOML form.
type Tolerance struct {
	Linear  float64 `toml:"linear"`
	Angular float64 `toml:"angular"`
}

// Default returns the built-in configuration used when no config file
// is present.
func Default() Config {
	return Config{
		Units:          UnitsConfig{Length: "mm", Angle: "rad"},
		Tolerance:      Tolerance{Linear: 0.01, Angular: 0.001},
		StagedFeatures: string(normalize.StagedAllow),
		CacheDir:       ".trueform/cache",
	}
}

// Load parses a TOML config file at path, falling back to Default for
// any field the file leaves unset.
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}

// BuildContext converts cfg's units/tolerance into an ir.BuildContext
// for the named kernel.
func (c Config) BuildContext(kernel ir.KernelInfo) ir.BuildContext {
	return ir.BuildContext{
		Units:     ir.UnitsConfig{Length: ir.Unit(c.Units.Length), Angle: ir.Unit(c.Units.Angle)},
		Kernel:    kernel,
		Tolerance: ir.Tolerance{Linear: c.Tolerance.Linear, Angular: c.Tolerance.Angular},
	}
}

// Policy returns cfg's staged-feature policy as a normalize.StagedPolicy.
func (c Config) Policy() normalize.StagedPolicy {
	if c.StagedFeatures == "" {
		return normalize.StagedAllow
	}
	return normalize.StagedPolicy(c.StagedFeatures)
}
