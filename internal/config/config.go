// Package config loads the YAML configuration shared by the CLI commands.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/karimhm/OpenTripPlanner/internal/gtfs"
	"github.com/karimhm/OpenTripPlanner/internal/raptor"
	"github.com/karimhm/OpenTripPlanner/internal/raptor/calculator"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	Production  Environment = "production"
)

// Config is the full application configuration. Sections missing from the
// file keep their defaults.
type Config struct {
	Env      Environment       `yaml:"env" validate:"oneof=development test production"`
	LogLevel string            `yaml:"log_level" validate:"oneof=debug info warn error"`
	GTFS     gtfs.Config       `yaml:"gtfs"`
	Tuning   raptor.Tuning     `yaml:"tuning"`
	Slack    calculator.Slack  `yaml:"slack"`
	Cost     raptor.CostParams `yaml:"cost"`
}

// Default returns the configuration used when no file is given. It has no
// GTFS source, so it does not validate on its own.
func Default() Config {
	return Config{
		Env:      Development,
		LogLevel: "info",
		GTFS:     gtfs.DefaultConfig(),
		Tuning:   raptor.DefaultTuning(),
		Slack:    calculator.Slack{Transfer: 120},
		Cost:     raptor.DefaultCostParams(),
	}
}

// Load reads path over the defaults, applies overrides in order and
// validates the result. An empty path skips the file.
func Load(path string, overrides ...func(*Config)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	for _, override := range overrides {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
