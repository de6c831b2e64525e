package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karimhm/OpenTripPlanner/internal/raptor"
	"github.com/karimhm/OpenTripPlanner/internal/raptor/calculator"
)

func TestLoad_File(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yml"))
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)

	assert.Equal(t, "https://example.com/gtfs.zip", cfg.GTFS.Source)
	assert.Equal(t, "2025-07-07", cfg.GTFS.ServiceDate)
	assert.Equal(t, 300.0, cfg.GTFS.WalkRadius)
	assert.Equal(t, uint64(5), cfg.GTFS.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.GTFS.RequestTimeout)

	assert.Equal(t, raptor.Tuning{
		IterationStep:            120,
		BinarySearchThreshold:    20,
		MaxRounds:                6,
		Parallelism:              4,
		GuaranteedTransferPolicy: raptor.PolicyReject,
	}, cfg.Tuning)

	assert.Equal(t, calculator.Slack{Board: 30, Alight: 15, Transfer: 120}, cfg.Slack, "missing keys keep defaults")
	assert.Equal(t, 90, cfg.Cost.BoardCost)
	assert.Equal(t, 1.0, cfg.Cost.WaitReluctance)
	assert.Equal(t, 3.5, cfg.Cost.WalkReluctance)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load("", func(c *Config) {
		c.GTFS.Source = "feed.zip"
	}, func(c *Config) {
		c.Tuning.Parallelism = 8
	})
	require.NoError(t, err)

	want := Default()
	want.GTFS.Source = "feed.zip"
	want.Tuning.Parallelism = 8
	assert.Equal(t, want, cfg)
}

func TestLoad_Invalid(t *testing.T) {
	write := func(t *testing.T, content string) string {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	tests := []struct {
		name    string
		content string
	}{
		{name: "missing source", content: "env: test\n"},
		{name: "unknown env", content: "env: staging\ngtfs:\n  source: feed.zip\n"},
		{name: "unknown policy", content: "gtfs:\n  source: feed.zip\ntuning:\n  guaranteed_transfer_policy: sometimes\n"},
		{name: "zero iteration step", content: "gtfs:\n  source: feed.zip\ntuning:\n  iteration_step: 0\n"},
		{name: "negative slack", content: "gtfs:\n  source: feed.zip\nslack:\n  board: -1\n"},
		{name: "radius too large", content: "gtfs:\n  source: feed.zip\n  walk_radius: 9000\n"},
		{name: "bad service date", content: "gtfs:\n  source: feed.zip\n  service_date: 07/07/2025\n"},
		{name: "malformed yaml", content: "gtfs: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, "no source")

	cfg.GTFS.Source = "feed.zip"
	assert.NoError(t, cfg.Validate())
}
