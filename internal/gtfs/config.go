package gtfs

import (
	"strings"
	"time"
)

// Config describes where the static feed comes from and how the transit
// model is derived from it.
type Config struct {
	// Source is a local zip path or an http(s) URL.
	Source          string `yaml:"source" validate:"required"`
	AuthHeaderKey   string `yaml:"auth_header_key"`
	AuthHeaderValue string `yaml:"auth_header_value"`

	// ServiceDate selects the active services, YYYY-MM-DD in the agency
	// timezone. Empty means today.
	ServiceDate string `yaml:"service_date" validate:"omitempty,datetime=2006-01-02"`

	// WalkRadius generates walking transfers between stops closer than this
	// many meters. Zero disables generated transfers.
	WalkRadius float64 `yaml:"walk_radius" validate:"gte=0,lte=5000"`
	WalkSpeed  float64 `yaml:"walk_speed" validate:"gt=0"`

	MaxRetries     uint64        `yaml:"max_retries" validate:"lte=10"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{
		WalkRadius:     400,
		WalkSpeed:      1.33,
		MaxRetries:     3,
		RequestTimeout: 60 * time.Second,
	}
}

func (config Config) isLocalFile() bool {
	return !strings.HasPrefix(config.Source, "http://") && !strings.HasPrefix(config.Source, "https://")
}

func (config Config) headers() map[string]string {
	headers := map[string]string{}
	if config.AuthHeaderKey != "" && config.AuthHeaderValue != "" {
		headers[config.AuthHeaderKey] = config.AuthHeaderValue
	}
	return headers
}
