package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Production is the environment value that switches webhook verification
// into fail-closed mode.
const Production = "production"

// RelayOptions holds the signing-key configuration for the push queue.
// CurrentSigningKey is required for verification to be possible at all;
// NextSigningKey is only set while a key rotation is in flight.
type RelayOptions struct {
	CurrentSigningKey string `env:"RELAY_CURRENT_SIGNING_KEY"`
	NextSigningKey    string `env:"RELAY_NEXT_SIGNING_KEY"`
}

// OTelOptions holds the OpenTelemetry exporter configuration.
type OTelOptions struct {
	Enabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	ServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"portal"`
	SampleRate  float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Config holds the application configuration, loaded once at startup and
// passed by value from main. Request handlers never re-read the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	DatabaseURL string `env:"DATABASE_URL"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	// AppBaseURL is where the queue posts job callbacks back to.
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	DeliveryTimeout time.Duration `env:"DELIVERY_TIMEOUT" envDefault:"8s"`

	Relay RelayOptions
	OTel  OTelOptions
}

// Load reads .env files (if present) and then the process environment.
func Load() (Config, error) {
	loadEnvFiles(".env", ".env.local")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the fail-closed verification policy applies.
func (c Config) IsProduction() bool {
	return c.Environment == Production
}

func loadEnvFiles(files ...string) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return
	}
	// Missing keys fall back to envDefault tags, so load errors are not fatal.
	_ = godotenv.Load(existing...)
}
