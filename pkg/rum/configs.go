package rum

import (
	"fmt"
	"net/url"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultApp is the app attribute when Config.App is empty.
	DefaultApp = "unknown-browser-app"

	// EnvPrefix prefixes the environment variables read by LoadConfig.
	EnvPrefix = "SPLUNK_RUM"
)

// Config is the configuration passed to Agent.Init.
type Config struct {
	// BeaconURL is where spans are exported to. Required.
	BeaconURL string `yaml:"beacon_url" envconfig:"BEACON_URL"`

	// App names the application on every span.
	// Default: "unknown-browser-app"
	App string `yaml:"app" envconfig:"APP"`

	// CaptureErrors wires Agent.Error to span reporting. When explicitly
	// false, Agent.Error is a no-op.
	// Default: true
	CaptureErrors *bool `yaml:"capture_errors" envconfig:"CAPTURE_ERRORS"`
}

// AppName returns the configured app or DefaultApp.
// validateBeaconURL accepts absolute http and https URLs only. The OTLP
// exporter falls back to localhost when it cannot parse its endpoint.
func (c Config) validateBeaconURL() error {
	if c.BeaconURL == "" {
		return ErrMissingBeaconURL
	}
	u, err := url.Parse(c.BeaconURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBeaconURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBeaconURL, c.BeaconURL)
	}
	return nil
}

func (c Config) AppName() string {
	if c.App == "" {
		return DefaultApp
	}
	return c.App
}

// CaptureErrorsEnabled applies the "unset means true" rule.
func (c Config) CaptureErrorsEnabled() bool {
	return c.CaptureErrors == nil || *c.CaptureErrors
}

// LoadConfig reads the configuration from SPLUNK_RUM_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads the configuration from a YAML file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	return cfg, nil
}
