// ABOUTME: Configuration loading and parsing for flightdeck
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete flightdeck configuration
type Config struct {
	Backends  BackendsConfig  `yaml:"backends"`
	Token     TokenConfig     `yaml:"token"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// BackendsConfig holds the base URLs of the two backend services
type BackendsConfig struct {
	// IdentityURL points at the identity/account service
	IdentityURL string `yaml:"identity_url"`
	// FlightOpsURL points at the flight-operations service
	FlightOpsURL string `yaml:"flight_ops_url"`
}

// TokenConfig holds credential persistence configuration
type TokenConfig struct {
	// Path overrides the default token file location
	// (default: $XDG_CONFIG_HOME/flightdeck/token)
	Path string `yaml:"path"`
}

// RefreshConfig holds flight view refresh timing configuration
type RefreshConfig struct {
	Interval       time.Duration `yaml:"-"`
	ReconcileDelay time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	IntervalRaw       string `yaml:"interval"`
	ReconcileDelayRaw string `yaml:"reconcile_delay"`
}

// ReconnectConfig holds notification channel reconnection policy
type ReconnectConfig struct {
	// Attempts is the maximum number of reconnection attempts before
	// the channel gives up and stays disconnected
	Attempts int `yaml:"attempts"`

	Delay time.Duration `yaml:"-"`

	DelayRaw string `yaml:"delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults applied by Load for fields left unset.
const (
	DefaultIdentityURL     = "http://localhost:5000"
	DefaultFlightOpsURL    = "http://localhost:5001"
	DefaultRefreshInterval = 30 * time.Second
	DefaultReconcileDelay  = 6 * time.Second

	DefaultReconnectAttempts = 5
	DefaultReconnectDelay    = time.Second
)

// Default returns a configuration populated entirely from defaults.
// Used when no config file exists; flightdeck runs fine without one.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills zero-valued fields with their defaults.
func (c *Config) applyDefaults() {
	if c.Backends.IdentityURL == "" {
		c.Backends.IdentityURL = DefaultIdentityURL
	}
	if c.Backends.FlightOpsURL == "" {
		c.Backends.FlightOpsURL = DefaultFlightOpsURL
	}
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = DefaultRefreshInterval
	}
	if c.Refresh.ReconcileDelay == 0 {
		c.Refresh.ReconcileDelay = DefaultReconcileDelay
	}
	if c.Reconnect.Attempts == 0 {
		c.Reconnect.Attempts = DefaultReconnectAttempts
	}
	if c.Reconnect.Delay == 0 {
		c.Reconnect.Delay = DefaultReconnectDelay
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if err := validateURL("backends.identity_url", c.Backends.IdentityURL); err != nil {
		return err
	}
	if err := validateURL("backends.flight_ops_url", c.Backends.FlightOpsURL); err != nil {
		return err
	}

	if c.Reconnect.Attempts < 0 {
		return fmt.Errorf("reconnect.attempts must not be negative")
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q", "text", "json")
	}

	return nil
}

// validateURL ensures the value parses as an absolute http(s) URL.
func validateURL(field, value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL, got %q", field, value)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host: %q", field, value)
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Refresh.IntervalRaw != "" {
		cfg.Refresh.Interval, err = time.ParseDuration(cfg.Refresh.IntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing refresh.interval %q: %w", cfg.Refresh.IntervalRaw, err)
		}
	}

	if cfg.Refresh.ReconcileDelayRaw != "" {
		cfg.Refresh.ReconcileDelay, err = time.ParseDuration(cfg.Refresh.ReconcileDelayRaw)
		if err != nil {
			return fmt.Errorf("parsing refresh.reconcile_delay %q: %w", cfg.Refresh.ReconcileDelayRaw, err)
		}
	}

	if cfg.Reconnect.DelayRaw != "" {
		cfg.Reconnect.Delay, err = time.ParseDuration(cfg.Reconnect.DelayRaw)
		if err != nil {
			return fmt.Errorf("parsing reconnect.delay %q: %w", cfg.Reconnect.DelayRaw, err)
		}
	}

	return nil
}
