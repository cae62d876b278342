// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, defaults, and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "flightdeck.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
backends:
  identity_url: "http://identity.local:5000"
  flight_ops_url: "http://flights.local:5001"

token:
  path: "/tmp/flightdeck-token"

refresh:
  interval: "45s"
  reconcile_delay: "8s"

reconnect:
  attempts: 3
  delay: "2s"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backends.IdentityURL != "http://identity.local:5000" {
		t.Errorf("Backends.IdentityURL = %q, want %q", cfg.Backends.IdentityURL, "http://identity.local:5000")
	}
	if cfg.Backends.FlightOpsURL != "http://flights.local:5001" {
		t.Errorf("Backends.FlightOpsURL = %q, want %q", cfg.Backends.FlightOpsURL, "http://flights.local:5001")
	}
	if cfg.Token.Path != "/tmp/flightdeck-token" {
		t.Errorf("Token.Path = %q, want %q", cfg.Token.Path, "/tmp/flightdeck-token")
	}
	if cfg.Refresh.Interval != 45*time.Second {
		t.Errorf("Refresh.Interval = %v, want 45s", cfg.Refresh.Interval)
	}
	if cfg.Refresh.ReconcileDelay != 8*time.Second {
		t.Errorf("Refresh.ReconcileDelay = %v, want 8s", cfg.Refresh.ReconcileDelay)
	}
	if cfg.Reconnect.Attempts != 3 {
		t.Errorf("Reconnect.Attempts = %d, want 3", cfg.Reconnect.Attempts)
	}
	if cfg.Reconnect.Delay != 2*time.Second {
		t.Errorf("Reconnect.Delay = %v, want 2s", cfg.Reconnect.Delay)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: "warn"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backends.IdentityURL != DefaultIdentityURL {
		t.Errorf("Backends.IdentityURL = %q, want default %q", cfg.Backends.IdentityURL, DefaultIdentityURL)
	}
	if cfg.Backends.FlightOpsURL != DefaultFlightOpsURL {
		t.Errorf("Backends.FlightOpsURL = %q, want default %q", cfg.Backends.FlightOpsURL, DefaultFlightOpsURL)
	}
	if cfg.Refresh.Interval != DefaultRefreshInterval {
		t.Errorf("Refresh.Interval = %v, want default %v", cfg.Refresh.Interval, DefaultRefreshInterval)
	}
	if cfg.Refresh.ReconcileDelay != DefaultReconcileDelay {
		t.Errorf("Refresh.ReconcileDelay = %v, want default %v", cfg.Refresh.ReconcileDelay, DefaultReconcileDelay)
	}
	if cfg.Reconnect.Attempts != DefaultReconnectAttempts {
		t.Errorf("Reconnect.Attempts = %d, want default %d", cfg.Reconnect.Attempts, DefaultReconnectAttempts)
	}
	if cfg.Reconnect.Delay != DefaultReconnectDelay {
		t.Errorf("Reconnect.Delay = %v, want default %v", cfg.Reconnect.Delay, DefaultReconnectDelay)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Backends.IdentityURL != DefaultIdentityURL {
		t.Errorf("Backends.IdentityURL = %q, want %q", cfg.Backends.IdentityURL, DefaultIdentityURL)
	}
	if cfg.Refresh.ReconcileDelay != DefaultReconcileDelay {
		t.Errorf("Refresh.ReconcileDelay = %v, want %v", cfg.Refresh.ReconcileDelay, DefaultReconcileDelay)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("FLIGHTDECK_TEST_IDENTITY", "http://env-identity:5000")

	configPath := writeConfig(t, `
backends:
  identity_url: "${FLIGHTDECK_TEST_IDENTITY}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backends.IdentityURL != "http://env-identity:5000" {
		t.Errorf("Backends.IdentityURL = %q, want expanded env value", cfg.Backends.IdentityURL)
	}
}

func TestLoad_UnsetEnvVarExpandsEmpty(t *testing.T) {
	// An unset variable expands to "" and the default takes over.
	configPath := writeConfig(t, `
backends:
  identity_url: "${FLIGHTDECK_TEST_UNSET_VAR_12345}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backends.IdentityURL != DefaultIdentityURL {
		t.Errorf("Backends.IdentityURL = %q, want default %q", cfg.Backends.IdentityURL, DefaultIdentityURL)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	configPath := writeConfig(t, `
refresh:
  interval: "not-a-duration"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "refresh.interval") {
		t.Errorf("error %q does not mention refresh.interval", err)
	}
}

func TestLoad_InvalidURL(t *testing.T) {
	configPath := writeConfig(t, `
backends:
  identity_url: "not a url"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected error for invalid URL, got nil")
	}
}

func TestLoad_InvalidLoggingFormat(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  format: "xml"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected error for invalid logging format, got nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
}
