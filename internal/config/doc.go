// Package config handles configuration loading for flightdeck.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults; flightdeck runs with
// no config file at all via Default().
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from FLIGHTDECK_CONFIG environment variable
//  2. ./flightdeck.yaml (current directory)
//  3. ~/.config/flightdeck/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	backends:
//	  identity_url: "${FLIGHTDECK_IDENTITY_URL}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	refresh:
//	  interval: "30s"
//	  reconcile_delay: "6s"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Backend services:
//
//	backends:
//	  identity_url: "http://localhost:5000"
//	  flight_ops_url: "http://localhost:5001"
//
// Credential storage:
//
//	token:
//	  path: ""   # default: $XDG_CONFIG_HOME/flightdeck/token
//
// Flight refresh timing:
//
//	refresh:
//	  interval: "30s"        # unconditional poll interval
//	  reconcile_delay: "6s"  # post-booking reconciliation delay
//
// Notification channel reconnection:
//
//	reconnect:
//	  attempts: 5
//	  delay: "1s"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - Backend URLs are absolute http(s) URLs
//   - Duration format validity
//   - Logging format values
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("flightdeck.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
