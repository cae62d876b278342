// ABOUTME: Persisted bearer-token storage for flightdeck
// ABOUTME: One token file under XDG config, written only by session and the 401 handler

// Package credential manages the single persisted credential the client
// holds: the bearer token issued by the identity service. The token lives
// in one file under the user's config directory; the FLIGHTDECK_TOKEN
// environment variable overrides the file for read-only use.
package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// envToken is checked before the token file. A token supplied through the
// environment cannot be cleared by logout or the 401 handler; it exists
// for scripting against the admin CLI.
const envToken = "FLIGHTDECK_TOKEN"

// Store reads and writes the persisted bearer token. All access is
// serialized: the request gateway reads on every call while the session
// layer may be writing.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// DefaultPath returns the default token file location:
// $XDG_CONFIG_HOME/flightdeck/token, falling back to ~/.config/flightdeck/token.
func DefaultPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "flightdeck", "token"), nil
}

// NewStore creates a token store at the given path. An empty path selects
// the default XDG location. Pass nil logger for default.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger.With("component", "credential"),
	}, nil
}

// Path returns the token file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the current token and whether one is present.
// The environment variable takes precedence over the file.
func (s *Store) Load() (string, bool) {
	if token := os.Getenv(envToken); token != "" {
		return token, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("reading token file", "path", s.path, "error", err)
		}
		return "", false
	}

	token := strings.TrimSpace(string(data))
	return token, token != ""
}

// Save persists the token, creating the parent directory if needed.
// The file is written 0600: the token is a live credential.
func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}

	s.logger.Debug("token persisted", "path", s.path)
	return nil
}

// Clear removes the persisted token. Missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}

	s.logger.Debug("token cleared", "path", s.path)
	return nil
}
