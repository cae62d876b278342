// ABOUTME: Entry point for the flightdeck terminal client
// ABOUTME: Wires config, credentials, gateways, session, and the bubbletea program

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skylane/flightdeck/internal/api"
	"github.com/skylane/flightdeck/internal/config"
	"github.com/skylane/flightdeck/internal/credential"
	"github.com/skylane/flightdeck/internal/flights"
	"github.com/skylane/flightdeck/internal/notify"
	"github.com/skylane/flightdeck/internal/session"
	"github.com/skylane/flightdeck/internal/tui"
)

// version is set at build time.
var version = "dev"

// getConfigPath resolves the config file location.
// Priority: FLIGHTDECK_CONFIG env var > XDG_CONFIG_HOME/flightdeck/config.yaml > ~/.config/flightdeck/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("FLIGHTDECK_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "flightdeck", "config.yaml")
}

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "", "Config file path (overrides FLIGHTDECK_CONFIG)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("flightdeck %s\n", version)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	if configPath == "" {
		configPath = getConfigPath()
	}

	// The client runs fine without a config file; defaults point at
	// local backends.
	cfg, err := config.Load(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = config.Default()
	}

	logger, err := setupLogger(cfg.Logging)
	if err != nil {
		return err
	}

	tokenPath := cfg.Token.Path
	if tokenPath == "" {
		tokenPath, err = credential.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolving token path: %w", err)
		}
	}
	store, err := credential.NewStore(tokenPath, logger)
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	// One shared policy so token injection and 401 handling are
	// identical across both backends. OnUnauthorized is wired after the
	// session manager exists.
	policy := &api.Policy{Credentials: store, Logger: logger}
	identity := api.NewIdentity(cfg.Backends.IdentityURL, policy)
	flightOps := api.NewFlightOps(cfg.Backends.FlightOpsURL, policy)

	manager := session.NewManager(identity, store, logger)
	policy.OnUnauthorized = manager.HandleUnauthorized

	channel := notify.New(notify.Options{
		EventsURL:   flightOps.EventsURL(),
		Credentials: store,
		MaxAttempts: cfg.Reconnect.Attempts,
		RetryDelay:  cfg.Reconnect.Delay,
		Logger:      logger,
	})
	defer channel.Disconnect()

	logger.Info("starting flightdeck",
		"version", version,
		"identity", cfg.Backends.IdentityURL,
		"flight_ops", cfg.Backends.FlightOpsURL,
	)

	model := tui.NewModel(tui.App{
		Ctx:             ctx,
		Session:         manager,
		Flights:         flights.NewModel(),
		Notifications:   channel,
		Identity:        identity,
		FlightOps:       flightOps,
		RefreshInterval: cfg.Refresh.Interval,
		ReconcileDelay:  cfg.Refresh.ReconcileDelay,
		Logger:          logger,
	})

	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// setupLogger builds the slog logger. The TUI owns the terminal, so
// text logs go to a file under the state directory and json goes to
// stderr for piping.
func setupLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}

	logPath, err := logFilePath()
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(file, opts)), nil
}

// logFilePath resolves XDG_STATE_HOME/flightdeck/client.log, creating
// the directory if needed.
func logFilePath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}
	dir := filepath.Join(stateDir, "flightdeck")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating state directory: %w", err)
	}
	return filepath.Join(dir, "client.log"), nil
}
