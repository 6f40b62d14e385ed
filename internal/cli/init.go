// Package cli holds the start-up helpers shared by the tracker commands
// and the interactive menu.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tracker/internal/backend"
	"tracker/internal/config"
	applog "tracker/internal/log"
)

// LoadEnvFile loads variables from a .env file. With an empty path the
// default .env is tried and a missing file is not an error; an explicit
// path must exist.
func LoadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// LoadAndValidateConfig reads the configuration from the environment.
// override, when set, adjusts it (command-line flags) before validation.
func LoadAndValidateConfig(override func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default. debug forces the debug level.
func SetupLogger(cfg *config.Config, debug bool) (*applog.Logger, error) {
	logCfg := applog.DefaultConfig()
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logCfg.Level = level
	if debug {
		logCfg.Level = slog.LevelDebug
	}
	logCfg.Format = cfg.LogFormat
	logCfg.Component = applog.ComponentCLI

	logger := applog.New(logCfg)
	applog.SetDefault(logger)
	return logger, nil
}

// InitBackend creates the configured store and wraps it in the service.
func InitBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize %s backend: %w", backendCfg.Type, err)
	}
	return result, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
