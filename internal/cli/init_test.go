package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"tracker/internal/config"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("EXPENSES_FILE=from-env.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EXPENSES_FILE", "")
	os.Unsetenv("EXPENSES_FILE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("EXPENSES_FILE"); got != "from-env.csv" {
		t.Fatalf("EXPENSES_FILE = %q", got)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("expected error for explicit missing file")
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	if err := LoadEnvFile(""); err != nil {
		t.Fatalf("default .env should be optional: %v", err)
	}
}

func TestSetupLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	cfg, err := LoadAndValidateConfig(nil)
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	logger, err := SetupLogger(cfg, false)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be disabled at error level")
	}

	logger, err = SetupLogger(cfg, true)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug flag should enable debug level")
	}
}

func TestInitBackendCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.csv")
	t.Setenv("DATA_BACKEND", "csv")
	t.Setenv("EXPENSES_FILE", path)
	t.Setenv("AMQP_URL", "")

	cfg, err := LoadAndValidateConfig(nil)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	logger, _ := SetupLogger(cfg, false)

	result, err := InitBackend(context.Background(), logger, cfg)
	if err != nil {
		t.Fatalf("init backend: %v", err)
	}
	defer result.Cleanup()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expenses file not created: %v", err)
	}
}

func TestLoadAndValidateConfigRejectsBackend(t *testing.T) {
	t.Setenv("DATA_BACKEND", "postgres")
	if _, err := LoadAndValidateConfig(nil); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadAndValidateConfigOverride(t *testing.T) {
	t.Setenv("DATA_BACKEND", "postgres")
	cfg, err := LoadAndValidateConfig(func(c *config.Config) {
		c.DataBackend = config.BackendMemory
	})
	if err != nil {
		t.Fatalf("override should fix backend: %v", err)
	}
	if cfg.DataBackend != config.BackendMemory {
		t.Fatalf("backend = %q", cfg.DataBackend)
	}
}
