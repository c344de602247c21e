package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
)

// TestInit tests the Init function with various configurations.
// Note: This test cannot run in parallel with other tests that use global state.
func TestInit(t *testing.T) {
	validDir := t.TempDir()
	debugDir := t.TempDir()
	componentsDir := t.TempDir()
	invalidDir := t.TempDir()

	// A regular file blocks directory creation beneath it.
	blocker := filepath.Join(invalidDir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}

	tests := []struct {
		name    string
		cfg     logging.Config
		wantErr bool
	}{
		{
			name: "valid config with defaults",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(validDir, "test.log"),
			},
			wantErr: false,
		},
		{
			name: "valid config with debug level",
			cfg: logging.Config{
				Level: "debug",
				Path:  filepath.Join(debugDir, "debug.log"),
			},
			wantErr: false,
		},
		{
			name: "valid config with component overrides",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(componentsDir, "components.log"),
				Components: map[string]string{
					"scan":      "debug",
					"enumerate": "warn",
				},
			},
			wantErr: false,
		},
		{
			name: "invalid log level",
			cfg: logging.Config{
				Level: "invalid",
				Path:  filepath.Join(t.TempDir(), "invalid.log"),
			},
			wantErr: true,
		},
		{
			name: "invalid path - file in the way",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(blocker, "sub", "test.log"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Note: No t.Parallel() - these tests modify global state

			err := logging.Init(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Init() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err == nil {
				if closeErr := logging.Close(); closeErr != nil {
					t.Errorf("Close() error = %v", closeErr)
				}
			}
		})
	}
}

func TestGetBeforeInit(t *testing.T) {
	// Loggers obtained before Init are silent but must not panic.
	logger := logging.Get("early")
	logger.Info("discarded")
	logger.Debug("discarded")
}

func TestLoggerWritesToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "test.log")

	cfg := logging.Config{
		Level: "debug",
		Path:  logPath,
	}
	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer func() {
		if err := logging.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	logger := logging.Get("scan")
	logger.Info("scan started", "roots", "/data")
	logger.Debug("detail", "path", "/data/file")
	logger.Warn("something odd")
	logger.Error("something bad")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	content := string(data)
	for _, want := range []string{"scan started", "detail", "something odd", "something bad"} {
		if !strings.Contains(content, want) {
			t.Errorf("log file missing %q", want)
		}
	}
}

func TestComponentLevelFiltering(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "test.log")

	cfg := logging.Config{
		Level: "debug",
		Path:  logPath,
		Components: map[string]string{
			"quiet": "error",
		},
	}
	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer func() { _ = logging.Close() }()

	quiet := logging.Get("quiet")
	quiet.Debug("component debug suppressed")
	quiet.Error("component error kept")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	content := string(data)
	if strings.Contains(content, "component debug suppressed") {
		t.Error("debug message should be filtered for error-level component")
	}
	if !strings.Contains(content, "component error kept") {
		t.Error("error message missing for error-level component")
	}
}

func TestLoggerWith(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "test.log")

	if err := logging.Init(logging.Config{Level: "info", Path: logPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer func() { _ = logging.Close() }()

	logger := logging.Get("scan").With("session", "abc-123")
	logger.Info("scan finished")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "abc-123") {
		t.Error("log entry missing With() context")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("Level = %q, want %q", cfg.Level, "info")
	}
	if cfg.Path != logging.DefaultLogPath() {
		t.Errorf("Path = %q, want %q", cfg.Path, logging.DefaultLogPath())
	}
	if cfg.Rotation != logging.DefaultRotationConfig() {
		t.Errorf("Rotation = %+v, want defaults", cfg.Rotation)
	}
	if cfg.ConsoleLevel != "" {
		t.Errorf("ConsoleLevel = %q, want disabled", cfg.ConsoleLevel)
	}

	if err := logging.Init(logging.Config{
		Level:    cfg.Level,
		Path:     filepath.Join(t.TempDir(), "default.log"),
		Rotation: cfg.Rotation,
	}); err != nil {
		t.Fatalf("Init() with default config error = %v", err)
	}
	if err := logging.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"info", logging.LevelInfo, false},
		{"warn", logging.LevelWarn, false},
		{"error", logging.LevelError, false},
		{"WARN", logging.LevelWarn, false},
		{"bogus", logging.LevelInfo, true},
		{"", logging.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestReinit(t *testing.T) {
	first := filepath.Join(t.TempDir(), "first.log")
	second := filepath.Join(t.TempDir(), "second.log")

	if err := logging.Init(logging.Config{Level: "info", Path: first}); err != nil {
		t.Fatalf("first Init() error = %v", err)
	}
	logging.Get("scan").Info("to first")

	if err := logging.Init(logging.Config{Level: "info", Path: second}); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	defer func() { _ = logging.Close() }()
	logging.Get("scan").Info("to second")

	// Give the writer a moment on slow filesystems.
	time.Sleep(10 * time.Millisecond)

	data, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("failed to read second log: %v", err)
	}
	if !strings.Contains(string(data), "to second") {
		t.Error("second log missing entry after reinit")
	}
}
