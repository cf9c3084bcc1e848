package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.InputDir != "/app/input" || cfg.OutputDir != "/app/output" {
		t.Errorf("unexpected dirs: %s, %s", cfg.InputDir, cfg.OutputDir)
	}
	if cfg.Renderer != "native" {
		t.Errorf("expected native renderer, got %s", cfg.Renderer)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %s", cfg.Timeout)
	}
	if cfg.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Workers)
	}
	if !cfg.Database.Cache {
		t.Error("expected cache enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLayoutConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Heuristics.TitlePages = 3
	cfg.Heuristics.MetadataLabels = []string{"isbn"}

	l := cfg.LayoutConfig()
	if l.TitlePages != 3 {
		t.Errorf("TitlePages = %d, want 3", l.TitlePages)
	}
	if len(l.MetadataLabels) != 1 || l.MetadataLabels[0] != "isbn" {
		t.Errorf("MetadataLabels = %v", l.MetadataLabels)
	}

	l.MetadataLabels[0] = "changed"
	if cfg.Heuristics.MetadataLabels[0] != "isbn" {
		t.Error("LayoutConfig shares the labels slice")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty input dir", func(c *Config) { c.InputDir = "" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"unknown renderer", func(c *Config) { c.Renderer = "ghostscript" }},
		{"unknown format", func(c *Config) { c.OutputFormat = "docx" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad heuristics", func(c *Config) { c.Heuristics.TitleTopFraction = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("text handler", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := DefaultConfig()
		cfg.Logger(&buf).Info("hello", "file", "a.pdf")
		if !strings.Contains(buf.String(), "msg=hello file=a.pdf") {
			t.Errorf("unexpected text output: %s", buf.String())
		}
	})

	t.Run("json handler", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := DefaultConfig()
		cfg.Log.Format = "json"
		cfg.Logger(&buf).Info("hello")
		if !strings.Contains(buf.String(), `"msg":"hello"`) {
			t.Errorf("unexpected json output: %s", buf.String())
		}
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := DefaultConfig()
		cfg.Log.Level = "warn"
		logger := cfg.Logger(&buf)
		logger.Info("quiet")
		logger.Warn("loud")
		if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "outliner.yaml")

		configContent := `
input_dir: /data/in
output_dir: /data/out
renderer: mutool
timeout: 5s
heuristics:
  title_pages: 1
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.InputDir != "/data/in" || cfg.OutputDir != "/data/out" {
			t.Errorf("unexpected dirs: %s, %s", cfg.InputDir, cfg.OutputDir)
		}
		if cfg.Renderer != "mutool" {
			t.Errorf("expected mutool, got %s", cfg.Renderer)
		}
		if cfg.Timeout != 5*time.Second {
			t.Errorf("expected 5s, got %s", cfg.Timeout)
		}
		if cfg.Heuristics.TitlePages != 1 {
			t.Errorf("expected title_pages 1, got %d", cfg.Heuristics.TitlePages)
		}
		if cfg.Heuristics.DefaultBodySize != 10 {
			t.Errorf("expected default body size to survive, got %d", cfg.Heuristics.DefaultBodySize)
		}
		if mgr.ConfigFile() != configFile {
			t.Errorf("ConfigFile() = %s", mgr.ConfigFile())
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "outliner.yaml")
		if err := os.WriteFile(configFile, []byte("output_dir: /from/file\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("OUTLINER_OUTPUT_DIR", "/from/env")
		t.Setenv("OUTLINER_LOG_LEVEL", "debug")

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.OutputDir != "/from/env" {
			t.Errorf("expected env override, got %s", cfg.OutputDir)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("expected debug, got %s", cfg.Log.Level)
		}
	})

	t.Run("rejects invalid file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "outliner.yaml")
		if err := os.WriteFile(configFile, []byte("workers: 0\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewManager(configFile); !errors.Is(err, ErrInvalid) {
			t.Errorf("NewManager() = %v, want ErrInvalid", err)
		}
	})
}

func TestManager_OnChange_Multiple(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "outliner.yaml")
	if err := os.WriteFile(configFile, []byte("renderer: native\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 2 {
		t.Errorf("expected 2 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Reload(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "outliner.yaml")
	if err := os.WriteFile(configFile, []byte("workers: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatal(err)
	}
	mgr.Viper().Set("workers", 7)

	cfg, err := mgr.Reload()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 7 || mgr.Get().Workers != 7 {
		t.Errorf("workers after reload = %d", mgr.Get().Workers)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outliner.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# outliner configuration", "input_dir: /app/input", "timeout: 1m0s", "title_pages: 2"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("default config missing %q", want)
		}
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("written default does not load: %v", err)
	}
	if mgr.Get().Timeout != time.Minute {
		t.Errorf("timeout round trip = %s", mgr.Get().Timeout)
	}
}
