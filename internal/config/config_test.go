package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/khushi-saxena/TradeSage/internal/core"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090

backtest:
  strategy: sma_crossover
  short_window: 20
  long_window: 100
  initial_capital: 50000
  annualization_factor: 252

archive:
  enabled: true
  type: localfs
  path: "/tmp/tradesage/archive"
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Backtest.ShortWindow != 20 || cfg.Backtest.LongWindow != 100 {
		t.Errorf("unexpected windows: %d/%d", cfg.Backtest.ShortWindow, cfg.Backtest.LongWindow)
	}
	if cfg.Archive.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Archive.Type)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TRADESAGE_TEST_KEY", "secret-key")

	content := []byte(`
server:
  port: 8080
  api_key: "${TRADESAGE_TEST_KEY}"
`)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.APIKey != "secret-key" {
		t.Errorf("expected env expansion, got %q", cfg.Server.APIKey)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Backtest.ShortWindow != 50 || cfg.Backtest.LongWindow != 200 {
		t.Errorf("expected default windows 50/200, got %d/%d",
			cfg.Backtest.ShortWindow, cfg.Backtest.LongWindow)
	}
	if cfg.Backtest.InitialCapital != 100000 {
		t.Errorf("expected default capital 100000, got %f", cfg.Backtest.InitialCapital)
	}
	if cfg.Backtest.AnnualizationFactor != 252 {
		t.Errorf("expected default annualization 252, got %d", cfg.Backtest.AnnualizationFactor)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := *Defaults()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero short window", func(c *Config) { c.Backtest.ShortWindow = 0 }, true},
		{"zero long window", func(c *Config) { c.Backtest.LongWindow = 0 }, true},
		{"non-positive capital", func(c *Config) { c.Backtest.InitialCapital = 0 }, true},
		{"zero annualization", func(c *Config) { c.Backtest.AnnualizationFactor = 0 }, true},
		{"unknown archive type", func(c *Config) { c.Archive.Type = "tape" }, true},
		{"s3 without bucket", func(c *Config) { c.Archive.Type = "s3" }, true},
		{"archive disabled skips archive checks", func(c *Config) {
			c.Archive.Enabled = false
			c.Archive.Type = "tape"
		}, false},
		{"claude without key", func(c *Config) { c.LLM.Provider = "claude" }, true},
		{"ollama with endpoint", func(c *Config) {
			c.LLM.Provider = "ollama"
			c.LLM.Ollama.Endpoint = "http://localhost:11434"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, core.ErrConfigInvalid) && !errors.Is(err, core.ErrConfigMissing) {
					t.Errorf("expected config error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
