package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("empty path gives defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if time.Duration(cfg.RequestTimeout) != 120*time.Second {
			t.Fatalf("unexpected timeout %v", time.Duration(cfg.RequestTimeout))
		}
		if cfg.LLM.Provider != "mock" {
			t.Fatalf("unexpected provider %q", cfg.LLM.Provider)
		}
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		body := `{"server_addr":":9090","request_timeout":"30s","llm":{"provider":"openai","model":"gpt-4o-mini","api_key":"k"}}`
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.ServerAddr != ":9090" || time.Duration(cfg.RequestTimeout) != 30*time.Second {
			t.Fatalf("overrides not applied: %+v", cfg)
		}
		if cfg.DownloadPrefix != DefaultDownloadPrefix {
			t.Fatalf("default prefix lost: %q", cfg.DownloadPrefix)
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte(`{"request_timeout":120}`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Fatal("expected error for numeric duration")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Fatal("expected error")
		}
	})
}
