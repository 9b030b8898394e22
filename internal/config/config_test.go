package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want %q", cfg.UserAgent, DefaultUserAgent)
	}
	if len(cfg.Providers) != 3 {
		t.Fatalf("Providers = %v, want baseline set of 3", cfg.Providers)
	}
	if cfg.Providers[0] != "opensubtitles" {
		t.Errorf("Providers[0] = %q, want opensubtitles", cfg.Providers[0])
	}
	if cfg.Retries != 1 {
		t.Errorf("Retries = %d, want conservative default of 1", cfg.Retries)
	}
	if len(cfg.Languages) != 1 || cfg.Languages[0] != "en" {
		t.Errorf("Languages = %v, want [en]", cfg.Languages)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.MinScore != 0 {
		t.Errorf("MinScore = %v, want 0", cfg.MinScore)
	}
}

func TestLoadConfig_EnvCredentials(t *testing.T) {
	t.Setenv("OPENSUBTITLES_USERNAME", "someuser")
	t.Setenv("OPENSUBTITLES_PASSWORD", "somepass")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if !cfg.HasCredentials() {
		t.Fatal("expected HasCredentials to be true with env pair set")
	}
	if cfg.OpenSubtitles.Username != "someuser" {
		t.Errorf("Username = %q, want someuser", cfg.OpenSubtitles.Username)
	}
	if cfg.OpenSubtitles.Password != "somepass" {
		t.Errorf("Password = %q, want somepass", cfg.OpenSubtitles.Password)
	}
}

func TestConfig_HasCredentials_PartialPair(t *testing.T) {
	var cfg Config
	cfg.OpenSubtitles.Username = "someuser"
	if cfg.HasCredentials() {
		t.Error("username without password should not count as credentials")
	}
}

func TestConfig_Durations(t *testing.T) {
	tests := []struct {
		name     string
		timeout  string
		expected time.Duration
	}{
		{name: "valid", timeout: "5s", expected: 5 * time.Second},
		{name: "empty falls back", timeout: "", expected: 30 * time.Second},
		{name: "invalid falls back", timeout: "soon", expected: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{ClientTimeout: tt.timeout}
			if got := cfg.Timeout(); got != tt.expected {
				t.Errorf("Timeout() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestConfig_Delay(t *testing.T) {
	cfg := Config{DelaySeconds: 1.5}
	if got := cfg.Delay(); got != 1500*time.Millisecond {
		t.Errorf("Delay() = %v, want 1.5s", got)
	}

	cfg = Config{DelaySeconds: 0}
	if got := cfg.Delay(); got != 0 {
		t.Errorf("Delay() = %v, want 0", got)
	}
}
