package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setenv sets an env var for the duration of a test, restoring the original on cleanup.
func setenv(t *testing.T, key, value string) {
	t.Helper()
	original, had := os.LookupEnv(key)
	os.Setenv(key, value) //nolint:errcheck
	t.Cleanup(func() {
		if had {
			os.Setenv(key, original) //nolint:errcheck
		} else {
			os.Unsetenv(key) //nolint:errcheck
		}
	})
}

// unsetenv clears an env var for the duration of a test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	original, had := os.LookupEnv(key)
	os.Unsetenv(key) //nolint:errcheck
	t.Cleanup(func() {
		if had {
			os.Setenv(key, original) //nolint:errcheck
		}
	})
}

var allKeys = []string{
	"HOST",
	"PORT",
	"API_KEY",
	"OPENAI_BASE_URL",
	"RELAY_VERBOSE",
	"RELAY_DEBUG",
	"RELAY_METRICS",
	"RELAY_UPSTREAM_TIMEOUT",
	"LOG_FILE",
}

// TestDefaultFromEnvDefaults checks that DefaultFromEnv returns expected defaults
// when no environment variables are set.
func TestDefaultFromEnvDefaults(t *testing.T) {
	for _, key := range allKeys {
		unsetenv(t, key)
	}

	cfg := DefaultFromEnv()

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host: got %q, want %q", cfg.Host, "0.0.0.0")
	}
	if cfg.Port != 8080 {
		t.Errorf("Port: got %d, want 8080", cfg.Port)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey: got %q, want empty", cfg.APIKey)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL: got %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.UpstreamTimeout != 60*time.Second {
		t.Errorf("UpstreamTimeout: got %v, want 60s", cfg.UpstreamTimeout)
	}
	if cfg.Verbose || cfg.Debug || cfg.Metrics {
		t.Error("Verbose, Debug and Metrics should be false by default")
	}
	if cfg.LogFile != "" {
		t.Errorf("LogFile: got %q, want empty", cfg.LogFile)
	}
}

// TestDefaultFromEnvOverrides verifies that environment variables override defaults.
func TestDefaultFromEnvOverrides(t *testing.T) {
	setenv(t, "HOST", "127.0.0.1")
	setenv(t, "PORT", "9090")
	setenv(t, "API_KEY", "  sk-secret  ")
	setenv(t, "OPENAI_BASE_URL", "http://localhost:1234/v1/")
	setenv(t, "RELAY_VERBOSE", "yes")
	setenv(t, "RELAY_DEBUG", "1")
	setenv(t, "RELAY_METRICS", "on")
	setenv(t, "RELAY_UPSTREAM_TIMEOUT", "15s")
	setenv(t, "LOG_FILE", "/tmp/relay.log")

	cfg := DefaultFromEnv()

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host: got %q", cfg.Host)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port: got %d, want 9090", cfg.Port)
	}
	if cfg.APIKey != "sk-secret" {
		t.Errorf("APIKey: got %q, want trimmed value", cfg.APIKey)
	}
	if cfg.BaseURL != "http://localhost:1234/v1" {
		t.Errorf("BaseURL: got %q, trailing slash should be trimmed", cfg.BaseURL)
	}
	if !cfg.Verbose || !cfg.Debug || !cfg.Metrics {
		t.Error("Verbose, Debug and Metrics should all be enabled")
	}
	if cfg.UpstreamTimeout != 15*time.Second {
		t.Errorf("UpstreamTimeout: got %v", cfg.UpstreamTimeout)
	}
	if cfg.LogFile != "/tmp/relay.log" {
		t.Errorf("LogFile: got %q", cfg.LogFile)
	}
}

func TestDefaultFromEnvInvalidNumbersFallBack(t *testing.T) {
	setenv(t, "PORT", "not-a-port")
	setenv(t, "RELAY_UPSTREAM_TIMEOUT", "soon")

	cfg := DefaultFromEnv()
	if cfg.Port != DefaultPort {
		t.Errorf("Port: got %d, want default", cfg.Port)
	}
	if cfg.UpstreamTimeout != DefaultTimeout {
		t.Errorf("UpstreamTimeout: got %v, want default", cfg.UpstreamTimeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	unsetenv(t, "API_KEY")
	setenv(t, "PORT", "7000")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("API_KEY=from-file\nPORT=1111\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("API_KEY") }) //nolint:errcheck

	cfg := DefaultFromEnv()
	if cfg.APIKey != "from-file" {
		t.Errorf("APIKey: got %q, want value from .env", cfg.APIKey)
	}
	if cfg.Port != 7000 {
		t.Errorf("Port: got %d, existing env must win over .env", cfg.Port)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}
	if err := LoadDotEnv(""); err != nil {
		t.Fatalf("empty path should be ignored, got %v", err)
	}
}

func TestMaskedAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"short", "*****"},
		{"sk-1234567890abcd", "*************abcd"},
	}
	for _, tt := range tests {
		cfg := &ServerConfig{APIKey: tt.key}
		if got := cfg.MaskedAPIKey(); got != tt.want {
			t.Errorf("MaskedAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
