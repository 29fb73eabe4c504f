package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultHost    = "0.0.0.0"
	DefaultPort    = 8080
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 60 * time.Second
)

// ServerConfig holds all server configuration. It is built once at startup
// and passed to the server; nothing reads the environment afterwards.
type ServerConfig struct {
	Host            string
	Port            int
	Verbose         bool
	Debug           bool
	Metrics         bool
	APIKey          string
	BaseURL         string
	UpstreamTimeout time.Duration
	LogFile         string
}

// LoadDotEnv loads variables from path into the process environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// DefaultFromEnv creates a ServerConfig with defaults from environment variables.
func DefaultFromEnv() *ServerConfig {
	return &ServerConfig{
		Host:            envOrDefault("HOST", DefaultHost),
		Port:            envInt("PORT", DefaultPort),
		Verbose:         envBool("RELAY_VERBOSE"),
		Debug:           envBool("RELAY_DEBUG"),
		Metrics:         envBool("RELAY_METRICS"),
		APIKey:          strings.TrimSpace(os.Getenv("API_KEY")),
		BaseURL:         strings.TrimRight(envOrDefault("OPENAI_BASE_URL", DefaultBaseURL), "/"),
		UpstreamTimeout: envDuration("RELAY_UPSTREAM_TIMEOUT", DefaultTimeout),
		LogFile:         strings.TrimSpace(os.Getenv("LOG_FILE")),
	}
}

// MaskedAPIKey returns the credential with all but its last four characters hidden.
func (c *ServerConfig) MaskedAPIKey() string {
	if c.APIKey == "" {
		return ""
	}
	if len(c.APIKey) <= 8 {
		return strings.Repeat("*", len(c.APIKey))
	}
	return strings.Repeat("*", len(c.APIKey)-4) + c.APIKey[len(c.APIKey)-4:]
}

func envOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func envInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
