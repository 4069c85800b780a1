package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reillypo/nps-explorer/internal/build"
	"github.com/reillypo/nps-explorer/internal/config"
)

// clearEnv keeps NPS_* variables of the developer's shell out of the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"NPS_BASE_URL", "NPS_API_BASE_URL", "NPS_API_KEY", "NPS_CACHE_FILE",
		"NPS_USER_AGENT", "NPS_TIMEOUT", "NPS_REQUESTS_PER_SECOND",
		"NPS_LOG_LEVEL", "NPS_LOG_FORMAT",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeConfigFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestWithDefault(t *testing.T) {
	cfg := config.WithDefault()

	if cfg == nil {
		t.Fatal("WithDefault() returned nil")
	}

	builtCfg, err := cfg.Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if builtCfg.BaseURL() != "https://www.nps.gov" {
		t.Errorf("expected BaseURL 'https://www.nps.gov', got '%s'", builtCfg.BaseURL())
	}
	if builtCfg.APIBaseURL() != "http://www.mapquestapi.com/search/v2/radius" {
		t.Errorf("unexpected APIBaseURL '%s'", builtCfg.APIBaseURL())
	}
	if builtCfg.APIKey() != "" {
		t.Errorf("expected no APIKey by default, got '%s'", builtCfg.APIKey())
	}
	if builtCfg.CacheFile() != "cache.json" {
		t.Errorf("expected CacheFile 'cache.json', got '%s'", builtCfg.CacheFile())
	}
	if builtCfg.UserAgent() != build.UserAgent() {
		t.Errorf("expected UserAgent '%s', got '%s'", build.UserAgent(), builtCfg.UserAgent())
	}
	if builtCfg.Timeout() != 0 {
		t.Errorf("expected no Timeout, got %v", builtCfg.Timeout())
	}
	if builtCfg.RequestsPerSecond() != 0 {
		t.Errorf("expected unlimited RequestsPerSecond, got %f", builtCfg.RequestsPerSecond())
	}
	if builtCfg.LogLevel() != "warn" || builtCfg.LogFormat() != "console" {
		t.Errorf("expected warn/console logging, got %s/%s", builtCfg.LogLevel(), builtCfg.LogFormat())
	}
}

func TestBuilder_Overrides(t *testing.T) {
	cfg, err := config.WithDefault().
		WithBaseURL("https://nps.example/").
		WithAPIBaseURL("https://api.example/radius").
		WithAPIKey("secret").
		WithCacheFile("/tmp/nps/cache.json").
		WithUserAgent("tester/0.1").
		WithTimeout(5 * time.Second).
		WithRequestsPerSecond(2.5).
		WithLogLevel("debug").
		WithLogFormat("json").
		Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if cfg.BaseURL() != "https://nps.example" {
		t.Errorf("expected trailing slash trimmed, got '%s'", cfg.BaseURL())
	}
	if cfg.APIBaseURL() != "https://api.example/radius" {
		t.Errorf("unexpected APIBaseURL '%s'", cfg.APIBaseURL())
	}
	if cfg.APIKey() != "secret" {
		t.Errorf("unexpected APIKey '%s'", cfg.APIKey())
	}
	if cfg.CacheFile() != "/tmp/nps/cache.json" {
		t.Errorf("unexpected CacheFile '%s'", cfg.CacheFile())
	}
	if cfg.UserAgent() != "tester/0.1" {
		t.Errorf("unexpected UserAgent '%s'", cfg.UserAgent())
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("expected Timeout 5s, got %v", cfg.Timeout())
	}
	if cfg.RequestsPerSecond() != 2.5 {
		t.Errorf("expected RequestsPerSecond 2.5, got %f", cfg.RequestsPerSecond())
	}
	if cfg.LogLevel() != "debug" || cfg.LogFormat() != "json" {
		t.Errorf("expected debug/json logging, got %s/%s", cfg.LogLevel(), cfg.LogFormat())
	}
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		builder *config.Config
	}{
		{name: "relative base url", builder: config.WithDefault().WithBaseURL("/state/mi")},
		{name: "empty api url", builder: config.WithDefault().WithAPIBaseURL("")},
		{name: "empty cache file", builder: config.WithDefault().WithCacheFile("")},
		{name: "negative timeout", builder: config.WithDefault().WithTimeout(-time.Second)},
		{name: "negative rate", builder: config.WithDefault().WithRequestsPerSecond(-1)},
		{name: "unknown log level", builder: config.WithDefault().WithLogLevel("loud")},
		{name: "unknown log format", builder: config.WithDefault().WithLogFormat("xml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestWithConfigFile_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "nps.yaml", `
api_key: from-file
cache_file: /var/cache/nps.json
timeout: 15s
requests_per_second: 1
log_format: json
`)

	cfg, err := config.WithConfigFile(path)
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if cfg.APIKey() != "from-file" {
		t.Errorf("expected APIKey 'from-file', got '%s'", cfg.APIKey())
	}
	if cfg.CacheFile() != "/var/cache/nps.json" {
		t.Errorf("unexpected CacheFile '%s'", cfg.CacheFile())
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("expected Timeout 15s, got %v", cfg.Timeout())
	}
	if cfg.RequestsPerSecond() != 1 {
		t.Errorf("expected RequestsPerSecond 1, got %f", cfg.RequestsPerSecond())
	}
	if cfg.LogFormat() != "json" {
		t.Errorf("expected LogFormat json, got %s", cfg.LogFormat())
	}
	// untouched keys keep their defaults
	if cfg.BaseURL() != "https://www.nps.gov" {
		t.Errorf("expected default BaseURL, got '%s'", cfg.BaseURL())
	}
}

func TestWithConfigFile_JSON(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "nps.json", `{"api_key": "json-key", "user_agent": "json-agent/1"}`)

	cfg, err := config.WithConfigFile(path)
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if cfg.APIKey() != "json-key" {
		t.Errorf("expected APIKey 'json-key', got '%s'", cfg.APIKey())
	}
	if cfg.UserAgent() != "json-agent/1" {
		t.Errorf("expected UserAgent 'json-agent/1', got '%s'", cfg.UserAgent())
	}
}

func TestWithConfigFile_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "nps.yaml", "api_key: from-file\n")
	t.Setenv("NPS_API_KEY", "from-env")

	cfg, err := config.WithConfigFile(path)
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if cfg.APIKey() != "from-env" {
		t.Errorf("expected APIKey 'from-env', got '%s'", cfg.APIKey())
	}
}

func TestWithConfigFile_Missing(t *testing.T) {
	_, err := config.WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("expected ErrFileDoesNotExist, got %v", err)
	}
}

func TestWithConfigFile_Malformed(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "nps.json", `{"api_key": `)

	_, err := config.WithConfigFile(path)
	if !errors.Is(err, config.ErrReadConfigFail) {
		t.Errorf("expected ErrReadConfigFail, got %v", err)
	}
}

func TestWithConfigFile_InvalidValue(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "nps.yaml", "log_format: xml\n")

	_, err := config.WithConfigFile(path)
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("NPS_API_KEY", "env-key")
	t.Setenv("NPS_CACHE_FILE", "/data/nps.json")
	t.Setenv("NPS_TIMEOUT", "3s")

	cfg, err := config.FromEnvironment()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if cfg.APIKey() != "env-key" {
		t.Errorf("expected APIKey 'env-key', got '%s'", cfg.APIKey())
	}
	if cfg.CacheFile() != "/data/nps.json" {
		t.Errorf("expected CacheFile '/data/nps.json', got '%s'", cfg.CacheFile())
	}
	if cfg.Timeout() != 3*time.Second {
		t.Errorf("expected Timeout 3s, got %v", cfg.Timeout())
	}
}

func TestFromEnvironment_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.FromEnvironment()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if cfg.CacheFile() != "cache.json" {
		t.Errorf("expected default CacheFile, got '%s'", cfg.CacheFile())
	}
}
