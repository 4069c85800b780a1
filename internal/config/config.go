package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/reillypo/nps-explorer/internal/build"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment variable the config reads,
// e.g. NPS_API_KEY.
const EnvPrefix = "NPS"

type Config struct {
	//===============
	// Sources
	//===============
	// Landing page of the park directory; every site URL is built on it
	baseURL string
	// Radius search endpoint of the geo-search API, without query
	apiBaseURL string
	// Credential sent as the "key" parameter of every radius search
	apiKey string

	//===============
	// Cache
	//===============
	// Location of the single JSON cache document
	cacheFile string

	//===============
	// Fetch
	//===============
	// User agent that will be used in the request header. In raw string
	userAgent string
	// Upper bound of a single request. Zero means no bound
	timeout time.Duration
	// Client-side pacing of outbound requests. Zero means unlimited
	requestsPerSecond float64

	//===============
	// Logging
	//===============
	// zap level name: debug, info, warn, error
	logLevel string
	// json (production encoder) or console (development encoder)
	logFormat string
}

type configDTO struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIBaseURL        string        `mapstructure:"api_base_url"`
	APIKey            string        `mapstructure:"api_key"`
	CacheFile         string        `mapstructure:"cache_file"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	LogLevel          string        `mapstructure:"log_level"`
	LogFormat         string        `mapstructure:"log_format"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	builder := WithDefault()

	// only override if non-zero value is provided
	if dto.BaseURL != "" {
		builder = builder.WithBaseURL(dto.BaseURL)
	}
	if dto.APIBaseURL != "" {
		builder = builder.WithAPIBaseURL(dto.APIBaseURL)
	}
	if dto.APIKey != "" {
		builder = builder.WithAPIKey(dto.APIKey)
	}
	if dto.CacheFile != "" {
		builder = builder.WithCacheFile(dto.CacheFile)
	}
	if dto.UserAgent != "" {
		builder = builder.WithUserAgent(dto.UserAgent)
	}
	if dto.Timeout != 0 {
		builder = builder.WithTimeout(dto.Timeout)
	}
	if dto.RequestsPerSecond != 0 {
		builder = builder.WithRequestsPerSecond(dto.RequestsPerSecond)
	}
	if dto.LogLevel != "" {
		builder = builder.WithLogLevel(dto.LogLevel)
	}
	if dto.LogFormat != "" {
		builder = builder.WithLogFormat(dto.LogFormat)
	}

	return builder.Build()
}

// newViper returns a viper instance that knows every key, so NPS_*
// variables are honored even when no config file sets them.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := WithDefault()
	v.SetDefault("base_url", defaults.baseURL)
	v.SetDefault("api_base_url", defaults.apiBaseURL)
	v.SetDefault("api_key", defaults.apiKey)
	v.SetDefault("cache_file", defaults.cacheFile)
	v.SetDefault("user_agent", defaults.userAgent)
	v.SetDefault("timeout", defaults.timeout)
	v.SetDefault("requests_per_second", defaults.requestsPerSecond)
	v.SetDefault("log_level", defaults.logLevel)
	v.SetDefault("log_format", defaults.logFormat)
	return v
}

func fromViper(v *viper.Viper) (Config, error) {
	cfgDTO := configDTO{}
	if err := v.Unmarshal(&cfgDTO); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}
	return newConfigFromDTO(cfgDTO)
}

// WithConfigFile loads a JSON, YAML or TOML file. NPS_* environment
// variables override values from the file.
func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	return fromViper(v)
}

// FromEnvironment builds a config from defaults and NPS_* variables.
func FromEnvironment() (Config, error) {
	return fromViper(newViper())
}

// WithDefault creates a new Config pointing at the public directory and
// search endpoint, with no API key and no request pacing.
func WithDefault() *Config {
	defaultConfig := Config{
		baseURL:           "https://www.nps.gov",
		apiBaseURL:        "http://www.mapquestapi.com/search/v2/radius",
		apiKey:            "",
		cacheFile:         "cache.json",
		userAgent:         build.UserAgent(),
		timeout:           0,
		requestsPerSecond: 0,
		logLevel:          "warn",
		logFormat:         "console",
	}
	return &defaultConfig
}

func (c *Config) WithBaseURL(baseURL string) *Config {
	c.baseURL = baseURL
	return c
}

func (c *Config) WithAPIBaseURL(apiBaseURL string) *Config {
	c.apiBaseURL = apiBaseURL
	return c
}

func (c *Config) WithAPIKey(apiKey string) *Config {
	c.apiKey = apiKey
	return c
}

func (c *Config) WithCacheFile(path string) *Config {
	c.cacheFile = path
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithRequestsPerSecond(rps float64) *Config {
	c.requestsPerSecond = rps
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) Build() (Config, error) {
	if err := requireAbsoluteURL("baseURL", c.baseURL); err != nil {
		return Config{}, err
	}
	if err := requireAbsoluteURL("apiBaseURL", c.apiBaseURL); err != nil {
		return Config{}, err
	}
	if c.cacheFile == "" {
		return Config{}, fmt.Errorf("%w: cacheFile cannot be empty", ErrInvalidConfig)
	}
	if c.timeout < 0 {
		return Config{}, fmt.Errorf("%w: timeout cannot be negative", ErrInvalidConfig)
	}
	if c.requestsPerSecond < 0 {
		return Config{}, fmt.Errorf("%w: requestsPerSecond cannot be negative", ErrInvalidConfig)
	}
	if _, err := zapcore.ParseLevel(c.logLevel); err != nil {
		return Config{}, fmt.Errorf("%w: logLevel %q", ErrInvalidConfig, c.logLevel)
	}
	if c.logFormat != "json" && c.logFormat != "console" {
		return Config{}, fmt.Errorf("%w: logFormat must be json or console, got %q", ErrInvalidConfig, c.logFormat)
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return *c, nil
}

func requireAbsoluteURL(name string, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute URL, got %q", ErrInvalidConfig, name, raw)
	}
	return nil
}

func (c Config) BaseURL() string {
	return c.baseURL
}

func (c Config) APIBaseURL() string {
	return c.apiBaseURL
}

func (c Config) APIKey() string {
	return c.apiKey
}

func (c Config) CacheFile() string {
	return c.cacheFile
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) RequestsPerSecond() float64 {
	return c.requestsPerSecond
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func (c Config) LogFormat() string {
	return c.logFormat
}
