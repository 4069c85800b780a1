package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/reillypo/nps-explorer/internal/cache"
	"github.com/reillypo/nps-explorer/internal/config"
	"github.com/reillypo/nps-explorer/internal/model"
	"github.com/reillypo/nps-explorer/internal/nearby"
	"github.com/reillypo/nps-explorer/internal/pipeline"
	"github.com/reillypo/nps-explorer/pkg/failure"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile           string
	cacheFile         string
	apiKey            string
	baseURL           string
	apiBaseURL        string
	userAgent         string
	timeout           time.Duration
	requestsPerSecond float64
	logLevel          string
	logFormat         string
)

// Explorer is what the commands need from the pipeline.
type Explorer interface {
	States(ctx context.Context) (model.StateDirectory, failure.ClassifiedError)
	Sites(ctx context.Context, state string) ([]model.NationalSite, failure.ClassifiedError)
	Nearby(ctx context.Context, site model.NationalSite) (nearby.Result, failure.ClassifiedError)
	CacheStats() cache.Stats
	ClearCache() error
}

var newExplorer = func(cfg config.Config) Explorer {
	p := pipeline.New(cfg)
	return &p
}

// explorer is built once the config has been resolved.
var explorer Explorer

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nps",
	Short: "Browse national park sites by state and find places nearby.",
	Long: `nps lists the national park sites of a state as published on nps.gov
and looks up points of interest around a site through the MapQuest radius
search.

Every page and API response is kept in a local JSON cache, so repeating a
lookup never hits the network again. Run without a subcommand to start the
interactive explorer.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		if err := config.InitLogger(cfg); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		explorer = newExplorer(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: runExplore,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, JSON or YAML (e.g., ~/.config/nps.yaml)")
	rootCmd.PersistentFlags().StringVar(&cacheFile, "cache-file", "", "location of the JSON cache document")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "MapQuest API key (overrides NPS_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "park directory landing page")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-base-url", "", "radius search endpoint")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests (0 for none)")
	rootCmd.PersistentFlags().Float64Var(&requestsPerSecond, "requests-per-second", 0, "pace outbound requests (0 for unlimited)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "console or json")

	rootCmd.AddCommand(exploreCmd, statesCmd, sitesCmd, nearbyCmd, cacheCmd, versionCmd)
}

// InitConfigWithError reads the config file, or the environment when no
// file is given, then applies CLI flag overrides.
func InitConfigWithError() (config.Config, error) {
	var base config.Config
	var err error
	if cfgFile != "" {
		base, err = config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
	} else {
		base, err = config.FromEnvironment()
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from environment: %w", err)
		}
	}

	configBuilder := &base

	// Override with CLI flag values where provided
	if cacheFile != "" {
		configBuilder = configBuilder.WithCacheFile(cacheFile)
	}

	if apiKey != "" {
		configBuilder = configBuilder.WithAPIKey(apiKey)
	}

	if baseURL != "" {
		configBuilder = configBuilder.WithBaseURL(baseURL)
	}

	if apiBaseURL != "" {
		configBuilder = configBuilder.WithAPIBaseURL(apiBaseURL)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if requestsPerSecond > 0 {
		configBuilder = configBuilder.WithRequestsPerSecond(requestsPerSecond)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	return configBuilder.Build()
}

func ResetFlags() {
	cfgFile = ""
	cacheFile = ""
	apiKey = ""
	baseURL = ""
	apiBaseURL = ""
	userAgent = ""
	timeout = 0
	requestsPerSecond = 0
	logLevel = ""
	logFormat = ""
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetCacheFileForTest(path string) {
	cacheFile = path
}

func SetAPIKeyForTest(key string) {
	apiKey = key
}

func SetBaseURLForTest(u string) {
	baseURL = u
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetRequestsPerSecondForTest(rps float64) {
	requestsPerSecond = rps
}

func SetLogLevelForTest(level string) {
	logLevel = level
}

// SetExplorerFactoryForTest swaps the pipeline constructor and returns a
// function restoring the previous one.
func SetExplorerFactoryForTest(factory func(cfg config.Config) Explorer) func() {
	previous := newExplorer
	newExplorer = factory
	return func() { newExplorer = previous }
}

// RootCommandForTest exposes the command tree to black-box tests.
func RootCommandForTest() *cobra.Command {
	return rootCmd
}
