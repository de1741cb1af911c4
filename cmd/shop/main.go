package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"storefront/internal/config"
	"storefront/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiURL     string
	dbPath     string
	timeout    time.Duration

	cfg     *config.Config
	cfgFile string
	logger  *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shop",
	Short: "storefront - terminal client for the online store",
	Long: `shop browses the store catalog, keeps a persistent cart and places
orders against the store REST backend.

Run without arguments to start the interactive storefront.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Backend base URL (overrides config and env)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Cart database path (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default: config api.timeout)")

	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(reviewsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(demoServerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config, applies flag overrides and starts logging.
func setup() error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(c)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg, cfgFile = c, path

	if err := logging.Initialize(cfg.Logging.Options()); err != nil {
		return fmt.Errorf("failed to initialize file logging: %w", err)
	}

	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.Boot("Config loaded from %s, backend %s", path, cfg.API.BaseURL)
	return nil
}

// applyFlagOverrides applies the global flags on top of a loaded config.
func applyFlagOverrides(c *config.Config) {
	if apiURL != "" {
		c.API.BaseURL = apiURL
	}
	if dbPath != "" {
		c.Storage.Path = dbPath
	}
	if timeout > 0 {
		c.API.Timeout = timeout.String()
	}
	if verbose {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

func teardown() {
	if logger != nil {
		_ = logger.Sync()
	}
	logging.CloseAudit()
	logging.CloseAll()
}
