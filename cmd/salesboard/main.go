package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chrisconley/salesboard/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration

	// Source overrides
	organizationsPath string
	subscriptionsPath string
	ordersPath        string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "salesboard",
	Short: "Sales pipeline metrics from organizations, subscriptions and orders",
	Long: `salesboard normalizes the organization, subscription and order tables,
joins orders to organization segments and builds the dashboard metric bundle.

Tables are read from CSV files or PostgreSQL as configured in salesboard.yaml.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applySourceFlags(cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = newLogger(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newLogger(c config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Encoding != "" {
		zc.Encoding = c.Encoding
	}
	if c.Level != "" {
		level, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// applySourceFlags lets CSV paths on the command line replace the configured
// source.
func applySourceFlags(c *config.Config) {
	if organizationsPath == "" && subscriptionsPath == "" && ordersPath == "" {
		return
	}
	c.Source.Kind = config.SourceCSV
	c.Source.Organizations = organizationsPath
	c.Source.Subscriptions = subscriptionsPath
	c.Source.Orders = ordersPath
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "salesboard.yaml", "Config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.PersistentFlags().StringVar(&organizationsPath, "organizations", "", "Organizations CSV (overrides source config)")
	rootCmd.PersistentFlags().StringVar(&subscriptionsPath, "subscriptions", "", "Subscriptions CSV (overrides source config)")
	rootCmd.PersistentFlags().StringVar(&ordersPath, "orders", "", "Orders CSV (overrides source config)")

	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Write the JSON bundle to a file instead of stdout")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "Directory for the exported CSV files")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
