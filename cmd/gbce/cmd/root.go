package cmd

import (
	"fmt"

	"github.com/rustyeddy/gbce/config"
	"github.com/rustyeddy/gbce/exchange"
	"github.com/rustyeddy/gbce/logger"
	"github.com/rustyeddy/gbce/market"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "gbce",
	Short: "Global Beverage Corporation Exchange analytics",
	Long: `gbce computes stock valuation metrics and market aggregates for the
Global Beverage Corporation Exchange.

It provides tools for:
  - Dividend yield and P/E ratio for a stock at a given price
  - Recording buy and sell trades in an in-memory ledger
  - Volume weighted stock price over the last 15 minutes
  - The GBCE all share index (geometric mean of all trade prices)
  - Journaling recorded trades to CSV or SQLite`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON), defaults to the built-in catalog")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

// loadConfig reads --config or falls back to the defaults.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// newExchange wires an exchange from the config. The caller closes both
// the exchange and the logger.
func newExchange(cfg *config.Config) (*exchange.Exchange, *zap.Logger, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, nil, fmt.Errorf("build catalog: %w", err)
	}
	window, err := cfg.WindowDuration()
	if err != nil {
		return nil, nil, fmt.Errorf("window: %w", err)
	}
	j, err := cfg.OpenJournal()
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}

	log.Debug("exchange ready",
		zap.Strings("symbols", catalog.Symbols()),
		zap.Duration("window", window),
		zap.String("journal", cfg.Journal.Type),
	)

	ex := exchange.New(catalog, market.NewLedger(),
		exchange.WithJournal(j),
		exchange.WithLogger(log),
		exchange.WithWindow(window),
	)
	return ex, log, nil
}
