package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/config"
	"github.com/theirongolddev/pennywise/internal/pipeline"
	"github.com/theirongolddev/pennywise/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagLedgerDir string
	flagNoCache   bool
	flagQuiet     bool
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:               "pennywise",
	Short:             "Student budget and savings dashboard",
	Long:              "Track budget categories, savings goals and spending from plain TOML ledger files.",
	RunE:              runSummary,
	PersistentPreRunE: setupLogging,
	SilenceUsage:      true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, pipeline.ErrInvalidConfiguration) {
			fmt.Fprintf(os.Stderr, "  Fix the ledger files in %s or the config at %s\n", flagLedgerDir, config.Path())
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLedgerDir, "ledger-dir", "d", "", "Ledger directory (default from config or $PENNYWISE_LEDGER_DIR)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse every ledger file")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "console", "Log format (console, json)")
}

func setupLogging(_ *cobra.Command, _ []string) error {
	var level slog.Level
	switch strings.ToLower(flagLogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q", flagLogLevel)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch flagLogFormat {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "console", "":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q", flagLogFormat)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig reads the config file and resolves the ledger directory.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagLedgerDir == "" {
		flagLedgerDir = config.LedgerDir(cfg)
	}
	cli.SetCurrencySymbol(cfg.General.CurrencySymbol)
	return cfg, nil
}

// loadData is the shared data loading path used by all commands.
// Uses SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Reading ledgers...\n")
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%10 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 20))
		}
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			slog.Warn("cache unavailable, doing full parse", "err", err)
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(flagLedgerDir, cache, progressFn)
			switch {
			case err == nil:
				if !flagQuiet && cr.TotalFiles > 0 {
					fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed ledger files    \n", cr.CacheHits, cr.Reparsed)
				}
				return &cr.LoadResult, nil
			case errors.Is(err, pipeline.ErrInvalidConfiguration):
				return nil, err
			default:
				slog.Warn("cache error, falling back to full parse", "err", err)
			}
		}
	}

	result, err := pipeline.Load(flagLedgerDir, progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %d ledger files    \n", result.ParsedFiles)
	}
	return result, nil
}

// loadReport loads config and ledgers and computes the report.
func loadReport() (pipeline.Report, *pipeline.LoadResult, error) {
	cfg, err := loadConfig()
	if err != nil {
		return pipeline.Report{}, nil, err
	}
	settings, err := pipeline.SettingsFromConfig(cfg)
	if err != nil {
		return pipeline.Report{}, nil, fmt.Errorf("config %s: %w", config.Path(), err)
	}

	result, err := loadData()
	if err != nil {
		return pipeline.Report{}, nil, err
	}

	report, err := pipeline.BuildReport(result.Ledger, settings)
	if err != nil {
		return pipeline.Report{}, result, err
	}
	return report, result, nil
}

// printFileWarnings reports ledger files that were skipped.
func printFileWarnings(result *pipeline.LoadResult) {
	for _, fe := range result.FileErrors {
		fmt.Fprintf(os.Stderr, "  skipped %s: %v\n", fe.Path, fe.Err)
	}
	if result.ParseErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d ledger entries could not be read\n", result.ParseErrors)
	}
}

func printNoLedger() {
	fmt.Println("\n  No ledger files found in " + flagLedgerDir)
	fmt.Println("  Run `pennywise setup` to create one.")
}
