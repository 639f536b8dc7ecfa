// Package cmd implements the pennywise CLI commands.
package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/theirongolddev/pennywise/internal/config"
	"github.com/theirongolddev/pennywise/internal/pipeline"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configSetLimitCmd = &cobra.Command{
	Use:   "set-limit <category> <amount>",
	Short: "Override a category's monthly limit",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSetLimit,
}

var configClearLimitCmd = &cobra.Command{
	Use:   "clear-limit <category>",
	Short: "Remove a category limit override",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigClearLimit,
}

func init() {
	configCmd.AddCommand(configSetLimitCmd)
	configCmd.AddCommand(configClearLimitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Ledger directory: %s\n", flagLedgerDir)
	fmt.Printf("    Currency symbol:  %s\n", cfg.General.CurrencySymbol)
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Close to limit at:  %.0f%%\n", cfg.Budget.NearLimitRatio*100)
	fmt.Printf("    Over budget above:  %.0f%%\n", cfg.Budget.OverBudgetRatio*100)
	fmt.Printf("    Overall elevated:   >%.0f%%\n", cfg.Budget.ElevatedOverallRatio*100)
	fmt.Printf("    Overall critical:   >%.0f%%\n", cfg.Budget.CriticalOverallRatio*100)
	if len(cfg.Budget.Overrides) > 0 {
		names := make([]string, 0, len(cfg.Budget.Overrides))
		for name := range cfg.Budget.Overrides {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("    Limit overrides:")
		for _, name := range names {
			if o := cfg.Budget.Overrides[name]; o.Limit != nil {
				fmt.Printf("      %-20s %s%.2f\n", name, cfg.General.CurrencySymbol, *o.Limit)
			}
		}
	}
	fmt.Println()

	fmt.Println("  [Goals]")
	fmt.Printf("    Monthly contribution: %s%.2f\n", cfg.General.CurrencySymbol, cfg.Goals.MonthlyContribution)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if _, err := pipeline.SettingsFromConfig(cfg); err != nil {
		fmt.Printf("  Warning: %v\n\n", err)
	}

	fmt.Println("  Run `pennywise setup` to reconfigure.")
	return nil
}

func runConfigSetLimit(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limit, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}
	if limit <= 0 {
		return &pipeline.ConfigError{Field: "limit", Reason: fmt.Sprintf("must be positive, got %s", args[1])}
	}

	cfg.Budget.SetLimit(args[0], &limit)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  %s limit set to %s%.2f\n", args[0], cfg.General.CurrencySymbol, limit)
	return nil
}

func runConfigClearLimit(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Budget.LookupLimit(args[0]); !ok {
		return fmt.Errorf("no limit override for %q", args[0])
	}
	cfg.Budget.SetLimit(args[0], nil)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  %s limit override removed\n", args[0])
	return nil
}
