// Package config loads and saves the pennywise TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all pennywise configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Budget     BudgetConfig     `toml:"budget"`
	Goals      GoalsConfig      `toml:"goals"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	LedgerDir      string `toml:"ledger_dir,omitempty"`
	CurrencySymbol string `toml:"currency_symbol"`
}

// BudgetConfig holds the category status thresholds and limit overrides.
// Ratios are spent/limit: 0.85 means 85% of the limit.
type BudgetConfig struct {
	NearLimitRatio       float64                  `toml:"near_limit_ratio"`
	OverBudgetRatio      float64                  `toml:"over_budget_ratio"`
	ElevatedOverallRatio float64                  `toml:"elevated_overall_ratio"`
	CriticalOverallRatio float64                  `toml:"critical_overall_ratio"`
	Overrides            map[string]LimitOverride `toml:"overrides,omitempty"`
}

// LimitOverride replaces a category's ledger limit.
type LimitOverride struct {
	Limit *float64 `toml:"limit,omitempty"`
}

// GoalsConfig holds savings goal projection settings.
type GoalsConfig struct {
	MonthlyContribution float64 `toml:"monthly_contribution"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard refresh settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			CurrencySymbol: "$",
		},
		Budget: BudgetConfig{
			NearLimitRatio:       0.85,
			OverBudgetRatio:      1.0,
			ElevatedOverallRatio: 0.75,
			CriticalOverallRatio: 0.90,
		},
		Goals: GoalsConfig{
			MonthlyContribution: 150,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			RefreshIntervalSec: 30,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pennywise")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pennywise")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path. Keys absent from the file keep their
// default values.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// LedgerDir returns the ledger directory from env var or config, in that
// order, falling back to a "ledger" directory beside the config file.
func LedgerDir(cfg Config) string {
	if dir := os.Getenv("PENNYWISE_LEDGER_DIR"); dir != "" {
		return dir
	}
	if cfg.General.LedgerDir != "" {
		return cfg.General.LedgerDir
	}
	return filepath.Join(Dir(), "ledger")
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
