package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/theirongolddev/pennywise/internal/config"
	"github.com/theirongolddev/pennywise/internal/source"
	"github.com/theirongolddev/pennywise/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// starterLedger is written when the ledger directory is empty. Every entry
// is commented out so nothing is counted until the user fills it in.
const starterLedger = `# pennywise ledger. Amounts may be numbers or quoted strings.
#
# [account]
# balance = 0
# monthly_income = 0
# monthly_expenses = 0
#
# [[categories]]
# name = "Groceries"
# spent = 0
# limit = 300
#
# [[goals]]
# name = "Emergency Fund"
# current = 0
# target = 1000
# monthly_contribution = 100
#
# [[transactions]]
# name = "Coffee"
# category = "Groceries"
# amount = -3.50
# date = 2024-01-15
#
# [[monthly]]
# month = "2024-01"
# income = 0
# spending = 0
#
# [[notes]]
# section = "budget"   # budget, goals or spending
# text = "Pack lunch on weekdays."
`

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ledgerDir := flagLedgerDir
	monthly := strconv.FormatFloat(cfg.Goals.MonthlyContribution, 'f', -1, 64)
	nearPct := strconv.FormatFloat(cfg.Budget.NearLimitRatio*100, 'f', -1, 64)
	themeName := cfg.Appearance.Theme

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to pennywise!").
				Description("Budgets and goals live in TOML files in a ledger directory."),
			huh.NewInput().
				Title("Ledger directory").
				Value(&ledgerDir),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Assumed monthly savings contribution").
				Description("Used for goals without their own monthly_contribution.").
				Value(&monthly).
				Validate(positiveNumber),
			huh.NewInput().
				Title("Warn when a category reaches (% of limit)").
				Value(&nearPct).
				Validate(positiveNumber),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled.")
			return nil
		}
		return err
	}

	cfg.General.LedgerDir = ledgerDir
	cfg.Goals.MonthlyContribution, _ = strconv.ParseFloat(monthly, 64)
	pct, _ := strconv.ParseFloat(nearPct, 64)
	cfg.Budget.NearLimitRatio = pct / 100
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())

	files, err := source.ScanDir(ledgerDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		path, err := writeStarterLedger(ledgerDir)
		if err != nil {
			return err
		}
		fmt.Printf("  Created %s\n", path)
	} else {
		fmt.Printf("  Found %d ledger files in %s\n", len(files), ledgerDir)
	}
	fmt.Println("  Run `pennywise setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func positiveNumber(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return errors.New("enter a positive number")
	}
	return nil
}

func writeStarterLedger(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating ledger dir: %w", err)
	}
	path := filepath.Join(dir, "ledger.toml")
	if err := os.WriteFile(path, []byte(starterLedger), 0o600); err != nil {
		return "", fmt.Errorf("writing starter ledger: %w", err)
	}
	return path, nil
}
