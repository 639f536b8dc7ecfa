package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/theirongolddev/pennywise/internal/config"
	"github.com/theirongolddev/pennywise/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the form-bound values for the first-run setup wizard.
type setupValues struct {
	ledgerDir string
	monthly   string
	nearPct   string
	theme     string
}

func newSetupValues(ledgerDir string, cfg config.Config) setupValues {
	return setupValues{
		ledgerDir: ledgerDir,
		monthly:   strconv.FormatFloat(cfg.Goals.MonthlyContribution, 'f', -1, 64),
		nearPct:   strconv.FormatFloat(cfg.Budget.NearLimitRatio*100, 'f', -1, 64),
		theme:     cfg.Appearance.Theme,
	}
}

// newSetupForm builds the huh form for first-run setup.
func newSetupForm(fileCount int, vals *setupValues) *huh.Form {
	welcome := "No ledger files yet. Point pennywise at the directory where you keep them."
	if fileCount > 0 {
		welcome = fmt.Sprintf("Found %d ledger files. Let's set up a few things.", fileCount)
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to pennywise!").
				Description(welcome),
			huh.NewInput().
				Title("Ledger directory").
				Value(&vals.ledgerDir).
				Validate(notBlank),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Assumed monthly savings contribution").
				Description("Used for goals without their own monthly_contribution.").
				Value(&vals.monthly).
				Validate(positiveNumber),
			huh.NewInput().
				Title("Warn when a category reaches (% of limit)").
				Value(&vals.nearPct).
				Validate(nearLimitPercent),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	)
}

// saveSetupConfig persists the wizard answers and applies them to the
// running app. It reports whether the ledger directory changed.
func (a *App) saveSetupConfig() bool {
	cfg := loadConfigOrDefault()

	dir := strings.TrimSpace(a.setupVals.ledgerDir)
	dirChanged := dir != "" && dir != a.ledgerDir
	if dir != "" {
		cfg.General.LedgerDir = dir
		a.ledgerDir = dir
	}
	if v, err := strconv.ParseFloat(a.setupVals.monthly, 64); err == nil && v > 0 {
		cfg.Goals.MonthlyContribution = v
	}
	if v, err := strconv.ParseFloat(a.setupVals.nearPct, 64); err == nil && v > 0 {
		cfg.Budget.NearLimitRatio = v / 100
	}
	cfg.Appearance.Theme = theme.ByName(a.setupVals.theme).Name
	theme.SetActive(cfg.Appearance.Theme)

	a.applyConfig(cfg)
	if err := config.Save(cfg); err != nil {
		slog.Debug("saving setup config", "err", err)
	}
	return dirChanged
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func positiveNumber(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return errors.New("enter a positive number")
	}
	return nil
}

// nearLimitPercent accepts a percentage strictly between 0 and 100, the
// over-budget threshold.
func nearLimitPercent(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v >= 100 {
		return errors.New("enter a percentage between 0 and 100")
	}
	return nil
}
