package tui

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/config"
	"github.com/theirongolddev/pennywise/internal/pipeline"
	"github.com/theirongolddev/pennywise/internal/tui/components"
	"github.com/theirongolddev/pennywise/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldNearLimit
	settingsFieldOverBudget
	settingsFieldMonthly
	settingsFieldCurrency
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldLimitOverride
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 40
	return ti
}

func formatRatioPct(r float64) string {
	return strconv.FormatFloat(r*100, 'f', -1, 64)
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldNearLimit:
		ti.Placeholder = "85 (% of limit)"
		ti.SetValue(formatRatioPct(cfg.Budget.NearLimitRatio))
	case settingsFieldOverBudget:
		ti.Placeholder = "100 (% of limit)"
		ti.SetValue(formatRatioPct(cfg.Budget.OverBudgetRatio))
	case settingsFieldMonthly:
		ti.Placeholder = "150"
		ti.SetValue(strconv.FormatFloat(cfg.Goals.MonthlyContribution, 'f', -1, 64))
	case settingsFieldCurrency:
		ti.Placeholder = "$"
		ti.SetValue(cfg.General.CurrencySymbol)
	case settingsFieldAutoRefresh:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoRefresh))
	case settingsFieldRefreshInterval:
		ti.Placeholder = "30 (seconds, minimum 10)"
		ti.SetValue(strconv.Itoa(int(a.refreshInterval.Seconds())))
	case settingsFieldLimitOverride:
		ti.Placeholder = "Category = amount (empty amount clears)"
		if usages := a.sortedUsages(); a.budget.cursor < len(usages) {
			ti.SetValue(usages[a.budget.cursor].Category.Name + " = ")
		}
	}

	ti.Focus()
	a.settings.input = ti
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited field to a fresh copy of the config,
// validates the result and only then persists it.
func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	if err := applySettingsField(&cfg, a.settings.cursor, val); err != nil {
		a.settings.saveErr = err
		return
	}
	if _, err := pipeline.SettingsFromConfig(cfg); err != nil {
		a.settings.saveErr = err
		return
	}
	if err := config.Save(cfg); err != nil {
		a.settings.saveErr = err
		return
	}
	a.settings.saveErr = nil

	theme.SetActive(cfg.Appearance.Theme)
	cli.SetCurrencySymbol(cfg.General.CurrencySymbol)
	a.autoRefresh = cfg.TUI.AutoRefresh
	if iv := time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second; iv >= minRefreshInterval {
		a.refreshInterval = iv
	}
	a.applyConfig(cfg)
	a.recompute()
}

// applySettingsField parses val into the config field at index field.
func applySettingsField(cfg *config.Config, field int, val string) error {
	switch field {
	case settingsFieldTheme:
		for _, name := range theme.Names() {
			if name == val {
				cfg.Appearance.Theme = val
				return nil
			}
		}
		return fmt.Errorf("unknown theme %q", val)
	case settingsFieldNearLimit, settingsFieldOverBudget:
		pct, err := strconv.ParseFloat(strings.TrimSuffix(val, "%"), 64)
		if err != nil || pct <= 0 {
			return errors.New("enter a positive percentage")
		}
		if field == settingsFieldNearLimit {
			cfg.Budget.NearLimitRatio = pct / 100
		} else {
			cfg.Budget.OverBudgetRatio = pct / 100
		}
	case settingsFieldMonthly:
		v, err := strconv.ParseFloat(val, 64)
		if err != nil || v <= 0 {
			return errors.New("enter a positive amount")
		}
		cfg.Goals.MonthlyContribution = v
	case settingsFieldCurrency:
		cfg.General.CurrencySymbol = val
	case settingsFieldAutoRefresh:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return errors.New("enter true or false")
		}
		cfg.TUI.AutoRefresh = b
	case settingsFieldRefreshInterval:
		n, err := strconv.Atoi(val)
		if err != nil || n < int(minRefreshInterval/time.Second) {
			return errors.New("enter a whole number of seconds, at least 10")
		}
		cfg.TUI.RefreshIntervalSec = n
	case settingsFieldLimitOverride:
		name, amount, ok := strings.Cut(val, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return errors.New("use the form: Category = amount")
		}
		amount = strings.TrimSpace(amount)
		if amount == "" {
			cfg.Budget.SetLimit(name, nil)
			return nil
		}
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil || v <= 0 {
			return errors.New("limit must be a positive amount")
		}
		cfg.Budget.SetLimit(name, &v)
	}
	return nil
}

func overridesSummary(b config.BudgetConfig) string {
	names := make([]string, 0, len(b.Overrides))
	for name, o := range b.Overrides {
		if o.Limit != nil {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "(none)"
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%s", name, strconv.FormatFloat(*b.Overrides[name].Limit, 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	fields := []struct{ label, value string }{
		{"Theme", cfg.Appearance.Theme},
		{"Close to limit at", formatRatioPct(cfg.Budget.NearLimitRatio) + "%"},
		{"Over budget above", formatRatioPct(cfg.Budget.OverBudgetRatio) + "%"},
		{"Monthly savings", cli.FormatMoney(a.knobs.DefaultMonthly)},
		{"Currency symbol", cfg.General.CurrencySymbol},
		{"Auto refresh", strconv.FormatBool(a.autoRefresh)},
		{"Refresh interval", fmt.Sprintf("%ds", int(a.refreshInterval.Seconds()))},
		{"Limit overrides", overridesSummary(cfg.Budget)},
	}

	var form strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-19s ", f.label)))
			form.WriteString(a.settings.input.View())
			form.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-19s ", f.label+":"))
			value := selectedStyle.Render(truncStr(f.value, innerW-23))
			form.WriteString(marker + label + value)
			if pad := innerW - lipgloss.Width(marker+label+value); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			form.WriteString(labelStyle.Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-19s ", f.label+":")))
			form.WriteString(valueStyle.Render(truncStr(f.value, innerW-23)))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		form.WriteString("\n")
		form.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved!"))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	files, parseErrors, skipped := 0, 0, 0
	if a.result != nil {
		files = a.result.TotalFiles
		parseErrors = a.result.ParseErrors
		skipped = len(a.result.FileErrors)
	}

	var info strings.Builder
	info.WriteString(labelStyle.Render("Ledger directory: ") + valueStyle.Render(a.ledgerDir) + "\n")
	info.WriteString(labelStyle.Render("Ledger files:     ") + valueStyle.Render(cli.FormatNumber(int64(files))) + "\n")
	info.WriteString(labelStyle.Render("Skipped entries:  ") + valueStyle.Render(fmt.Sprintf("%d (%d files unreadable)", parseErrors, skipped)) + "\n")
	info.WriteString(labelStyle.Render("Load time:        ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	info.WriteString(labelStyle.Render("Config file:      ") + valueStyle.Render(config.Path()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", info.String(), cw))
	if err := a.err(); err != nil {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Problem", lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(err.Error()), cw))
	}
	return b.String()
}
