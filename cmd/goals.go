package cmd

import (
	"fmt"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/model"

	"github.com/spf13/cobra"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Savings goal progress and projections",
	RunE:  runGoals,
}

func init() {
	rootCmd.AddCommand(goalsCmd)
}

func runGoals(_ *cobra.Command, _ []string) error {
	report, result, err := loadReport()
	if err != nil {
		return err
	}
	if len(report.Goals) == 0 {
		if result.TotalFiles == 0 {
			printNoLedger()
		} else {
			fmt.Println("\n  No savings goals in the ledger.")
		}
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAVINGS GOALS"))
	fmt.Println()

	rows := make([][]string, 0, len(report.Goals))
	for _, g := range report.Goals {
		pace := "-"
		if g.MonthsRemaining > 0 {
			pace = "~" + cli.FormatMoneyWhole(g.MonthlyPace) + "/mo"
		}
		rows = append(rows, []string{
			g.Goal.Name,
			fmt.Sprintf("%s of %s", cli.FormatMoneyWhole(g.Goal.Current), cli.FormatMoneyWhole(g.Goal.Target)),
			cli.RenderRatioBar(g.ProgressRatio.InexactFloat64(), 12, cli.TierColor(g.Tier)),
			cli.FormatPercentWhole(g.ProgressRatio),
			cli.FormatMonths(g.MonthsRemaining),
			pace,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Goal", "Saved", "", "Done", "ETA", "Pace"},
		Rows:    rows,
	}))

	for _, g := range report.Goals {
		switch {
		case g.Exceeded:
			fmt.Printf("  %s exceeded its target by %s\n", g.Goal.Name,
				cli.Colorize(cli.ColorGreen, cli.FormatMoneyWhole(g.Goal.Current.Sub(g.Goal.Target))))
		case g.Tier == model.TierAlmost && !g.Met():
			fmt.Printf("  %s: %s\n", g.Goal.Name, cli.Colorize(cli.ColorGreen, "Almost there!"))
		}
	}

	if notes := report.Ledger.NotesFor(model.NoteGoals); len(notes) > 0 {
		fmt.Println()
		fmt.Println("  " + cli.Header("Goal Tips"))
		for _, n := range notes {
			fmt.Println("  " + cli.Muted("• "+n))
		}
	}

	printFileWarnings(result)
	return nil
}
