package cmd

import (
	"fmt"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/model"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Account, budget and goal overview",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	report, result, err := loadReport()
	if err != nil {
		return err
	}
	if result.TotalFiles == 0 {
		printNoLedger()
		return nil
	}

	ov := report.Overview

	fmt.Println()
	fmt.Println(cli.RenderTitle("PENNYWISE  Financial Overview"))
	fmt.Println()

	var rows [][]string
	if ov.HasAccount {
		rows = append(rows,
			[]string{"Balance", cli.FormatMoney(ov.Account.Balance)},
			[]string{"Monthly Income", cli.Colorize(cli.ColorGreen, cli.FormatMoney(ov.Account.MonthlyIncome))},
			[]string{"Monthly Expenses", cli.Colorize(cli.ColorRed, cli.FormatMoney(ov.Account.MonthlyExpenses))},
			[]string{"Net", cli.FormatSigned(ov.Net)},
			[]string{"---"},
		)
	}
	rows = append(rows, []string{"Total Savings", fmt.Sprintf("%s across %d goals", cli.FormatMoney(ov.TotalSavings), ov.GoalCount)})

	if report.HasBudget {
		b := report.Budget
		rows = append(rows,
			[]string{"---"},
			[]string{"Budget Used", fmt.Sprintf("%s of %s", cli.FormatMoneyWhole(b.TotalSpent), cli.FormatMoneyWhole(b.TotalLimit))},
			[]string{"Utilization", cli.Colorize(cli.BandColor(b.Band), cli.FormatPercent(b.Utilization))},
			[]string{"Categories", fmt.Sprintf("%d on track, %d close, %d over", b.OnTrack, b.NearLimit, b.OverBudget)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if report.HasBudget && report.Budget.Band != model.BandNormal {
		fmt.Println()
		fmt.Println("  " + cli.Colorize(cli.BandColor(report.Budget.Band), "Budget Alert"))
		fmt.Printf("  You've used %s of your monthly budget.\n", cli.FormatPercentWhole(report.Budget.Utilization))
	}
	for _, note := range report.Ledger.NotesFor(model.NoteBudget) {
		fmt.Println("  " + cli.Muted("• "+note))
	}

	printFileWarnings(result)
	return nil
}
