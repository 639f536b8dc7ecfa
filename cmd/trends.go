package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/pipeline"

	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Monthly income and spending table",
	RunE:  runTrends,
}

func init() {
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(_ *cobra.Command, _ []string) error {
	report, result, err := loadReport()
	if err != nil {
		return err
	}

	months := pipeline.SortedMonths(report.Ledger.Monthly)
	if len(months) == 0 && !report.HasBudget {
		if result.TotalFiles == 0 {
			printNoLedger()
		} else {
			fmt.Println("\n  No monthly totals in the ledger.")
		}
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDING TRENDS"))
	fmt.Println()

	if len(months) > 0 {
		now := time.Now()
		rows := make([][]string, 0, len(months))
		spending := make([]float64, 0, len(months))
		for _, m := range months {
			rows = append(rows, []string{
				cli.FormatMonth(m.Month, now),
				cli.Colorize(cli.ColorGreen, cli.FormatMoneyWhole(m.Income)),
				cli.Colorize(cli.ColorRed, cli.FormatMoneyWhole(m.Spending)),
				cli.FormatMoneyWhole(m.Savings()),
			})
			spending = append(spending, m.Spending.InexactFloat64())
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Monthly",
			Headers: []string{"Month", "Income", "Spending", "Saved"},
			Rows:    rows,
		}))
		fmt.Printf("  Spending  %s\n\n", cli.RenderSparkline(spending))
	}

	if report.HasBudget {
		fmt.Println("  " + cli.Header("Spent vs Budget"))
		var maxLimit float64
		for _, u := range report.Budget.Categories {
			if v := u.Category.Limit.InexactFloat64(); v > maxLimit {
				maxLimit = v
			}
			if v := u.Category.Spent.InexactFloat64(); v > maxLimit {
				maxLimit = v
			}
		}
		for _, u := range report.Budget.Categories {
			label := fmt.Sprintf("%-18s", truncate(u.Category.Name, 18))
			fmt.Println(cli.RenderHorizontalBar(label, u.Category.Spent.InexactFloat64(), maxLimit, 30, cli.StatusColor(u.Status)) +
				" " + cli.Muted(fmt.Sprintf("%s / %s", cli.FormatMoneyWhole(u.Category.Spent), cli.FormatMoneyWhole(u.Category.Limit))))
		}
	}

	if notes := report.Ledger.NotesFor(model.NoteSpending); len(notes) > 0 {
		fmt.Println()
		fmt.Println("  " + cli.Header("Spending Insights"))
		for _, n := range notes {
			fmt.Println("  " + cli.Muted("• "+n))
		}
	}

	printFileWarnings(result)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
