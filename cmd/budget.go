package cmd

import (
	"fmt"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagBudgetSort string

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Per-category spending against limits",
	RunE:  runBudget,
}

func init() {
	budgetCmd.Flags().StringVar(&flagBudgetSort, "sort", "", "Sort by ratio, spent or name (default ledger order)")
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	report, result, err := loadReport()
	if err != nil {
		return err
	}
	if !report.HasBudget {
		if result.TotalFiles == 0 {
			printNoLedger()
		} else {
			fmt.Println("\n  No budget categories in the ledger.")
		}
		return nil
	}

	b := report.Budget
	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET  Monthly Breakdown"))
	fmt.Println()

	fmt.Printf("  %s of %s used  %s  %s\n\n",
		cli.FormatMoneyWhole(b.TotalSpent),
		cli.FormatMoneyWhole(b.TotalLimit),
		cli.RenderRatioBar(b.Utilization.InexactFloat64(), 24, cli.BandColor(b.Band)),
		cli.Colorize(cli.BandColor(b.Band), cli.FormatPercent(b.Utilization)),
	)

	usages := b.Categories
	if flagBudgetSort != "" {
		usages = pipeline.SortUsageBy(usages, flagBudgetSort)
	}

	rows := make([][]string, 0, len(usages))
	for _, u := range usages {
		rows = append(rows, []string{
			u.Category.Name,
			cli.FormatMoneyWhole(u.Category.Spent),
			cli.FormatMoneyWhole(u.Category.Limit),
			cli.RenderRatioBar(u.Ratio.InexactFloat64(), 12, cli.StatusColor(u.Status)),
			cli.FormatPercent(u.Ratio),
			cli.RenderStatus(u.Status),
		})
	}
	rows = append(rows, []string{"---"}, []string{
		"Total",
		cli.FormatMoneyWhole(b.TotalSpent),
		cli.FormatMoneyWhole(b.TotalLimit),
		"",
		cli.FormatPercent(b.Utilization),
		"",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Spent", "Limit", "", "Used", "Status"},
		Rows:    rows,
	}))

	for _, u := range usages {
		if u.Status == model.StatusOverBudget {
			fmt.Printf("  %s over budget by %s\n",
				u.Category.Name, cli.Colorize(cli.ColorRed, cli.FormatMoneyWhole(u.Overage)))
		}
	}

	if notes := report.Ledger.NotesFor(model.NoteBudget); len(notes) > 0 {
		fmt.Println()
		fmt.Println("  " + cli.Header("Recommendations"))
		for _, n := range notes {
			fmt.Println("  " + cli.Muted("• "+n))
		}
	}

	printFileWarnings(result)
	return nil
}
