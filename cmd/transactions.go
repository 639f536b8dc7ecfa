package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagTxLimit    int
	flagTxCategory string
)

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "Recent transactions, newest first",
	RunE:    runTransactions,
}

func init() {
	transactionsCmd.Flags().IntVarP(&flagTxLimit, "limit", "l", 10, "Number of transactions to show (0 for all)")
	transactionsCmd.Flags().StringVarP(&flagTxCategory, "category", "c", "", "Only show this category")
	rootCmd.AddCommand(transactionsCmd)
}

func runTransactions(_ *cobra.Command, _ []string) error {
	report, result, err := loadReport()
	if err != nil {
		return err
	}

	txs := pipeline.FilterTransactions(report.Ledger.Transactions, flagTxCategory)
	txs = pipeline.RecentTransactions(txs, flagTxLimit)
	if len(txs) == 0 {
		if result.TotalFiles == 0 {
			printNoLedger()
		} else {
			fmt.Println("\n  No transactions found.")
		}
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("RECENT TRANSACTIONS"))
	fmt.Println()

	now := time.Now()
	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		name := t.Name
		if t.Recurring {
			name += " " + cli.Muted("(recurring)")
		}
		amount := cli.Colorize(cli.ColorRed, cli.FormatSigned(t.Amount))
		if t.IsIncome() {
			amount = cli.Colorize(cli.ColorGreen, cli.FormatSigned(t.Amount))
		}
		status := ""
		if t.Status == model.TxPending {
			status = cli.Colorize(cli.ColorYellow, "pending")
		}
		rows = append(rows, []string{
			name,
			t.Category,
			cli.FormatAge(t.Date, now),
			amount,
			status,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Transaction", "Category", "When", "Amount", ""},
		Rows:    rows,
	}))

	printFileWarnings(result)
	return nil
}
