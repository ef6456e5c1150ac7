package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"leveler/internal"
	"leveler/internal/scope"
	"leveler/internal/util"
)

var scopeCmd = &cobra.Command{
	Use:   "scope",
	Short: "Import a scope-of-work file and print its budget summary",
	Long:  "Reads a .csv, .xlsx or .html scope file with Trade, Item and Budget_Total columns and prints per-trade budgets.",
	RunE:  runScope,
}

var scopeFile string

func init() {
	scopeCmd.Flags().StringVarP(&scopeFile, "file", "f", "", "Path to the scope file (default $LEVELER_SCOPE_FILE)")
	rootCmd.AddCommand(scopeCmd)
}

func runScope(cmd *cobra.Command, _ []string) error {
	path := firstNonEmpty(scopeFile, cfg.ScopePath)
	if err := cfg.Require("--file", path); err != nil {
		return err
	}

	catalog := scope.NewCatalog()
	if _, err := catalog.ImportFile(cmd.Context(), path); err != nil {
		return fmt.Errorf("import scope %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	summary := catalog.Summary()
	fmt.Fprintf(out, "%d line items across %d trades, budget %s\n",
		summary.LineItems, summary.TradesCovered, util.FormatCurrency(cfg.ReportCurrency, summary.TotalBudget))
	for _, trade := range internal.Trades {
		items := catalog.ForTrade(trade)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(out, "  %-10s %3d items  %s\n", trade.Label(), len(items), util.FormatCurrency(cfg.ReportCurrency, catalog.TradeBudget(trade)))
	}
	return nil
}
