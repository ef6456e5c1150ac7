package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"leveler/internal"
	"leveler/internal/bids"
	"leveler/internal/intake"
	"leveler/internal/session"
)

var intakeCmd = &cobra.Command{
	Use:   "intake",
	Short: "Read a subcontractor proposal and print it as a bid sheet entry",
	Long:  "Parses a .txt, .eml or .pdf proposal for company, bid total, inclusions and exclusions. With --trade and --slot the output is a bid sheet fragment ready to paste.",
	RunE:  runIntake,
}

var (
	intakeFile  string
	intakeTrade string
	intakeSlot  string
)

func init() {
	intakeCmd.Flags().StringVarP(&intakeFile, "file", "f", "", "Path to the proposal (required)")
	intakeCmd.Flags().StringVarP(&intakeTrade, "trade", "t", "", "Trade the proposal is for")
	intakeCmd.Flags().StringVarP(&intakeSlot, "slot", "s", "", "Bid slot A, B or C")
	_ = intakeCmd.MarkFlagRequired("file")
	intakeCmd.MarkFlagsRequiredTogether("trade", "slot")
	rootCmd.AddCommand(intakeCmd)
}

func runIntake(cmd *cobra.Command, _ []string) error {
	proposal, err := intake.NewReader(cfg).ReadFile(cmd.Context(), intakeFile)
	if err != nil {
		return fmt.Errorf("read proposal %s: %w", intakeFile, err)
	}
	if !proposal.Detection.IsProposal {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s does not look like a bid proposal (score %.2f)\n", intakeFile, proposal.Detection.Score)
	}
	if !proposal.HasTotal {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: no bid total found in %s; the slot stays inactive until one is set\n", intakeFile)
	}

	var out []byte
	if intakeTrade == "" {
		out, err = yaml.Marshal(proposal.SheetBid())
	} else {
		trade, ok := internal.ParseTrade(intakeTrade)
		if !ok {
			return fmt.Errorf("unknown trade %q", intakeTrade)
		}
		slot, ok := internal.ParseSlot(intakeSlot)
		if !ok {
			return fmt.Errorf("unknown slot %q", intakeSlot)
		}
		if _, err := bids.NewBook().Set(trade, slot, proposal.Input()); err != nil {
			return fmt.Errorf("proposal %s: %w", intakeFile, err)
		}
		out, err = session.SheetFromBid(trade, slot, proposal.SheetBid()).Marshal()
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
