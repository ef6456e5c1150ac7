package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"leveler/internal/leveling"
	"leveler/internal/report"
	"leveler/internal/session"
)

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Level bids against the scope and report gaps, adjusted totals and risk",
	Long:  "Imports the scope file, applies the YAML bid sheet and prints the leveling report. --json and --xlsx also write the report to files.",
	RunE:  runLevel,
}

var (
	levelScopeFile string
	levelBidsFile  string
	levelJSONOut   string
	levelXLSXOut   string
	levelQuiet     bool
	levelWatch     bool
)

func init() {
	levelCmd.Flags().StringVarP(&levelScopeFile, "scope", "s", "", "Scope file (default: the sheet's scope entry, then $LEVELER_SCOPE_FILE)")
	levelCmd.Flags().StringVarP(&levelBidsFile, "bids", "b", "", "YAML bid sheet (default $LEVELER_BIDS_FILE)")
	levelCmd.Flags().StringVar(&levelJSONOut, "json", "", "Write the snapshot as JSON to this file; a bare name goes under $LEVELER_OUTPUT_DIR")
	levelCmd.Flags().StringVar(&levelXLSXOut, "xlsx", "", "Write the workbook to this file; a bare name goes under $LEVELER_OUTPUT_DIR")
	levelCmd.Flags().BoolVarP(&levelQuiet, "quiet", "q", false, "Skip the terminal report")
	levelCmd.Flags().BoolVarP(&levelWatch, "watch", "w", false, "Re-level whenever the scope file or bid sheet changes")
	levelCmd.Flags().Lookup("json").NoOptDefVal = "-"
	levelCmd.Flags().Lookup("xlsx").NoOptDefVal = "-"
	rootCmd.AddCommand(levelCmd)
}

func runLevel(cmd *cobra.Command, _ []string) error {
	bidsPath := firstNonEmpty(levelBidsFile, cfg.BidsPath)
	if err := cfg.Require("--bids", bidsPath); err != nil {
		return err
	}
	if !levelWatch {
		return levelOnce(cmd, bidsPath)
	}
	return watchLevel(cmd, bidsPath)
}

// levelOnce runs one full import, level and report cycle. The bid sheet is reread every time.
func levelOnce(cmd *cobra.Command, bidsPath string) error {
	ctx := cmd.Context()
	log := klog.FromContext(ctx)

	sheet, err := session.LoadSheet(bidsPath)
	if err != nil {
		return fmt.Errorf("load bid sheet %s: %w", bidsPath, err)
	}
	scopePath := levelScopePath(sheet, bidsPath)
	if err := cfg.Require("--scope", scopePath); err != nil {
		return err
	}

	registry := session.NewRegistry()
	id := registry.Create()
	defer registry.Drop(id)
	log.V(2).Info("session created", "session", id)

	var snap leveling.Snapshot
	err = registry.Do(id, func(state *session.State) error {
		if _, err := state.Scope.ImportFile(ctx, scopePath); err != nil {
			return fmt.Errorf("import scope %s: %w", scopePath, err)
		}
		if err := sheet.Apply(state); err != nil {
			return fmt.Errorf("apply bid sheet %s: %w", bidsPath, err)
		}
		snap = leveling.NewEvaluator(state).Snapshot(ctx)
		return nil
	})
	if err != nil {
		return err
	}

	if !levelQuiet {
		if err := report.WriteText(cmd.OutOrStdout(), snap, cfg.ReportCurrency); err != nil {
			return err
		}
	}
	if path := outputPath(levelJSONOut, cfg.ReportJSONName); path != "" {
		if err := writeJSON(path, snap); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Info("wrote JSON report", "path", path)
	}
	if path := outputPath(levelXLSXOut, cfg.ReportXLSXName); path != "" {
		if err := report.SaveXLSX(path, snap, cfg.ReportCurrency); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Info("wrote XLSX report", "path", path)
	}
	return nil
}

func levelScopePath(sheet session.Sheet, bidsPath string) string {
	return firstNonEmpty(levelScopeFile, sheet.ScopePath(bidsPath), cfg.ScopePath)
}

// outputPath maps a flag value to a file; "-" means the configured default name.
func outputPath(flagValue, defaultName string) string {
	switch strings.TrimSpace(flagValue) {
	case "":
		return ""
	case "-":
		return cfg.OutputPath(defaultName)
	default:
		return cfg.OutputPath(flagValue)
	}
}

func writeJSON(path string, snap leveling.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteJSON(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
