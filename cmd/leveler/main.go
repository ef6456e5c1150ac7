// Package main is the leveler CLI: import scope, read proposals and level bids.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"leveler/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "leveler",
	Short:         "Construction bid leveling",
	Long:          "leveler compares subcontractor bids against a scope-of-work budget, flags scope gaps, and prices them with plug costs.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		return err
	},
}

func init() {
	fs := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(fs)
	rootCmd.PersistentFlags().AddGoFlagSet(fs)
}

func main() {
	defer klog.Flush()
	ctx := klog.NewContext(context.Background(), klog.Background())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
