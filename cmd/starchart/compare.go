package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/starchart"
)

var compareCmd = &cobra.Command{
	Use:   "compare <a.png> <b.png>",
	Short: "Compare two renders",
	Long: `Compare computes the mean absolute per-channel difference between two
PNGs and fails when it exceeds the tolerance. Used to check renders
against stored golden images.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

var compareTolerance float64

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().Float64Var(&compareTolerance, "tolerance", 0, "Maximum allowed mean absolute difference")
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := starchart.LoadPNG(args[0])
	if err != nil {
		return err
	}
	b, err := starchart.LoadPNG(args[1])
	if err != nil {
		return err
	}
	diff, err := starchart.MeanAbsDiff(a, b)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "mean absolute difference: %.6f\n", diff)
	if diff > compareTolerance {
		return fmt.Errorf("difference %.6f exceeds tolerance %.6f", diff, compareTolerance)
	}
	return nil
}
