// Command starchart renders deterministic retro-futuristic star charts
// from YAML scene files.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/starchart"
)

var rootCmd = &cobra.Command{
	Use:   "starchart",
	Short: "Deterministic star chart renderer",
	Long: `starchart renders synthwave star charts: perspective ring systems,
stochastic star fields, curved labels and a filmic post chain, all
deterministic per seed.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootVerbose {
			starchart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

var rootVerbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Log render stages to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
