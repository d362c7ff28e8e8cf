package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/starchart"
	"github.com/gogpu/starchart/config"
)

var renderCmd = &cobra.Command{
	Use:   "render <scene.yaml>",
	Short: "Render a scene file to PNG",
	Long: `Render reads a YAML scene description and writes the finished frame
as a PNG. The render is fully deterministic: the same scene and seed
always produce byte-identical output.

Examples:
  # Render with the scene's own seed
  starchart render scene.yaml -o chart.png

  # Override the seed
  starchart render scene.yaml -o chart.png --seed 42

  # Also write the intermediate layers next to the output
  starchart render scene.yaml -o chart.png --layers`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var (
	renderOutput string
	renderSeed   int64
	renderLayers bool
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "chart.png", "Output PNG path")
	renderCmd.Flags().Int64Var(&renderSeed, "seed", -1, "Override the scene seed (-1 keeps the scene's)")
	renderCmd.Flags().BoolVar(&renderLayers, "layers", false, "Also write per-layer PNGs next to the output")
}

func runRender(cmd *cobra.Command, args []string) error {
	scene, err := config.Load(args[0])
	if err != nil {
		return err
	}

	var opts []starchart.Option
	if renderSeed >= 0 {
		opts = append(opts, starchart.WithSeed(renderSeed))
	}
	result, err := starchart.Render(scene, opts...)
	if err != nil {
		return err
	}
	if err := result.SavePNG(renderOutput); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (seed %d)\n", renderOutput, result.Seed)

	if !renderLayers {
		return nil
	}
	ext := filepath.Ext(renderOutput)
	base := strings.TrimSuffix(renderOutput, ext)
	for name, layer := range result.Layers {
		path := fmt.Sprintf("%s_%s%s", base, name, ext)
		clamped := layer.Clone()
		clamped.Clamp(0, 1)
		if err := (&starchart.RenderResult{Image: clamped}).SavePNG(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}
