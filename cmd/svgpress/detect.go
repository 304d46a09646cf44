// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/svgpress/internal/background"
	"github.com/pdiddy/svgpress/internal/press"
	"github.com/pdiddy/svgpress/pkg/types"
)

var detectCmd = &cobra.Command{
	Use:   "detect [files...]",
	Short: "Detect the page background color of SVG files",
	Long: `Detect classifies each SVG's intended page background as white or black:
explicit XML attributes first (viewport-fill, style background, a
full-canvas rect with an explicit fill), then corner sampling of a small
transparency-preserving render. Unclassifiable inputs default to white.`,
	RunE: runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	r, err := selectRasterizer(toolsConfigFromFlags(cmd))
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		inputDir, _ := cmd.Flags().GetString("input-dir")
		inputDir = fallback(inputDir, fallback(viper.GetString("input_dir"), "input"))
		files, err = press.ListInputs(inputDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no SVG files found in %s", inputDir)
		}
	}

	type detection struct {
		Source     string           `json:"source"`
		Background types.Background `json:"background"`
	}

	sampleSize := viper.GetInt("sample_size")
	detections := make([]detection, 0, len(files))
	for _, f := range files {
		bg := background.Detect(f, r, sampleSize, os.Stderr)
		detections = append(detections, detection{Source: f, Background: bg})
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detections)
	}
	for _, d := range detections {
		fmt.Printf("%s: %s\n", d.Source, d.Background)
	}
	return nil
}

func init() {
	detectCmd.Flags().String("input-dir", "", `directory scanned for *.svg inputs (default "input")`)
	detectCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(detectCmd)
}
