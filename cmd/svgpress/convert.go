// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/svgpress/internal/manifest"
	"github.com/pdiddy/svgpress/internal/press"
	"github.com/pdiddy/svgpress/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert SVG files to print-ready grayscale PDFs",
	Long: `Convert renders each SVG at 8350x11811 px (707x1000mm at 300 DPI) and
writes three grayscale PDF variants per input: centered (padded onto the
detected background), stretched (exact fit, aspect ratio ignored), and
cropped (center crop at full height). A YAML sidecar report is written
next to the PDFs.

With no arguments every *.svg in the input directory is converted;
explicit file arguments restrict the run to those inputs. Re-running
overwrites the same output filenames.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := pressConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	r, proc, err := selectTools(cmd)
	if err != nil {
		return err
	}

	p := &press.Press{Rasterizer: r, Processor: proc, Config: cfg}

	ctx := cmd.Context()
	var store *manifest.Store
	var runID int64
	if cfg.ManifestPath != "" {
		store, err = manifest.Open(cfg.ManifestPath)
		if err != nil {
			return err
		}
		defer store.Close()
		p.Changes = store
		if runID, err = store.BeginRun(ctx, cfg); err != nil {
			return err
		}
	}

	var result press.BatchResult
	if len(args) > 0 {
		result, err = p.PressFiles(ctx, args, os.Stdout)
	} else {
		result, err = p.PressBatch(ctx, os.Stdout)
	}
	if err != nil {
		return err
	}

	if store != nil {
		recordRun(ctx, store, runID, result)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d variant(s) failed", result.Failed)
	}
	return nil
}

// recordRun persists the batch outcome; manifest errors are reported but do
// not fail a run whose PDFs were written.
func recordRun(ctx context.Context, store *manifest.Store, runID int64, result press.BatchResult) {
	for _, fr := range result.Results {
		if fr.AllSkipped() {
			continue
		}
		if err := store.RecordFile(ctx, runID, fr); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording %s: %v\n", fr.Source, err)
		}
	}
	if err := store.FinishRun(ctx, runID, result.Files, result.Done, result.Failed); err != nil {
		fmt.Fprintf(os.Stderr, "warning: finishing run: %v\n", err)
	}
}

func pressConfigFromFlags(cmd *cobra.Command) (types.PressConfig, error) {
	flags := cmd.Flags()
	inputDir, _ := flags.GetString("input-dir")
	outputDir, _ := flags.GetString("output-dir")
	bg, _ := flags.GetString("background")
	variantNames, _ := flags.GetStringSlice("variants")
	skip, _ := flags.GetBool("skip-unchanged")
	manifestPath, _ := flags.GetString("manifest")

	cfg := types.PressConfig{
		InputDir:      fallback(inputDir, viper.GetString("input_dir")),
		OutputDir:     fallback(outputDir, viper.GetString("output_dir")),
		TargetWidth:   viper.GetInt("target_width"),
		TargetHeight:  viper.GetInt("target_height"),
		DPI:           viper.GetInt("dpi"),
		SampleSize:    viper.GetInt("sample_size"),
		SkipUnchanged: skip,
		ManifestPath:  fallback(manifestPath, viper.GetString("manifest_path")),
	}

	if bg != "" {
		if bg != string(types.BackgroundWhite) && bg != string(types.BackgroundBlack) {
			return cfg, fmt.Errorf("invalid background %q: use white or black", bg)
		}
		cfg.Background = types.Background(bg)
	}
	for _, name := range variantNames {
		v, ok := types.ParseVariant(name)
		if !ok {
			return cfg, fmt.Errorf("unknown variant %q: use centered, stretched, or cropped", name)
		}
		cfg.Variants = append(cfg.Variants, v)
	}

	cfg.Normalize()
	return cfg, nil
}

func fallback(v, alt string) string {
	if v != "" {
		return v
	}
	return alt
}

func init() {
	convertCmd.Flags().String("input-dir", "", `directory scanned for *.svg inputs (default "input")`)
	convertCmd.Flags().String("output-dir", "", `directory for PDF variants and reports (default "output")`)
	convertCmd.Flags().String("background", "", "override background detection: white or black")
	convertCmd.Flags().StringSlice("variants", nil, "restrict to a subset: centered, stretched, cropped")
	convertCmd.Flags().Bool("skip-unchanged", false, "skip inputs unchanged since their last successful run (requires --manifest)")
	convertCmd.Flags().String("manifest", "", "SQLite run-history database path")

	rootCmd.AddCommand(convertCmd)
}
