// Package press drives the SVG-to-PDF conversion pipeline: background
// detection, the three print variants, sidecar reports, and the batch loop.
package press

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/svgpress/internal/background"
	"github.com/pdiddy/svgpress/internal/rasterizer"
	"github.com/pdiddy/svgpress/pkg/types"
)

// Processor is the raster post-processing surface the pipeline needs.
// Satisfied by *magick.Processor.
type Processor interface {
	Name() string
	ExtentGrayPDF(src, dst string, w, h int, bg types.Background, dpi int) error
	GrayPDF(src, dst string, dpi int) error
	CenterCrop(src, dst string, w, h int) error
}

// ChangeDetector answers whether an input file is unchanged since its last
// fully successful conversion. Satisfied by *manifest.Store.
type ChangeDetector interface {
	Unchanged(ctx context.Context, path string, modTime time.Time) (bool, error)
}

// Press converts SVG inputs into the three print variants.
type Press struct {
	Rasterizer rasterizer.Rasterizer
	Processor  Processor
	Config     types.PressConfig

	// Changes enables skip-unchanged when set alongside
	// Config.SkipUnchanged.
	Changes ChangeDetector
}

// BatchResult holds the outcome of a batch conversion run. The variant
// counters sum across all files.
type BatchResult struct {
	Files   int
	Done    int
	Skipped int
	Failed  int
	Results []types.FileResult
}

// HasFailures reports whether any variant failed.
func (r BatchResult) HasFailures() bool { return r.Failed > 0 }

// PressFile converts a single SVG into its variants, printing per-variant
// status to w. Variant failures are logged with truncated diagnostics and
// recorded; they never abort the remaining variants.
func (p *Press) PressFile(svgPath string, w io.Writer) types.FileResult {
	stem := strings.TrimSuffix(filepath.Base(svgPath), filepath.Ext(svgPath))

	res := types.FileResult{
		Source:     svgPath,
		Rasterizer: p.Rasterizer.Name(),
		Processor:  p.Processor.Name(),
		CreatedAt:  time.Now().UTC(),
	}
	if fi, err := os.Stat(svgPath); err == nil {
		res.ModTime = fi.ModTime().UTC()
	}

	bg := p.Config.Background
	if bg == "" {
		bg = background.Detect(svgPath, p.Rasterizer, p.Config.SampleSize, w)
	}
	res.Background = bg
	fmt.Fprintf(w, "processing: %s (background: %s)\n", filepath.Base(svgPath), bg)

	for _, v := range p.variants() {
		out := filepath.Join(p.Config.OutputDir, v.OutputName(stem))
		vr := types.VariantResult{Variant: v, Output: out, Status: types.VariantDone}
		if err := p.generate(v, svgPath, out, bg); err != nil {
			fmt.Fprintf(w, "  failed:  %s (%v)\n", filepath.Base(out), err)
			vr.Status = types.VariantFailed
		} else {
			fmt.Fprintf(w, "  created: %s\n", filepath.Base(out))
		}
		res.Variants = append(res.Variants, vr)
	}

	if err := p.writeReport(stem, res); err != nil {
		fmt.Fprintf(w, "  warning: writing report for %s: %v\n", stem, err)
	}
	return res
}

// PressFiles converts the given SVG paths, printing per-file status and
// returning a summary. Individual failures do not abort the batch.
func (p *Press) PressFiles(ctx context.Context, files []string, w io.Writer) (BatchResult, error) {
	if err := os.MkdirAll(p.Config.OutputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory: %w", err)
	}

	var result BatchResult
	for _, f := range files {
		result.Files++

		if skip, err := p.unchanged(ctx, f); err != nil {
			fmt.Fprintf(w, "  warning: change check for %s: %v\n", filepath.Base(f), err)
		} else if skip {
			fmt.Fprintf(w, "skipped: %s (unchanged)\n", filepath.Base(f))
			result.Skipped += len(p.variants())
			result.Results = append(result.Results, p.skippedResult(f))
			continue
		}

		res := p.PressFile(f, w)
		for _, vr := range res.Variants {
			switch vr.Status {
			case types.VariantDone:
				result.Done++
			case types.VariantFailed:
				result.Failed++
			}
		}
		result.Results = append(result.Results, res)
	}

	fmt.Fprintf(w, "\nBatch summary: %d file(s), %d variant(s) created, %d skipped, %d failed\n",
		result.Files, result.Done, result.Skipped, result.Failed)
	return result, nil
}

// PressBatch enumerates the input directory and converts every SVG found.
func (p *Press) PressBatch(ctx context.Context, w io.Writer) (BatchResult, error) {
	files, err := ListInputs(p.Config.InputDir)
	if err != nil {
		return BatchResult{}, err
	}
	if len(files) == 0 {
		return BatchResult{}, fmt.Errorf("no SVG files found in %s", p.Config.InputDir)
	}

	fmt.Fprintf(w, "found %d SVG file(s), target %dx%d px at %d DPI\n",
		len(files), p.Config.TargetWidth, p.Config.TargetHeight, p.Config.DPI)
	return p.PressFiles(ctx, files, w)
}

// ListInputs returns the SVG files in dir in sorted order, ignoring Windows
// Zone.Identifier artifacts.
func ListInputs(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.svg"))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.HasSuffix(m, ":Zone.Identifier") {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

func (p *Press) variants() []types.Variant {
	if len(p.Config.Variants) > 0 {
		return p.Config.Variants
	}
	return types.AllVariants()
}

func (p *Press) unchanged(ctx context.Context, svgPath string) (bool, error) {
	if !p.Config.SkipUnchanged || p.Changes == nil {
		return false, nil
	}
	fi, err := os.Stat(svgPath)
	if err != nil {
		return false, nil
	}
	return p.Changes.Unchanged(ctx, svgPath, fi.ModTime().UTC())
}

func (p *Press) skippedResult(svgPath string) types.FileResult {
	stem := strings.TrimSuffix(filepath.Base(svgPath), filepath.Ext(svgPath))
	res := types.FileResult{
		Source:     svgPath,
		Rasterizer: p.Rasterizer.Name(),
		Processor:  p.Processor.Name(),
		CreatedAt:  time.Now().UTC(),
	}
	for _, v := range p.variants() {
		res.Variants = append(res.Variants, types.VariantResult{
			Variant: v,
			Output:  filepath.Join(p.Config.OutputDir, v.OutputName(stem)),
			Status:  types.VariantSkipped,
		})
	}
	return res
}

// writeReport writes the YAML sidecar report next to the PDFs.
func (p *Press) writeReport(stem string, res types.FileResult) error {
	data, err := yaml.Marshal(&res)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(filepath.Join(p.Config.OutputDir, stem+".yaml"), data, 0o644)
}
