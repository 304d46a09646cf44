// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package press

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/svgpress/internal/rasterizer"
	"github.com/pdiddy/svgpress/pkg/types"
)

// stubRasterizer records render options and writes placeholder PNGs.
type stubRasterizer struct {
	renders []rasterizer.RenderOptions
	err     error
}

func (s *stubRasterizer) Name() string    { return "inkscape" }
func (s *stubRasterizer) Available() bool { return true }

func (s *stubRasterizer) Render(svgPath, pngPath string, opts rasterizer.RenderOptions) error {
	s.renders = append(s.renders, opts)
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(pngPath, []byte("png"), 0o644)
}

// stubProcessor writes placeholder outputs, failing selected operations.
type stubProcessor struct {
	failExtent bool
	failCrop   bool
	failGray   bool
}

func (s *stubProcessor) Name() string { return "magick" }

func (s *stubProcessor) ExtentGrayPDF(src, dst string, w, h int, bg types.Background, dpi int) error {
	if s.failExtent {
		return errors.New("extent failed")
	}
	return os.WriteFile(dst, []byte("pdf"), 0o644)
}

func (s *stubProcessor) GrayPDF(src, dst string, dpi int) error {
	if s.failGray {
		return errors.New("gray failed")
	}
	return os.WriteFile(dst, []byte("pdf"), 0o644)
}

func (s *stubProcessor) CenterCrop(src, dst string, w, h int) error {
	if s.failCrop {
		return errors.New("crop failed")
	}
	return os.WriteFile(dst, []byte("png"), 0o644)
}

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><circle r="5"/></svg>`
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// newPress builds a Press with a fixed background so tests do not exercise
// detection.
func newPress(t *testing.T, r rasterizer.Rasterizer, proc Processor) *Press {
	t.Helper()
	cfg := types.PressConfig{
		InputDir:   t.TempDir(),
		OutputDir:  t.TempDir(),
		Background: types.BackgroundWhite,
	}
	cfg.Normalize()
	return &Press{Rasterizer: r, Processor: proc, Config: cfg}
}

func TestPressFile(t *testing.T) {
	p := newPress(t, &stubRasterizer{}, &stubProcessor{})
	svg := writeInput(t, p.Config.InputDir, "poster.svg")

	var log bytes.Buffer
	res := p.PressFile(svg, &log)

	for _, v := range types.AllVariants() {
		if res.Status(v) != types.VariantDone {
			t.Errorf("variant %s = %q, want done", v, res.Status(v))
		}
		out := filepath.Join(p.Config.OutputDir, v.OutputName("poster"))
		if _, err := os.Stat(out); err != nil {
			t.Errorf("expected output at %s", out)
		}
	}
	if res.Background != types.BackgroundWhite {
		t.Errorf("background = %q, want white", res.Background)
	}
	if !strings.Contains(log.String(), "created: poster-centered.pdf") {
		t.Errorf("log should report created variants, got: %s", log.String())
	}
}

func TestPressFile_SidecarReport(t *testing.T) {
	p := newPress(t, &stubRasterizer{}, &stubProcessor{})
	svg := writeInput(t, p.Config.InputDir, "poster.svg")

	var log bytes.Buffer
	p.PressFile(svg, &log)

	data, err := os.ReadFile(filepath.Join(p.Config.OutputDir, "poster.yaml"))
	if err != nil {
		t.Fatalf("reading sidecar report: %v", err)
	}

	var res types.FileResult
	if err := yaml.Unmarshal(data, &res); err != nil {
		t.Fatalf("parsing sidecar report: %v", err)
	}
	if res.Source != svg {
		t.Errorf("report source = %q, want %q", res.Source, svg)
	}
	if res.Rasterizer != "inkscape" || res.Processor != "magick" {
		t.Errorf("report should name the tools, got %q/%q", res.Rasterizer, res.Processor)
	}
	if len(res.Variants) != 3 {
		t.Fatalf("report should list 3 variants, got %d", len(res.Variants))
	}
}

func TestPressFile_FailureIsolation(t *testing.T) {
	p := newPress(t, &stubRasterizer{}, &stubProcessor{failCrop: true})
	svg := writeInput(t, p.Config.InputDir, "poster.svg")

	var log bytes.Buffer
	res := p.PressFile(svg, &log)

	if res.Status(types.VariantCentered) != types.VariantDone {
		t.Error("centered should succeed despite cropped failure")
	}
	if res.Status(types.VariantStretched) != types.VariantDone {
		t.Error("stretched should succeed despite cropped failure")
	}
	if res.Status(types.VariantCropped) != types.VariantFailed {
		t.Errorf("cropped = %q, want failed", res.Status(types.VariantCropped))
	}
	if !strings.Contains(log.String(), "failed:  poster-cropped.pdf") {
		t.Errorf("log should report the failed variant, got: %s", log.String())
	}
}

func TestPressFile_RenderGeometry(t *testing.T) {
	r := &stubRasterizer{}
	p := newPress(t, r, &stubProcessor{})
	p.Config.TargetWidth = 80
	p.Config.TargetHeight = 110
	p.Config.Background = types.BackgroundBlack
	svg := writeInput(t, p.Config.InputDir, "poster.svg")

	var log bytes.Buffer
	p.PressFile(svg, &log)

	want := []rasterizer.RenderOptions{
		{Width: 80, Height: 80, Background: types.BackgroundBlack}, // centered square
		{Width: 80, Height: 110},                                   // stretched exact
		{Width: 110, Height: 110},                                  // cropped square at height
	}
	if len(r.renders) != len(want) {
		t.Fatalf("expected %d renders, got %d", len(want), len(r.renders))
	}
	for i, opts := range r.renders {
		if opts != want[i] {
			t.Errorf("render %d = %+v, want %+v", i, opts, want[i])
		}
	}
}

func TestPressBatch(t *testing.T) {
	p := newPress(t, &stubRasterizer{}, &stubProcessor{})
	writeInput(t, p.Config.InputDir, "b.svg")
	writeInput(t, p.Config.InputDir, "a.svg")

	var log bytes.Buffer
	result, err := p.PressBatch(context.Background(), &log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Files != 2 {
		t.Errorf("files = %d, want 2", result.Files)
	}
	if result.Done != 6 {
		t.Errorf("done = %d, want 6", result.Done)
	}
	if result.HasFailures() {
		t.Error("HasFailures should be false")
	}

	// Sorted processing order.
	out := log.String()
	if strings.Index(out, "a.svg") > strings.Index(out, "b.svg") {
		t.Error("inputs should be processed in sorted order")
	}
	if !strings.Contains(out, "Batch summary:") {
		t.Error("batch output should contain summary line")
	}
}

func TestPressBatch_EmptyInput(t *testing.T) {
	p := newPress(t, &stubRasterizer{}, &stubProcessor{})

	var log bytes.Buffer
	_, err := p.PressBatch(context.Background(), &log)
	if err == nil {
		t.Fatal("expected error for empty input directory")
	}
	if !strings.Contains(err.Error(), "no SVG files found") {
		t.Errorf("error should mention missing inputs, got: %v", err)
	}
}

func TestPressBatch_FailureCounting(t *testing.T) {
	p := newPress(t, &stubRasterizer{}, &stubProcessor{failGray: true})
	writeInput(t, p.Config.InputDir, "a.svg")

	var log bytes.Buffer
	result, err := p.PressBatch(context.Background(), &log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// GrayPDF serves stretched and cropped; centered uses ExtentGrayPDF.
	if result.Done != 1 || result.Failed != 2 {
		t.Errorf("done/failed = %d/%d, want 1/2", result.Done, result.Failed)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
}

// fixedChanges marks a single path as unchanged.
type fixedChanges struct{ path string }

func (f *fixedChanges) Unchanged(ctx context.Context, path string, modTime time.Time) (bool, error) {
	return path == f.path, nil
}

func TestPressFiles_SkipUnchanged(t *testing.T) {
	p := newPress(t, &stubRasterizer{}, &stubProcessor{})
	a := writeInput(t, p.Config.InputDir, "a.svg")
	b := writeInput(t, p.Config.InputDir, "b.svg")
	p.Config.SkipUnchanged = true
	p.Changes = &fixedChanges{path: a}

	var log bytes.Buffer
	result, err := p.PressFiles(context.Background(), []string{a, b}, &log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Skipped != 3 || result.Done != 3 {
		t.Errorf("skipped/done = %d/%d, want 3/3", result.Skipped, result.Done)
	}
	if !strings.Contains(log.String(), "skipped: a.svg (unchanged)") {
		t.Errorf("log should report the skip, got: %s", log.String())
	}
	if !result.Results[0].AllSkipped() {
		t.Error("first result should be all-skipped")
	}
	if result.Results[1].AllSkipped() {
		t.Error("second result should not be skipped")
	}
}

func TestPressFiles_VariantSubset(t *testing.T) {
	p := newPress(t, &stubRasterizer{}, &stubProcessor{})
	p.Config.Variants = []types.Variant{types.VariantStretched}
	svg := writeInput(t, p.Config.InputDir, "poster.svg")

	var log bytes.Buffer
	result, err := p.PressFiles(context.Background(), []string{svg}, &log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Done != 1 {
		t.Errorf("done = %d, want 1", result.Done)
	}
	if _, err := os.Stat(filepath.Join(p.Config.OutputDir, "poster-centered.pdf")); err == nil {
		t.Error("centered variant should not be generated")
	}
	if _, err := os.Stat(filepath.Join(p.Config.OutputDir, "poster-stretched.pdf")); err != nil {
		t.Error("stretched variant should be generated")
	}
}

func TestListInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"z.svg", "a.svg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ListInputs(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if filepath.Base(files[0]) != "a.svg" || filepath.Base(files[1]) != "z.svg" {
		t.Errorf("files should be sorted, got %v", files)
	}
}
