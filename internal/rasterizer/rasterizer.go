// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rasterizer implements vector rasterizer detection and invocation.
// Inkscape and rsvg-convert share the same logic; they differ only in binary
// name and argument spelling.
package rasterizer

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/svgpress/internal/extool"
	"github.com/pdiddy/svgpress/pkg/types"
)

const (
	binInkscape = "inkscape"
	binRsvg     = "rsvg-convert"
)

// stderrLimit bounds the diagnostic output carried in render errors.
const stderrLimit = 500

// RenderOptions controls a single SVG-to-PNG render.
type RenderOptions struct {
	// Width and Height are the output dimensions in pixels; both required.
	Width  int
	Height int

	// Background fills the page before drawing. Empty preserves
	// transparency, which background sampling depends on.
	Background types.Background
}

// Rasterizer renders SVG files to PNG at a requested size.
type Rasterizer interface {
	// Name returns the binary name ("inkscape" or "rsvg-convert").
	Name() string

	// Available reports whether the binary exists on PATH and responds
	// to a version probe.
	Available() bool

	// Render rasterizes the SVG at svgPath into a PNG at pngPath.
	Render(svgPath, pngPath string, opts RenderOptions) error
}

// argsFunc builds the command line for a specific binary.
type argsFunc func(svgPath, pngPath string, opts RenderOptions) []string

type rasterizer struct {
	bin  string
	args argsFunc
	exec extool.Executor
}

func (r *rasterizer) Name() string { return r.bin }

func (r *rasterizer) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "--version") == nil
}

func (r *rasterizer) Render(svgPath, pngPath string, opts RenderOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	stderr, err := r.exec.RunCapture(r.bin, r.args(svgPath, pngPath, opts)...)
	if err != nil {
		return fmt.Errorf("rasterizing %s with %s: %w: %s",
			filepath.Base(svgPath), r.bin, err, extool.Truncate(stderr, stderrLimit))
	}
	return nil
}

func inkscapeArgs(svgPath, pngPath string, opts RenderOptions) []string {
	args := []string{
		"--export-type=png",
		"--export-filename=" + pngPath,
		"--export-width=" + strconv.Itoa(opts.Width),
		"--export-height=" + strconv.Itoa(opts.Height),
	}
	if opts.Background != "" {
		args = append(args, "--export-background="+string(opts.Background))
	}
	return append(args, svgPath)
}

func rsvgArgs(svgPath, pngPath string, opts RenderOptions) []string {
	args := []string{
		"--format=png",
		"--output=" + pngPath,
		"--width=" + strconv.Itoa(opts.Width),
		"--height=" + strconv.Itoa(opts.Height),
	}
	if opts.Background != "" {
		args = append(args, "--background-color="+string(opts.Background))
	}
	return append(args, svgPath)
}

func newInkscape(exec extool.Executor) *rasterizer {
	return &rasterizer{bin: binInkscape, args: inkscapeArgs, exec: exec}
}

func newRsvg(exec extool.Executor) *rasterizer {
	return &rasterizer{bin: binRsvg, args: rsvgArgs, exec: exec}
}

// Detect tries inkscape first, falls back to rsvg-convert. Returns an error
// if neither rasterizer is available.
func Detect() (Rasterizer, error) {
	return detect(extool.Default)
}

func detect(exec extool.Executor) (Rasterizer, error) {
	ink := newInkscape(exec)
	if ink.Available() {
		return ink, nil
	}

	rsvg := newRsvg(exec)
	if rsvg.Available() {
		return rsvg, nil
	}

	return nil, fmt.Errorf(
		"no vector rasterizer available: neither %s nor %s found or operational",
		binInkscape, binRsvg,
	)
}

// ForBinary returns the rasterizer for an explicitly configured binary name.
func ForBinary(bin string) (Rasterizer, error) {
	return forBinary(extool.Default, bin)
}

func forBinary(exec extool.Executor, bin string) (Rasterizer, error) {
	var r *rasterizer
	switch bin {
	case binInkscape:
		r = newInkscape(exec)
	case binRsvg:
		r = newRsvg(exec)
	default:
		return nil, fmt.Errorf("unsupported rasterizer %q: use %s or %s", bin, binInkscape, binRsvg)
	}
	if !r.Available() {
		return nil, fmt.Errorf("rasterizer %s not found or operational", bin)
	}
	return r, nil
}
