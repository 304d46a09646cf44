// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package magick invokes ImageMagick for raster post-processing: padding,
// cropping, grayscale conversion, and DPI stamping on the way to PDF.
package magick

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/svgpress/internal/extool"
	"github.com/pdiddy/svgpress/pkg/types"
)

const (
	binMagick  = "magick"  // ImageMagick 7
	binConvert = "convert" // ImageMagick 6
)

const stderrLimit = 500

// Processor wraps an ImageMagick binary. The IM7 "magick" and legacy IM6
// "convert" entry points take identical arguments for the operations used
// here.
type Processor struct {
	bin  string
	exec extool.Executor
}

// Name returns the binary name ("magick" or "convert").
func (p *Processor) Name() string { return p.bin }

// Available reports whether the binary exists on PATH and responds to a
// version probe.
func (p *Processor) Available() bool {
	if _, err := p.exec.LookPath(p.bin); err != nil {
		return false
	}
	return p.exec.RunSilent(p.bin, "-version") == nil
}

// ExtentGrayPDF pads src onto a w x h canvas centered on the background
// color, converts to grayscale, stamps the DPI, and writes the PDF at dst.
func (p *Processor) ExtentGrayPDF(src, dst string, w, h int, bg types.Background, dpi int) error {
	args := []string{
		src,
		"-gravity", "center",
		"-background", string(bg),
		"-extent", fmt.Sprintf("%dx%d", w, h),
	}
	return p.run(src, append(args, grayArgs(dst, dpi)...))
}

// GrayPDF converts src to grayscale, stamps the DPI, and writes dst.
func (p *Processor) GrayPDF(src, dst string, dpi int) error {
	return p.run(src, append([]string{src}, grayArgs(dst, dpi)...))
}

// CenterCrop crops src symmetrically to w x h around the center and writes
// dst. +repage drops the virtual canvas offset left behind by -crop.
func (p *Processor) CenterCrop(src, dst string, w, h int) error {
	args := []string{
		src,
		"-gravity", "center",
		"-crop", fmt.Sprintf("%dx%d+0+0", w, h),
		"+repage",
		dst,
	}
	return p.run(src, args)
}

func grayArgs(dst string, dpi int) []string {
	return []string{
		"-colorspace", "Gray",
		"-density", strconv.Itoa(dpi),
		"-units", "PixelsPerInch",
		dst,
	}
}

func (p *Processor) run(src string, args []string) error {
	stderr, err := p.exec.RunCapture(p.bin, args...)
	if err != nil {
		return fmt.Errorf("processing %s with %s: %w: %s",
			filepath.Base(src), p.bin, err, extool.Truncate(stderr, stderrLimit))
	}
	return nil
}

func newProcessor(exec extool.Executor, bin string) *Processor {
	return &Processor{bin: bin, exec: exec}
}

// Detect tries the IM7 "magick" binary first, falls back to IM6 "convert".
// Returns an error if neither is available.
func Detect() (*Processor, error) {
	return detect(extool.Default)
}

func detect(exec extool.Executor) (*Processor, error) {
	im7 := newProcessor(exec, binMagick)
	if im7.Available() {
		return im7, nil
	}

	im6 := newProcessor(exec, binConvert)
	if im6.Available() {
		return im6, nil
	}

	return nil, fmt.Errorf(
		"no image processor available: neither %s nor %s found or operational",
		binMagick, binConvert,
	)
}

// ForBinary returns the processor for an explicitly configured binary name.
func ForBinary(bin string) (*Processor, error) {
	return forBinary(extool.Default, bin)
}

func forBinary(exec extool.Executor, bin string) (*Processor, error) {
	if bin != binMagick && bin != binConvert {
		return nil, fmt.Errorf("unsupported processor %q: use %s or %s", bin, binMagick, binConvert)
	}
	p := newProcessor(exec, bin)
	if !p.Available() {
		return nil, fmt.Errorf("processor %s not found or operational", bin)
	}
	return p, nil
}
