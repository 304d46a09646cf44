// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package press

import (
	"fmt"
	"os"

	"github.com/pdiddy/svgpress/internal/rasterizer"
	"github.com/pdiddy/svgpress/pkg/types"
)

func (p *Press) generate(v types.Variant, svgPath, outPDF string, bg types.Background) error {
	switch v {
	case types.VariantCentered:
		return p.generateCentered(svgPath, outPDF, bg)
	case types.VariantStretched:
		return p.generateStretched(svgPath, outPDF)
	case types.VariantCropped:
		return p.generateCropped(svgPath, outPDF)
	}
	return fmt.Errorf("unknown variant %q", v)
}

// generateCentered rasterizes a square at the target width on the detected
// background, then pads it to the full page height centered vertically.
func (p *Press) generateCentered(svgPath, outPDF string, bg types.Background) error {
	tmp, cleanup, err := tempPNG()
	if err != nil {
		return err
	}
	defer cleanup()

	opts := rasterizer.RenderOptions{
		Width:      p.Config.TargetWidth,
		Height:     p.Config.TargetWidth,
		Background: bg,
	}
	if err := p.Rasterizer.Render(svgPath, tmp, opts); err != nil {
		return err
	}
	return p.Processor.ExtentGrayPDF(tmp, outPDF,
		p.Config.TargetWidth, p.Config.TargetHeight, bg, p.Config.DPI)
}

// generateStretched rasterizes directly to the exact target dimensions,
// distorting the aspect ratio.
func (p *Press) generateStretched(svgPath, outPDF string) error {
	tmp, cleanup, err := tempPNG()
	if err != nil {
		return err
	}
	defer cleanup()

	opts := rasterizer.RenderOptions{
		Width:  p.Config.TargetWidth,
		Height: p.Config.TargetHeight,
	}
	if err := p.Rasterizer.Render(svgPath, tmp, opts); err != nil {
		return err
	}
	return p.Processor.GrayPDF(tmp, outPDF, p.Config.DPI)
}

// generateCropped rasterizes a square at the target height, then crops
// symmetrically to the target width from the horizontal center.
func (p *Press) generateCropped(svgPath, outPDF string) error {
	full, cleanupFull, err := tempPNG()
	if err != nil {
		return err
	}
	defer cleanupFull()

	cropped, cleanupCropped, err := tempPNG()
	if err != nil {
		return err
	}
	defer cleanupCropped()

	opts := rasterizer.RenderOptions{
		Width:  p.Config.TargetHeight,
		Height: p.Config.TargetHeight,
	}
	if err := p.Rasterizer.Render(svgPath, full, opts); err != nil {
		return err
	}
	if err := p.Processor.CenterCrop(full, cropped, p.Config.TargetWidth, p.Config.TargetHeight); err != nil {
		return err
	}
	return p.Processor.GrayPDF(cropped, outPDF, p.Config.DPI)
}

func tempPNG() (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "svgpress-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	f.Close()
	return path, func() { os.Remove(path) }, nil
}
