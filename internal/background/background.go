// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package background infers the intended page background of an SVG as white
// or black. The heuristic chain: explicit viewport-fill attribute, explicit
// style background, a full-canvas rect with an explicit fill, then corner
// sampling of a small transparency-preserving render. First match wins;
// every failure falls through to white.
package background

import (
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/pdiddy/svgpress/internal/rasterizer"
	"github.com/pdiddy/svgpress/pkg/types"
)

// Sampling thresholds: corners with alpha below alphaOpaque count as
// transparent; opaque corners with mean RGB below darkBrightness count as
// dark. Three of four corners decide.
const (
	alphaOpaque    = 128
	darkBrightness = 64
	cornerQuorum   = 3
	cornerMargin   = 2
)

// Detect classifies the page background of the SVG at svgPath. Detection
// failures (malformed XML, render or decode errors) are logged to w and
// never returned; the fallback is always white.
func Detect(svgPath string, r rasterizer.Rasterizer, sampleSize int, w io.Writer) types.Background {
	if sampleSize <= 0 {
		sampleSize = types.DefaultSampleSize
	}

	bg, found, err := detectFromXML(svgPath)
	if err != nil {
		fmt.Fprintf(w, "  warning: background detection failed for %s: %v\n", filepath.Base(svgPath), err)
		return types.BackgroundWhite
	}
	if found {
		return bg
	}

	bg, found, err = detectFromSample(svgPath, r, sampleSize)
	if err != nil {
		fmt.Fprintf(w, "  warning: background sampling failed for %s: %v\n", filepath.Base(svgPath), err)
		return types.BackgroundWhite
	}
	if found {
		return bg
	}

	return types.BackgroundWhite
}

// matchColor classifies s by substring, black markers checked first.
func matchColor(s string, blacks, whites []string) (types.Background, bool) {
	lower := strings.ToLower(s)
	for _, m := range blacks {
		if strings.Contains(lower, m) {
			return types.BackgroundBlack, true
		}
	}
	for _, m := range whites {
		if strings.Contains(lower, m) {
			return types.BackgroundWhite, true
		}
	}
	return "", false
}

// detectFromXML streams the SVG document, checking the root element's
// viewport-fill and style attributes, then every rect at any depth.
func detectFromXML(svgPath string) (types.Background, bool, error) {
	f, err := os.Open(svgPath)
	if err != nil {
		return "", false, fmt.Errorf("opening %s: %w", filepath.Base(svgPath), err)
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	var rootWidth, rootHeight string
	seenRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", false, fmt.Errorf("parsing %s: %w", filepath.Base(svgPath), err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		attrs := attrMap(se)

		if !seenRoot {
			seenRoot = true
			if fill := attrs["viewport-fill"]; fill != "" {
				if bg, ok := matchColor(fill,
					[]string{"#000", "black", "rgb(0,0,0)"},
					[]string{"#fff", "white", "rgb(255,255,255)"}); ok {
					return bg, true, nil
				}
			}
			if style := attrs["style"]; strings.Contains(strings.ToLower(style), "background") {
				if bg, ok := matchColor(style,
					[]string{"black", "#000"},
					[]string{"white", "#fff"}); ok {
					return bg, true, nil
				}
			}
			rootWidth, rootHeight = attrs["width"], attrs["height"]
			continue
		}

		if se.Name.Local != "rect" {
			continue
		}
		if bg, ok := rectBackground(attrs, rootWidth, rootHeight); ok {
			return bg, true, nil
		}
	}

	return "", false, nil
}

// rectBackground classifies a rect that sits at the origin and covers the
// full canvas. A background-looking rect without a recognizable fill does
// not end the scan.
func rectBackground(attrs map[string]string, rootWidth, rootHeight string) (types.Background, bool) {
	atOrigin := func(v string) bool { return v == "" || v == "0" || v == "0px" }
	if !atOrigin(attrs["x"]) || !atOrigin(attrs["y"]) {
		return "", false
	}

	width, height := attrs["width"], attrs["height"]
	fullSize := strings.Contains(width, "100%") || strings.Contains(height, "100%") ||
		(rootWidth != "" && width == rootWidth) ||
		(rootHeight != "" && height == rootHeight)
	if !fullSize {
		return "", false
	}

	if fill := attrs["fill"]; fill != "" {
		if bg, ok := matchColor(fill,
			[]string{"#000", "black"},
			[]string{"#fff", "white"}); ok {
			return bg, true
		}
	}
	if style := attrs["style"]; strings.Contains(style, "fill:") {
		if bg, ok := matchColor(style,
			[]string{"fill:#000", "fill:black"},
			[]string{"fill:#fff", "fill:white"}); ok {
			return bg, true
		}
	}
	return "", false
}

func attrMap(se xml.StartElement) map[string]string {
	attrs := make(map[string]string, len(se.Attr))
	for _, a := range se.Attr {
		attrs[a.Name.Local] = a.Value
	}
	return attrs
}

// detectFromSample renders a small transparency-preserving preview and
// classifies its corners.
func detectFromSample(svgPath string, r rasterizer.Rasterizer, size int) (types.Background, bool, error) {
	tmp, err := os.CreateTemp("", "svgpress-probe-*.png")
	if err != nil {
		return "", false, fmt.Errorf("creating probe file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := r.Render(svgPath, tmpPath, rasterizer.RenderOptions{Width: size, Height: size}); err != nil {
		return "", false, err
	}

	img, err := imaging.Open(tmpPath)
	if err != nil {
		return "", false, fmt.Errorf("decoding probe render: %w", err)
	}

	bg, found := classifyCorners(img)
	return bg, found, nil
}

// classifyCorners samples the four corners inset by a small margin. Mostly
// transparent corners mean no explicit background (white); mostly opaque
// dark corners mean a black background.
func classifyCorners(img image.Image) (types.Background, bool) {
	b := img.Bounds()
	corners := []image.Point{
		{b.Min.X + cornerMargin, b.Min.Y + cornerMargin},
		{b.Max.X - cornerMargin - 1, b.Min.Y + cornerMargin},
		{b.Min.X + cornerMargin, b.Max.Y - cornerMargin - 1},
		{b.Max.X - cornerMargin - 1, b.Max.Y - cornerMargin - 1},
	}

	transparent, dark := 0, 0
	for _, pt := range corners {
		c := color.NRGBAModel.Convert(img.At(pt.X, pt.Y)).(color.NRGBA)
		if c.A < alphaOpaque {
			transparent++
			continue
		}
		if (int(c.R)+int(c.G)+int(c.B))/3 < darkBrightness {
			dark++
		}
	}

	if transparent >= cornerQuorum {
		return types.BackgroundWhite, true
	}
	if dark >= cornerQuorum {
		return types.BackgroundBlack, true
	}
	return "", false
}
