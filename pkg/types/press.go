// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared domain types and configuration for svgpress.
package types

import "time"

// Background classifies the intended page background of an SVG.
type Background string

const (
	BackgroundWhite Background = "white"
	BackgroundBlack Background = "black"
)

// Variant identifies one of the three scaling strategies.
type Variant string

const (
	// VariantCentered scales to the target width and centers vertically
	// with background-colored padding.
	VariantCentered Variant = "centered"

	// VariantStretched scales to the exact target dimensions, ignoring
	// the aspect ratio.
	VariantStretched Variant = "stretched"

	// VariantCropped scales to the target height and crops symmetrically
	// to the target width from the horizontal center.
	VariantCropped Variant = "cropped"
)

// AllVariants returns the three variants in canonical output order.
func AllVariants() []Variant {
	return []Variant{VariantCentered, VariantStretched, VariantCropped}
}

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantCentered, VariantStretched, VariantCropped:
		return Variant(s), true
	}
	return "", false
}

// OutputName returns the PDF filename for this variant of the given input
// stem, e.g. "poster" -> "poster-centered.pdf".
func (v Variant) OutputName(stem string) string {
	return stem + "-" + string(v) + ".pdf"
}

// VariantStatus indicates the outcome of generating one variant.
type VariantStatus string

const (
	VariantDone    VariantStatus = "done"
	VariantFailed  VariantStatus = "failed"
	VariantSkipped VariantStatus = "skipped"
)

// VariantResult records the outcome of one variant of one input file.
type VariantResult struct {
	Variant Variant       `json:"variant" yaml:"variant"`
	Output  string        `json:"output" yaml:"output"`
	Status  VariantStatus `json:"status" yaml:"status"`
}

// FileResult records the full outcome of converting one SVG input: the
// detected background, the per-variant statuses, and the tools used. It is
// written as a YAML sidecar report next to the PDFs and persisted in the
// run manifest.
type FileResult struct {
	// Source is the path to the input SVG.
	Source string `json:"source" yaml:"source"`

	// Background is the detected (or overridden) page background.
	Background Background `json:"background" yaml:"background"`

	// Variants lists the per-variant outcomes in generation order.
	Variants []VariantResult `json:"variants" yaml:"variants"`

	// Rasterizer and Processor name the external binaries used.
	Rasterizer string `json:"rasterizer" yaml:"rasterizer"`
	Processor  string `json:"processor" yaml:"processor"`

	// ModTime is the input file's modification time at conversion.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`

	// CreatedAt is when the conversion ran.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Status returns the recorded status for the given variant, or an empty
// status when the variant was not attempted.
func (r FileResult) Status(v Variant) VariantStatus {
	for _, vr := range r.Variants {
		if vr.Variant == v {
			return vr.Status
		}
	}
	return ""
}

// AllSkipped reports whether every variant of this file was skipped.
func (r FileResult) AllSkipped() bool {
	if len(r.Variants) == 0 {
		return false
	}
	for _, vr := range r.Variants {
		if vr.Status != VariantSkipped {
			return false
		}
	}
	return true
}
