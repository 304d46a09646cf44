// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Target page geometry: 707mm x 1000mm at 300 DPI.
// 707mm = 27.835in * 300 = 8350 px; 1000mm = 39.37in * 300 = 11811 px.
const (
	DefaultTargetWidth  = 8350
	DefaultTargetHeight = 11811
	DefaultDPI          = 300

	// DefaultSampleSize is the edge length of the low-resolution preview
	// rendered for background sampling.
	DefaultSampleSize = 100
)

// PressConfig holds settings for a conversion run.
type PressConfig struct {
	// InputDir is scanned for *.svg files in batch mode.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives the PDF variants and sidecar reports.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// TargetWidth and TargetHeight are the output dimensions in pixels.
	TargetWidth  int `json:"target_width" yaml:"target_width"`
	TargetHeight int `json:"target_height" yaml:"target_height"`

	// DPI is stamped on the output so the pixel dimensions map to the
	// physical page size.
	DPI int `json:"dpi" yaml:"dpi"`

	// SampleSize is the preview edge length used by background detection.
	SampleSize int `json:"sample_size" yaml:"sample_size"`

	// Background overrides per-file detection when set.
	Background Background `json:"background,omitempty" yaml:"background,omitempty"`

	// Variants restricts generation to a subset; empty means all three.
	Variants []Variant `json:"variants,omitempty" yaml:"variants,omitempty"`

	// SkipUnchanged skips inputs whose modification time matches a fully
	// successful record in the manifest.
	SkipUnchanged bool `json:"skip_unchanged" yaml:"skip_unchanged"`

	// ManifestPath is the SQLite run-history database; empty disables it.
	ManifestPath string `json:"manifest_path,omitempty" yaml:"manifest_path,omitempty"`
}

// Normalize fills zero values with defaults.
func (c *PressConfig) Normalize() {
	if c.InputDir == "" {
		c.InputDir = "input"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.TargetWidth <= 0 {
		c.TargetWidth = DefaultTargetWidth
	}
	if c.TargetHeight <= 0 {
		c.TargetHeight = DefaultTargetHeight
	}
	if c.DPI <= 0 {
		c.DPI = DefaultDPI
	}
	if c.SampleSize <= 0 {
		c.SampleSize = DefaultSampleSize
	}
}

// ToolsConfig selects the external conversion binaries. Empty values mean
// auto-detect.
type ToolsConfig struct {
	// Rasterizer is "inkscape" or "rsvg-convert".
	Rasterizer string `json:"rasterizer,omitempty" yaml:"rasterizer,omitempty"`

	// Processor is "magick" (ImageMagick 7) or "convert" (ImageMagick 6).
	Processor string `json:"processor,omitempty" yaml:"processor,omitempty"`
}
