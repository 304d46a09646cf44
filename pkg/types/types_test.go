// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantOutputName(t *testing.T) {
	assert.Equal(t, "poster-centered.pdf", VariantCentered.OutputName("poster"))
	assert.Equal(t, "poster-stretched.pdf", VariantStretched.OutputName("poster"))
	assert.Equal(t, "poster-cropped.pdf", VariantCropped.OutputName("poster"))
}

func TestParseVariant(t *testing.T) {
	for _, v := range AllVariants() {
		got, ok := ParseVariant(string(v))
		assert.True(t, ok)
		assert.Equal(t, v, got)
	}

	_, ok := ParseVariant("tiled")
	assert.False(t, ok)
}

func TestPressConfigNormalize(t *testing.T) {
	var cfg PressConfig
	cfg.Normalize()

	assert.Equal(t, "input", cfg.InputDir)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, DefaultTargetWidth, cfg.TargetWidth)
	assert.Equal(t, DefaultTargetHeight, cfg.TargetHeight)
	assert.Equal(t, DefaultDPI, cfg.DPI)
	assert.Equal(t, DefaultSampleSize, cfg.SampleSize)
}

func TestPressConfigNormalizeKeepsExplicitValues(t *testing.T) {
	cfg := PressConfig{InputDir: "art", TargetWidth: 100}
	cfg.Normalize()

	assert.Equal(t, "art", cfg.InputDir)
	assert.Equal(t, 100, cfg.TargetWidth)
	assert.Equal(t, DefaultTargetHeight, cfg.TargetHeight)
}

func TestFileResultStatus(t *testing.T) {
	res := FileResult{
		Variants: []VariantResult{
			{Variant: VariantCentered, Status: VariantDone},
			{Variant: VariantCropped, Status: VariantFailed},
		},
	}

	assert.Equal(t, VariantDone, res.Status(VariantCentered))
	assert.Equal(t, VariantFailed, res.Status(VariantCropped))
	assert.Empty(t, res.Status(VariantStretched))
}

func TestFileResultAllSkipped(t *testing.T) {
	assert.False(t, FileResult{}.AllSkipped(), "no variants is not skipped")

	skipped := FileResult{Variants: []VariantResult{
		{Variant: VariantCentered, Status: VariantSkipped},
		{Variant: VariantStretched, Status: VariantSkipped},
		{Variant: VariantCropped, Status: VariantSkipped},
	}}
	assert.True(t, skipped.AllSkipped())

	mixed := skipped
	mixed.Variants = append([]VariantResult{}, skipped.Variants...)
	mixed.Variants[1].Status = VariantDone
	assert.False(t, mixed.AllSkipped())
}
