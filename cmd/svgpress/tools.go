// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/svgpress/internal/magick"
	"github.com/pdiddy/svgpress/internal/rasterizer"
	"github.com/pdiddy/svgpress/pkg/types"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show which external conversion tools are available",
	Long: `Tools reports the rasterizer (inkscape or rsvg-convert) and image
processor (magick or convert) that svgpress would use, and exits nonzero
when either is missing.`,
	RunE: runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	tools := toolsConfigFromFlags(cmd)
	var missing []string

	if r, err := selectRasterizer(tools); err != nil {
		fmt.Printf("rasterizer: %v\n", err)
		missing = append(missing, "rasterizer")
	} else {
		fmt.Printf("rasterizer: %s\n", r.Name())
	}

	if p, err := selectProcessor(tools); err != nil {
		fmt.Printf("processor:  %v\n", err)
		missing = append(missing, "processor")
	} else {
		fmt.Printf("processor:  %s\n", p.Name())
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing tools: %s", strings.Join(missing, ", "))
	}
	return nil
}

// --- shared tool selection helpers ---

func toolsConfigFromFlags(cmd *cobra.Command) types.ToolsConfig {
	rast, _ := cmd.Flags().GetString("rasterizer")
	proc, _ := cmd.Flags().GetString("processor")
	return types.ToolsConfig{
		Rasterizer: fallback(rast, viper.GetString("tools.rasterizer")),
		Processor:  fallback(proc, viper.GetString("tools.processor")),
	}
}

func selectRasterizer(t types.ToolsConfig) (rasterizer.Rasterizer, error) {
	if t.Rasterizer != "" {
		return rasterizer.ForBinary(t.Rasterizer)
	}
	return rasterizer.Detect()
}

func selectProcessor(t types.ToolsConfig) (*magick.Processor, error) {
	if t.Processor != "" {
		return magick.ForBinary(t.Processor)
	}
	return magick.Detect()
}

func selectTools(cmd *cobra.Command) (rasterizer.Rasterizer, *magick.Processor, error) {
	tools := toolsConfigFromFlags(cmd)
	r, err := selectRasterizer(tools)
	if err != nil {
		return nil, nil, err
	}
	p, err := selectProcessor(tools)
	if err != nil {
		return nil, nil, err
	}
	return r, p, nil
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
