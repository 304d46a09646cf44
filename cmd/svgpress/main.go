// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the svgpress CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the svgpress CLI.
var rootCmd = &cobra.Command{
	Use:   "svgpress",
	Short: "Batch-convert SVG artwork into print-ready grayscale PDFs",
	Long: `svgpress converts SVG vector images into print-ready grayscale PDFs at a
fixed physical size (707mm x 1000mm at 300 DPI). Each input produces three
scaled variants: centered with background padding, stretched to the exact
dimensions, and center-cropped at full height.

Rasterization is delegated to inkscape or rsvg-convert and raster processing
to ImageMagick; both are auto-detected on PATH.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./svgpress.yaml or ~/.config/svgpress/config.yaml)")
	rootCmd.PersistentFlags().String("rasterizer", "", "vector rasterizer binary: inkscape or rsvg-convert (default: auto-detect)")
	rootCmd.PersistentFlags().String("processor", "", "image processor binary: magick or convert (default: auto-detect)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("svgpress")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "svgpress"))
		}
	}

	viper.SetEnvPrefix("SVGPRESS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
