// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/svgpress/internal/manifest"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversion runs from the manifest",
	Long: `History lists past conversion runs recorded in the SQLite manifest,
newest first, with per-run file and variant counters.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("manifest")
	path = fallback(path, viper.GetString("manifest_path"))
	if path == "" {
		return fmt.Errorf("manifest path required: pass --manifest or set manifest_path")
	}

	store, err := manifest.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-19s  %-16s  %-16s  %5s  %5s  %6s\n",
		"Run", "Started", "Input", "Output", "Files", "Done", "Failed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 82))

	for _, r := range runs {
		input := r.InputDir
		if len(input) > 16 {
			input = input[:13] + "..."
		}
		output := r.OutputDir
		if len(output) > 16 {
			output = output[:13] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-19s  %-16s  %-16s  %5d  %5d  %6d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), input, output,
			r.Files, r.VariantsDone, r.VariantsFailed)
	}

	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(runs))
	return nil
}

func init() {
	historyCmd.Flags().String("manifest", "", "SQLite run-history database path")
	historyCmd.Flags().Int("limit", 20, "maximum runs to list")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}
