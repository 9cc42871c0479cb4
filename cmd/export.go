package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/parser"
)

var (
	exportTimeline       bool
	exportOut            string
	exportFPS            float64
	exportRecoveryRadius float64
)

var exportCmd = &cobra.Command{
	Use:   "export <tracking.json>",
	Short: "Export rally statistics as JSON",
	Long: `Re-run the analysis on a tracking file and write the results as JSON.

By default the aggregate summary object is exported. With --timeline, the
full per-frame timeline is exported instead: one entry per video frame with
positions, forward-filled display stats and ball bounce status, suitable for
overlay rendering.

The analysis is deterministic, so exporting never needs the database; the
same tracking file always produces the same output.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportTimeline, "timeline", false, "export the per-frame timeline instead of the summary")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.Flags().Float64Var(&exportFPS, "fps", 0, "override the video frame rate (0 = use file value)")
	exportCmd.Flags().Float64Var(&exportRecoveryRadius, "recovery-radius", aggregator.DefaultRecoveryRadiusM,
		"recovery zone radius around the baseline center, in meters")
}

func runExport(_ *cobra.Command, args []string) error {
	data, err := parser.ParseTrackingFile(args[0])
	if err != nil {
		return fmt.Errorf("parse tracking file: %w", err)
	}
	if exportFPS > 0 {
		data.FPS = exportFPS
	}

	res, err := aggregator.Aggregate(data, aggregator.Config{RecoveryRadiusM: exportRecoveryRadius})
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	var doc any
	if exportTimeline {
		doc = res.Timeline
	} else {
		doc = res.Summary()
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	}
	return nil
}
