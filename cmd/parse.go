package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/parser"
	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var (
	parseFPS            float64
	parseRecoveryRadius float64
	parseShowSegments   bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <tracking.json>",
	Short: "Analyze a tracking file and store rally metrics",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().Float64Var(&parseFPS, "fps", 0, "override the video frame rate (0 = use file value)")
	parseCmd.Flags().Float64Var(&parseRecoveryRadius, "recovery-radius", aggregator.DefaultRecoveryRadiusM,
		"recovery zone radius around the baseline center, in meters")
	parseCmd.Flags().BoolVar(&parseShowSegments, "segments", false, "also print the per-shot segment table")
}

func runParse(cmd *cobra.Command, args []string) error {
	trackingPath := args[0]

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Analyzing %s...\n", trackingPath)
	data, err := parser.ParseTrackingFile(trackingPath)
	if err != nil {
		return fmt.Errorf("parse tracking file: %w", err)
	}
	if parseFPS > 0 {
		data.FPS = parseFPS
	}

	exists, err := db.RunExists(data.Hash)
	if err != nil {
		return fmt.Errorf("check run: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Run %s already stored, showing cached results.\n", data.Hash[:12])
		return showByHash(db, data.Hash, parseShowSegments)
	}

	res, err := aggregator.Aggregate(data, aggregator.Config{RecoveryRadiusM: parseRecoveryRadius})
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	run := res.Run
	run.AnalyzedAt = time.Now().UTC().Format(time.RFC3339)

	if err := db.InsertRun(run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if err := db.InsertPlayerRunStats(res.Players[:]); err != nil {
		return fmt.Errorf("insert player stats: %w", err)
	}
	if err := db.InsertSegments(res.Segments); err != nil {
		return fmt.Errorf("insert segments: %w", err)
	}

	report.PrintRunSummary(os.Stdout, run)
	report.PrintPlayerTable(res.Players[:])
	if parseShowSegments {
		fmt.Fprintln(os.Stdout)
		report.PrintSegmentTable(os.Stdout, res.Segments)
	}
	return nil
}

func showByHash(db *storage.DB, hash string, withSegments bool) error {
	run, err := db.GetRunByPrefix(hash)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", hash)
	}
	stats, err := db.GetPlayerRunStats(run.RunHash)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}

	report.PrintRunSummary(os.Stdout, *run)
	report.PrintPlayerTable(stats)

	if withSegments {
		segs, err := db.GetSegments(run.RunHash)
		if err != nil {
			return fmt.Errorf("get segments: %w", err)
		}
		fmt.Fprintln(os.Stdout)
		report.PrintSegmentTable(os.Stdout, segs)
	}
	return nil
}
