package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var segmentsHitter int

var segmentsCmd = &cobra.Command{
	Use:   "segments <hash-prefix>",
	Short: "Show the per-shot segment breakdown of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runSegments,
}

func init() {
	segmentsCmd.Flags().IntVar(&segmentsHitter, "hitter", 0, "only show segments hit by this player (1 or 2)")
}

func runSegments(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	run, err := db.GetRunByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "No run found with hash prefix %q\n", args[0])
		return nil
	}

	segs, err := db.GetSegments(run.RunHash)
	if err != nil {
		return fmt.Errorf("get segments: %w", err)
	}

	if segmentsHitter != 0 {
		hitter := model.PlayerID(segmentsHitter)
		if !hitter.Valid() {
			return fmt.Errorf("invalid hitter %d: must be 1 or 2", segmentsHitter)
		}
		filtered := segs[:0]
		for _, s := range segs {
			if s.Hitter == hitter {
				filtered = append(filtered, s)
			}
		}
		segs = filtered
	}

	if len(segs) == 0 {
		fmt.Fprintln(os.Stdout, "No segments to show.")
		return nil
	}

	report.PrintRunSummary(os.Stdout, *run)
	report.PrintSegmentTable(os.Stdout, segs)
	return nil
}
