package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all runs stored in the database:
total run count, analysis date range, total shots and distance, and
per-player averages across all runs.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetDBOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalRuns == 0 {
		fmt.Fprintln(os.Stdout, "No runs stored yet. Run 'tennismetrics parse <tracking.json>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Runs stored     : %d\n", ov.TotalRuns)
	fmt.Fprintf(os.Stdout, "  Date range      : %s → %s\n", ov.EarliestRun, ov.LatestRun)
	fmt.Fprintf(os.Stdout, "  Total shots     : %d\n", ov.TotalShots)
	fmt.Fprintf(os.Stdout, "  Total rally time: %.1fs\n", ov.TotalDurationS)
	fmt.Fprintf(os.Stdout, "  Distance covered: %.1f m\n", ov.TotalDistanceM)
	fmt.Fprintf(os.Stdout, "  Avg shot speed  : %.1f km/h\n", ov.AvgShotSpeedKMH)

	fmt.Fprintf(os.Stdout, "\n--- Per-Player Averages ---\n\n")
	pt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	pt.Header("PLAYER", "RUNS", "SHOTS", "AVG_SHOT", "AVG_MOVE", "DISTANCE")

	for _, id := range model.Players {
		rows, err := db.GetPlayerTrend(id)
		if err != nil {
			return fmt.Errorf("get player trend: %w", err)
		}
		var shots int
		var shotSpeed, moveSpeed, dist float64
		var speedRuns int
		for _, r := range rows {
			shots += r.Shots
			dist += r.DistanceM
			if r.Shots > 0 {
				shotSpeed += r.AvgShotSpeedKMH
				moveSpeed += r.AvgMoveSpeedKMH
				speedRuns++
			}
		}
		shotStr, moveStr := "—", "—"
		if speedRuns > 0 {
			shotStr = fmt.Sprintf("%.1f km/h", shotSpeed/float64(speedRuns))
			moveStr = fmt.Sprintf("%.1f km/h", moveSpeed/float64(speedRuns))
		}
		pt.Append(
			id.String(),
			fmt.Sprintf("%d", len(rows)),
			fmt.Sprintf("%d", shots),
			shotStr,
			moveStr,
			fmt.Sprintf("%.1f m", dist),
		)
	}
	pt.Render()
	fmt.Fprintln(os.Stdout)
	return nil
}
