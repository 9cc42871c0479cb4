package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var trendCmd = &cobra.Command{
	Use:   "trend <player>",
	Short: "Chronological per-run performance trend for a player slot",
	Long: `Show one row per stored run for a player slot (1 or 2), oldest first,
so changes in shot speed, movement and recovery can be tracked across
sessions filmed from the same side.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || !model.PlayerID(n).Valid() {
		return fmt.Errorf("invalid player %q: must be 1 or 2", args[0])
	}
	id := model.PlayerID(n)

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.GetPlayerTrend(id)
	if err != nil {
		return fmt.Errorf("query trend: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No runs stored yet.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n%s across %d run(s):\n\n", id.String(), len(rows))

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("HASH", "ANALYZED", "SHOTS", "AVG_SHOT", "AVG_MOVE", "DISTANCE", "AVG_RECOVERY")

	for _, r := range rows {
		recStr := "—"
		if r.AvgRecoverySecs >= 0 {
			recStr = fmt.Sprintf("%.2fs", r.AvgRecoverySecs)
		}
		hash := r.RunHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		table.Append(
			hash,
			r.AnalyzedAt,
			strconv.Itoa(r.Shots),
			fmt.Sprintf("%.1f km/h", r.AvgShotSpeedKMH),
			fmt.Sprintf("%.1f km/h", r.AvgMoveSpeedKMH),
			fmt.Sprintf("%.1f m", r.DistanceM),
			recStr,
		)
	}
	table.Render()
	fmt.Fprintln(os.Stdout)
	return nil
}
