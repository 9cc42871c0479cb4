// Package report renders rally statistics as console tables.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pable/go-tennis-metrics/internal/model"
)

// PrintRunSummary prints a one-line summary header for the run.
func PrintRunSummary(w io.Writer, r model.RunSummary) {
	status := r.LastBounceStatus
	if status == "" {
		status = "—"
	}
	fmt.Fprintf(w, "\nVideo: %s  |  FPS: %.0f  |  Duration: %.1fs  |  Shots: %d  |  Last ball: %s  |  Hash: %s\n\n",
		r.VideoPath, r.FPS, r.DurationSeconds, r.TotalShots, status, shortHash(r.RunHash))
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintPlayerTable prints the per-player stats table to stdout.
func PrintPlayerTable(stats []model.PlayerSummary) {
	PrintPlayerTableTo(os.Stdout, stats)
}

// PrintPlayerTableTo writes the per-player stats table to the provided writer.
func PrintPlayerTableTo(w io.Writer, stats []model.PlayerSummary) {
	table := newTable(w)
	table.Header("PLAYER", "SHOTS", "AVG_SHOT", "AVG_MOVE", "DISTANCE", "AVG_RECOVERY", "RECOVERED", "MISSED", "BALL_TOUCH", "ZONE_TOUCH")

	for _, s := range stats {
		recStr := "—"
		if s.Recoveries > 0 {
			recStr = fmt.Sprintf("%.2fs", s.AvgRecoverySecs)
		}
		table.Append(
			s.PlayerID.String(),
			strconv.Itoa(s.Shots),
			fmt.Sprintf("%.1f km/h", s.AvgShotSpeedKMH),
			fmt.Sprintf("%.1f km/h", s.AvgMoveSpeedKMH),
			fmt.Sprintf("%.1f m", s.DistanceTraveledM),
			recStr,
			strconv.Itoa(s.Recoveries),
			strconv.Itoa(s.MissedRecoveries),
			touchStr(s.FirstBallTouchS),
			touchStr(s.FirstZoneTouchS),
		)
	}
	table.Render()
}

func touchStr(s float64) string {
	if s < 0 {
		return "—"
	}
	return fmt.Sprintf("%.2fs", s)
}

// PrintSegmentTable prints the per-segment breakdown table.
func PrintSegmentTable(w io.Writer, segs []model.SegmentStats) {
	table := newTable(w)
	table.Header("#", "START", "END", "HITTER", "SHOT_SPEED", "OPP_SPEED", "RECOVERY", "BALL")

	for _, s := range segs {
		recStr := "missed"
		if s.RecoverySeconds >= 0 {
			recStr = fmt.Sprintf("%.2fs", s.RecoverySeconds)
		}
		status := s.BallStatus
		if status == "" {
			status = "—"
		}
		table.Append(
			strconv.Itoa(s.Index),
			strconv.Itoa(s.StartFrame),
			strconv.Itoa(s.EndFrame),
			s.Hitter.String(),
			fmt.Sprintf("%.1f km/h", s.ShotSpeedKMH),
			fmt.Sprintf("%.1f km/h", s.OpponentSpeedKMH),
			recStr,
			status,
		)
	}
	table.Render()
}

// PrintRunList prints one line per stored run.
func PrintRunList(w io.Writer, runs []model.RunSummary) {
	fmt.Fprintf(w, "%-14s  %-24s  %5s  %8s  %6s  %-20s\n",
		"HASH", "VIDEO", "SHOTS", "DURATION", "LAST", "ANALYZED")
	fmt.Fprintf(w, "%-14s  %-24s  %5s  %8s  %6s  %-20s\n",
		"──────────────", "────────────────────────", "─────", "────────", "──────", "────────────────────")
	for _, r := range runs {
		status := r.LastBounceStatus
		if status == "" {
			status = "—"
		}
		fmt.Fprintf(w, "%-14s  %-24s  %5d  %7.1fs  %6s  %-20s\n",
			shortHash(r.RunHash), truncate(r.VideoPath, 24), r.TotalShots, r.DurationSeconds, status, r.AnalyzedAt)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "…" + s[len(s)-n+1:]
}
