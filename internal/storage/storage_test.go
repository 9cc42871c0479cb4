package storage

import (
	"testing"

	"github.com/pable/go-tennis-metrics/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedRun(t *testing.T, db *DB, hash string) {
	t.Helper()
	run := model.RunSummary{
		RunHash:          hash,
		VideoPath:        "match.mp4",
		FPS:              24,
		TotalFrames:      480,
		DurationSeconds:  20,
		TotalShots:       3,
		LastBounceStatus: model.BallStatusIn,
		AnalyzedAt:       "2026-08-30T10:00:00Z",
	}
	if err := db.InsertRun(run); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	stats := []model.PlayerSummary{
		{RunHash: hash, PlayerID: model.Player1, Shots: 2, AvgShotSpeedKMH: 40, AvgMoveSpeedKMH: 5, DistanceTraveledM: 30, AvgRecoverySecs: 1.5, Recoveries: 1, MissedRecoveries: 1, FirstBallTouchS: 0.5, FirstZoneTouchS: 0.25},
		{RunHash: hash, PlayerID: model.Player2, Shots: 1, AvgShotSpeedKMH: 35, AvgMoveSpeedKMH: 6, DistanceTraveledM: 28, AvgRecoverySecs: -1, Recoveries: 0, MissedRecoveries: 2, FirstBallTouchS: -1, FirstZoneTouchS: 0.75},
	}
	if err := db.InsertPlayerRunStats(stats); err != nil {
		t.Fatalf("InsertPlayerRunStats: %v", err)
	}

	segs := []model.SegmentStats{
		{RunHash: hash, Index: 0, StartFrame: 24, EndFrame: 48, Hitter: model.Player1, ShotSpeedKMH: 42, OpponentSpeedKMH: 6, RecoverySeconds: 1.5, BallStatus: model.BallStatusIn},
		{RunHash: hash, Index: 1, StartFrame: 48, EndFrame: 96, Hitter: model.Player2, ShotSpeedKMH: 35, OpponentSpeedKMH: 4, RecoverySeconds: model.RecoveryNone, BallStatus: model.BallStatusOut},
	}
	if err := db.InsertSegments(segs); err != nil {
		t.Fatalf("InsertSegments: %v", err)
	}
}

func TestRunExists(t *testing.T) {
	db := openTestDB(t)

	ok, err := db.RunExists("deadbeef")
	if err != nil {
		t.Fatalf("RunExists: %v", err)
	}
	if ok {
		t.Fatal("expected empty database to have no runs")
	}

	seedRun(t, db, "deadbeef")

	ok, err = db.RunExists("deadbeef")
	if err != nil {
		t.Fatalf("RunExists: %v", err)
	}
	if !ok {
		t.Fatal("expected run to exist after insert")
	}
}

func TestInsertRunIdempotent(t *testing.T) {
	db := openTestDB(t)
	seedRun(t, db, "deadbeef")
	seedRun(t, db, "deadbeef") // replace, not duplicate

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
}

func TestGetRunByPrefix(t *testing.T) {
	db := openTestDB(t)
	seedRun(t, db, "abc123")

	run, err := db.GetRunByPrefix("abc")
	if err != nil {
		t.Fatalf("GetRunByPrefix: %v", err)
	}
	if run == nil {
		t.Fatal("expected a match for prefix abc")
	}
	if run.RunHash != "abc123" {
		t.Errorf("hash = %q, want abc123", run.RunHash)
	}
	if run.TotalShots != 3 {
		t.Errorf("total shots = %d, want 3", run.TotalShots)
	}

	run, err = db.GetRunByPrefix("zzz")
	if err != nil {
		t.Fatalf("GetRunByPrefix: %v", err)
	}
	if run != nil {
		t.Errorf("expected nil for unmatched prefix, got %+v", run)
	}
}

func TestGetPlayerRunStats(t *testing.T) {
	db := openTestDB(t)
	seedRun(t, db, "abc123")

	stats, err := db.GetPlayerRunStats("abc123")
	if err != nil {
		t.Fatalf("GetPlayerRunStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 player rows, got %d", len(stats))
	}
	if stats[0].PlayerID != model.Player1 || stats[1].PlayerID != model.Player2 {
		t.Errorf("rows not ordered by player id: %v, %v", stats[0].PlayerID, stats[1].PlayerID)
	}
	if stats[0].Shots != 2 {
		t.Errorf("player 1 shots = %d, want 2", stats[0].Shots)
	}
	if stats[1].FirstBallTouchS != -1 {
		t.Errorf("player 2 first ball touch = %v, want -1 sentinel", stats[1].FirstBallTouchS)
	}
}

func TestGetSegments(t *testing.T) {
	db := openTestDB(t)
	seedRun(t, db, "abc123")

	segs, err := db.GetSegments("abc123")
	if err != nil {
		t.Fatalf("GetSegments: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Hitter != model.Player1 {
		t.Errorf("segment 0 hitter = %v, want player 1", segs[0].Hitter)
	}
	if segs[1].RecoverySeconds != model.RecoveryNone {
		t.Errorf("segment 1 recovery = %v, want sentinel", segs[1].RecoverySeconds)
	}
	if segs[1].BallStatus != model.BallStatusOut {
		t.Errorf("segment 1 ball status = %q, want OUT", segs[1].BallStatus)
	}
}

func TestDeleteRun(t *testing.T) {
	db := openTestDB(t)
	seedRun(t, db, "abc123")
	seedRun(t, db, "def456")

	if err := db.DeleteRun("abc123"); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].RunHash != "def456" {
		t.Fatalf("expected only def456 to remain, got %+v", runs)
	}

	segs, err := db.GetSegments("abc123")
	if err != nil {
		t.Fatalf("GetSegments: %v", err)
	}
	if len(segs) != 0 {
		t.Errorf("expected segments of deleted run to be gone, got %d", len(segs))
	}
	stats, err := db.GetPlayerRunStats("abc123")
	if err != nil {
		t.Fatalf("GetPlayerRunStats: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("expected player stats of deleted run to be gone, got %d", len(stats))
	}
}

func TestGetDBOverview(t *testing.T) {
	db := openTestDB(t)
	seedRun(t, db, "abc123")
	seedRun(t, db, "def456")

	ov, err := db.GetDBOverview()
	if err != nil {
		t.Fatalf("GetDBOverview: %v", err)
	}
	if ov.TotalRuns != 2 {
		t.Errorf("total runs = %d, want 2", ov.TotalRuns)
	}
	if ov.TotalShots != 6 {
		t.Errorf("total shots = %d, want 6", ov.TotalShots)
	}
	if ov.TotalDurationS != 40 {
		t.Errorf("total duration = %v, want 40", ov.TotalDurationS)
	}
	if ov.TotalDistanceM != 116 {
		t.Errorf("total distance = %v, want 116", ov.TotalDistanceM)
	}
}

func TestGetPlayerTrend(t *testing.T) {
	db := openTestDB(t)
	seedRun(t, db, "abc123")

	trend, err := db.GetPlayerTrend(model.Player1)
	if err != nil {
		t.Fatalf("GetPlayerTrend: %v", err)
	}
	if len(trend) != 1 {
		t.Fatalf("expected 1 trend row, got %d", len(trend))
	}
	if trend[0].AvgShotSpeedKMH != 40 {
		t.Errorf("avg shot speed = %v, want 40", trend[0].AvgShotSpeedKMH)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openTestDB(t)
	seedRun(t, db, "abc123")

	cols, rows, err := db.QueryRaw("SELECT hash, total_shots FROM runs")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "hash" {
		t.Errorf("cols = %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "abc123" || rows[0][1] != "3" {
		t.Errorf("rows = %v", rows)
	}

	if _, _, err := db.QueryRaw("DELETE FROM runs"); err == nil {
		t.Fatal("expected non-SELECT query to be rejected")
	}
}
