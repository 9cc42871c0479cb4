package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// RunExists returns true if a run with the given hash is already stored.
func (db *DB) RunExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM runs WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertRun inserts a run record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertRun(run model.RunSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO runs(hash, video_path, fps, total_frames, duration_seconds, total_shots, last_bounce_status, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunHash, run.VideoPath, run.FPS, run.TotalFrames,
		run.DurationSeconds, run.TotalShots, run.LastBounceStatus, run.AnalyzedAt,
	)
	return err
}

// InsertPlayerRunStats bulk-inserts the per-player summaries in a transaction.
func (db *DB) InsertPlayerRunStats(stats []model.PlayerSummary) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_run_stats(
			run_hash, player_id, shots, avg_shot_speed, avg_move_speed,
			distance_traveled_m, avg_recovery_s, recoveries, missed_recoveries,
			first_ball_touch_s, first_zone_touch_s
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		_, err = stmt.Exec(
			s.RunHash, int(s.PlayerID), s.Shots, s.AvgShotSpeedKMH, s.AvgMoveSpeedKMH,
			s.DistanceTraveledM, s.AvgRecoverySecs, s.Recoveries, s.MissedRecoveries,
			s.FirstBallTouchS, s.FirstZoneTouchS,
		)
		if err != nil {
			return fmt.Errorf("insert player_run_stats for player %d: %w", s.PlayerID, err)
		}
	}
	return tx.Commit()
}

// InsertSegments bulk-inserts per-segment rows in a transaction.
func (db *DB) InsertSegments(segs []model.SegmentStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO segments(
			run_hash, segment_index, start_frame, end_frame, hitter,
			shot_speed_kmh, opponent_speed_kmh, recovery_s, ball_status
		) VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range segs {
		_, err = stmt.Exec(
			s.RunHash, s.Index, s.StartFrame, s.EndFrame, int(s.Hitter),
			s.ShotSpeedKMH, s.OpponentSpeedKMH, s.RecoverySeconds, s.BallStatus,
		)
		if err != nil {
			return fmt.Errorf("insert segment %d: %w", s.Index, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns all stored run summaries, newest first.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, video_path, fps, total_frames, duration_seconds, total_shots, last_bounce_status, analyzed_at
		FROM runs ORDER BY analyzed_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		var r model.RunSummary
		if err := rows.Scan(&r.RunHash, &r.VideoPath, &r.FPS, &r.TotalFrames,
			&r.DurationSeconds, &r.TotalShots, &r.LastBounceStatus, &r.AnalyzedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRunByPrefix finds the first run whose hash starts with the given prefix.
func (db *DB) GetRunByPrefix(prefix string) (*model.RunSummary, error) {
	var r model.RunSummary
	err := db.conn.QueryRow(`
		SELECT hash, video_path, fps, total_frames, duration_seconds, total_shots, last_bounce_status, analyzed_at
		FROM runs WHERE hash LIKE ? LIMIT 1`, prefix+"%").
		Scan(&r.RunHash, &r.VideoPath, &r.FPS, &r.TotalFrames,
			&r.DurationSeconds, &r.TotalShots, &r.LastBounceStatus, &r.AnalyzedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetPlayerRunStats returns the two player summaries for a run, ordered by player id.
func (db *DB) GetPlayerRunStats(runHash string) ([]model.PlayerSummary, error) {
	rows, err := db.conn.Query(`
		SELECT player_id, shots, avg_shot_speed, avg_move_speed,
		       distance_traveled_m, avg_recovery_s, recoveries, missed_recoveries,
		       first_ball_touch_s, first_zone_touch_s
		FROM player_run_stats WHERE run_hash = ?
		ORDER BY player_id`, runHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerSummary
	for rows.Next() {
		var s model.PlayerSummary
		var pid int
		if err := rows.Scan(
			&pid, &s.Shots, &s.AvgShotSpeedKMH, &s.AvgMoveSpeedKMH,
			&s.DistanceTraveledM, &s.AvgRecoverySecs, &s.Recoveries, &s.MissedRecoveries,
			&s.FirstBallTouchS, &s.FirstZoneTouchS,
		); err != nil {
			return nil, err
		}
		s.RunHash = runHash
		s.PlayerID = model.PlayerID(pid)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSegments returns all segment rows for a run in frame order.
func (db *DB) GetSegments(runHash string) ([]model.SegmentStats, error) {
	rows, err := db.conn.Query(`
		SELECT segment_index, start_frame, end_frame, hitter,
		       shot_speed_kmh, opponent_speed_kmh, recovery_s, ball_status
		FROM segments WHERE run_hash = ?
		ORDER BY segment_index`, runHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SegmentStats
	for rows.Next() {
		var s model.SegmentStats
		var hitter int
		if err := rows.Scan(
			&s.Index, &s.StartFrame, &s.EndFrame, &hitter,
			&s.ShotSpeedKMH, &s.OpponentSpeedKMH, &s.RecoverySeconds, &s.BallStatus,
		); err != nil {
			return nil, err
		}
		s.RunHash = runHash
		s.Hitter = model.PlayerID(hitter)
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and, via foreign keys, its player and segment rows.
func (db *DB) DeleteRun(hash string) error {
	// Delete children explicitly as well: cascade requires foreign_keys=on,
	// which older databases may have been created without.
	for _, q := range []string{
		"DELETE FROM segments WHERE run_hash = ?",
		"DELETE FROM player_run_stats WHERE run_hash = ?",
		"DELETE FROM runs WHERE hash = ?",
	} {
		if _, err := db.conn.Exec(q, hash); err != nil {
			return err
		}
	}
	return nil
}

// Overview holds database-wide aggregate counts for the summary command.
type Overview struct {
	TotalRuns       int
	EarliestRun     string
	LatestRun       string
	TotalShots      int
	TotalDurationS  float64
	TotalDistanceM  float64
	AvgShotSpeedKMH float64
}

// GetDBOverview computes database-wide aggregates across all stored runs.
func (db *DB) GetDBOverview() (Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(1),
		       COALESCE(MIN(analyzed_at), ''),
		       COALESCE(MAX(analyzed_at), ''),
		       COALESCE(SUM(total_shots), 0),
		       COALESCE(SUM(duration_seconds), 0)
		FROM runs`).
		Scan(&ov.TotalRuns, &ov.EarliestRun, &ov.LatestRun, &ov.TotalShots, &ov.TotalDurationS)
	if err != nil {
		return ov, err
	}
	err = db.conn.QueryRow(`
		SELECT COALESCE(SUM(distance_traveled_m), 0),
		       COALESCE(AVG(CASE WHEN shots > 0 THEN avg_shot_speed END), 0)
		FROM player_run_stats`).
		Scan(&ov.TotalDistanceM, &ov.AvgShotSpeedKMH)
	return ov, err
}

// PlayerTrendRow is one run's metrics for a player slot, for cross-run trends.
type PlayerTrendRow struct {
	RunHash         string
	AnalyzedAt      string
	Shots           int
	AvgShotSpeedKMH float64
	AvgMoveSpeedKMH float64
	DistanceM       float64
	AvgRecoverySecs float64
}

// GetPlayerTrend returns per-run metrics for one player slot across all runs,
// oldest first.
func (db *DB) GetPlayerTrend(id model.PlayerID) ([]PlayerTrendRow, error) {
	rows, err := db.conn.Query(`
		SELECT p.run_hash, r.analyzed_at, p.shots, p.avg_shot_speed,
		       p.avg_move_speed, p.distance_traveled_m, p.avg_recovery_s
		FROM player_run_stats p
		JOIN runs r ON r.hash = p.run_hash
		WHERE p.player_id = ?
		ORDER BY r.analyzed_at, p.run_hash`, int(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerTrendRow
	for rows.Next() {
		var t PlayerTrendRow
		if err := rows.Scan(&t.RunHash, &t.AnalyzedAt, &t.Shots,
			&t.AvgShotSpeedKMH, &t.AvgMoveSpeedKMH, &t.DistanceM, &t.AvgRecoverySecs); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary read-only query and returns string-rendered rows.
func (db *DB) QueryRaw(query string) (cols []string, rows [][]string, err error) {
	q := strings.TrimSpace(strings.ToUpper(query))
	if !strings.HasPrefix(q, "SELECT") && !strings.HasPrefix(q, "WITH") {
		return nil, nil, fmt.Errorf("only SELECT queries are allowed")
	}

	res, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer res.Close()

	cols, err = res.Columns()
	if err != nil {
		return nil, nil, err
	}

	for res.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := res.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range raw {
			switch t := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(t)
			case float64:
				row[i] = fmt.Sprintf("%.2f", t)
			default:
				row[i] = fmt.Sprintf("%v", t)
			}
		}
		rows = append(rows, row)
	}
	return cols, rows, res.Err()
}
