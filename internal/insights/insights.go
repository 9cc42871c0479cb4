// Package insights builds grounded coaching context from rally statistics
// and produces a deterministic narrative when no AI backend is available.
package insights

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// BuildContext serialises a run's aggregates and segments into compact JSON
// suitable as grounded input for an analysis prompt.
func BuildContext(run model.RunSummary, players []model.PlayerSummary, segs []model.SegmentStats) (string, error) {
	type playerEntry struct {
		Player           string  `json:"player"`
		Shots            int     `json:"shots"`
		AvgShotSpeedKMH  float64 `json:"avg_shot_speed_kmh"`
		AvgMoveSpeedKMH  float64 `json:"avg_move_speed_kmh"`
		DistanceM        float64 `json:"distance_traveled_m"`
		AvgRecoveryS     float64 `json:"avg_recovery_s"`
		Recoveries       int     `json:"recoveries"`
		MissedRecoveries int     `json:"missed_recoveries"`
		FirstBallTouchS  float64 `json:"first_ball_touch_s"`
		FirstZoneTouchS  float64 `json:"first_zone_touch_s"`
	}
	type segmentEntry struct {
		Index        int     `json:"index"`
		Hitter       string  `json:"hitter"`
		ShotSpeedKMH float64 `json:"shot_speed_kmh"`
		OppSpeedKMH  float64 `json:"opponent_speed_kmh"`
		RecoveryS    float64 `json:"recovery_s"`
		BallStatus   string  `json:"ball_status"`
	}

	pe := make([]playerEntry, 0, len(players))
	for _, p := range players {
		pe = append(pe, playerEntry{
			Player:           p.PlayerID.String(),
			Shots:            p.Shots,
			AvgShotSpeedKMH:  round2(p.AvgShotSpeedKMH),
			AvgMoveSpeedKMH:  round2(p.AvgMoveSpeedKMH),
			DistanceM:        round2(p.DistanceTraveledM),
			AvgRecoveryS:     round2(p.AvgRecoverySecs),
			Recoveries:       p.Recoveries,
			MissedRecoveries: p.MissedRecoveries,
			FirstBallTouchS:  round2(p.FirstBallTouchS),
			FirstZoneTouchS:  round2(p.FirstZoneTouchS),
		})
	}

	se := make([]segmentEntry, 0, len(segs))
	for _, s := range segs {
		se = append(se, segmentEntry{
			Index:        s.Index,
			Hitter:       s.Hitter.String(),
			ShotSpeedKMH: round2(s.ShotSpeedKMH),
			OppSpeedKMH:  round2(s.OpponentSpeedKMH),
			RecoveryS:    round2(s.RecoverySeconds),
			BallStatus:   s.BallStatus,
		})
	}

	doc := map[string]interface{}{
		"subject":          "rally_run",
		"video":            run.VideoPath,
		"fps":              run.FPS,
		"duration_seconds": round2(run.DurationSeconds),
		"total_shots":      run.TotalShots,
		"last_ball_status": run.LastBounceStatus,
		"players":          pe,
		"segments":         se,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// Narrative produces a deterministic coaching summary from stored numbers.
// It never calls out, so it works with no API key configured.
func Narrative(run model.RunSummary, players []model.PlayerSummary, segs []model.SegmentStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Rally analysis for %s (%.1fs, %d shots)\n\n", run.VideoPath, run.DurationSeconds, run.TotalShots)

	for _, p := range players {
		fmt.Fprintf(&b, "%s hit %d shot(s)", p.PlayerID.String(), p.Shots)
		if p.Shots > 0 {
			fmt.Fprintf(&b, " averaging %.1f km/h", p.AvgShotSpeedKMH)
		}
		fmt.Fprintf(&b, ", moved %.1f m at %.1f km/h average.\n", p.DistanceTraveledM, p.AvgMoveSpeedKMH)

		if p.Recoveries+p.MissedRecoveries > 0 {
			if p.Recoveries > 0 {
				fmt.Fprintf(&b, "  Recovered position after %d of %d shots (avg %.2fs back to base).\n",
					p.Recoveries, p.Recoveries+p.MissedRecoveries, p.AvgRecoverySecs)
			} else {
				fmt.Fprintf(&b, "  Never recovered position between shots (%d missed recoveries).\n",
					p.MissedRecoveries)
			}
		}
		if p.FirstBallTouchS >= 0 {
			fmt.Fprintf(&b, "  First reached the ball at %.2fs.\n", p.FirstBallTouchS)
		}
	}

	if fast := fastestSegment(segs); fast != nil {
		fmt.Fprintf(&b, "\nFastest shot: %.1f km/h by %s (segment %d).\n",
			fast.ShotSpeedKMH, fast.Hitter.String(), fast.Index)
	}
	if run.LastBounceStatus != "" {
		fmt.Fprintf(&b, "Final ball landed %s.\n", run.LastBounceStatus)
	}

	if tip := coachingTip(players); tip != "" {
		fmt.Fprintf(&b, "\nFocus area: %s\n", tip)
	}
	return b.String()
}

// fastestSegment returns the segment with the highest shot speed, or nil.
func fastestSegment(segs []model.SegmentStats) *model.SegmentStats {
	var best *model.SegmentStats
	for i := range segs {
		if best == nil || segs[i].ShotSpeedKMH > best.ShotSpeedKMH {
			best = &segs[i]
		}
	}
	return best
}

// coachingTip picks the single most actionable observation from the numbers.
func coachingTip(players []model.PlayerSummary) string {
	for _, p := range players {
		total := p.Recoveries + p.MissedRecoveries
		if total == 0 {
			continue
		}
		missRate := float64(p.MissedRecoveries) / float64(total)
		if missRate > 0.5 {
			return fmt.Sprintf("%s missed recovery on %d of %d shots. Work on returning to the baseline center between shots.",
				p.PlayerID.String(), p.MissedRecoveries, total)
		}
	}
	for _, p := range players {
		if p.Shots >= 2 && p.AvgShotSpeedKMH > 0 && p.AvgShotSpeedKMH < 30 {
			return fmt.Sprintf("%s averaged %.1f km/h on %d shots. Look for opportunities to drive through the ball.",
				p.PlayerID.String(), p.AvgShotSpeedKMH, p.Shots)
		}
	}
	return ""
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
