package aggregator

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-tennis-metrics/internal/court"
	"github.com/pable/go-tennis-metrics/internal/model"
)

// Run-parameter defaults. The recovery radius is the distance from a
// player's baseline center within which they count as recovered; the touch
// radii drive the first-contact timestamps.
const (
	DefaultRecoveryRadiusM = 1.5

	ballTouchRadiusPX     = 35.0
	recoveryTouchBufferPX = 10.0
)

// Config holds the tunable run parameters.
type Config struct {
	RecoveryRadiusM float64 // 0 means DefaultRecoveryRadiusM
}

// Result is the full output of one engine run over a tracking file.
type Result struct {
	Run       model.RunSummary
	Players   [2]model.PlayerSummary
	Segments  []model.SegmentStats
	Snapshots []model.StatsSnapshot
	Timeline  []model.FrameStats
}

// Summary returns the flattened aggregate payload for external consumers.
func (r *Result) Summary() model.AggregateSummary {
	return model.BuildAggregateSummary(r.Run, r.Players)
}

// Aggregate runs the rally statistics engine over fully materialized
// tracking data: segment-wise shot attribution, speeds and recovery times,
// a forward-filled per-frame timeline, and the per-player summaries.
func Aggregate(data *model.TrackingData, cfg Config) (*Result, error) {
	if data == nil {
		return nil, fmt.Errorf("nil TrackingData")
	}
	radiusM := cfg.RecoveryRadiusM
	if radiusM == 0 {
		radiusM = DefaultRecoveryRadiusM
	}
	radiusPX := court.MetersToPixels(data.Court, radiusM)
	fps := data.FPS

	res := &Result{}

	// ---- Pass 1: per-segment shot attribution, speeds, recovery. ----

	// Snapshot 0 is the all-zero state before the first processed segment.
	res.Snapshots = append(res.Snapshots, model.StatsSnapshot{})

	// recoveryByFrame maps a segment's start frame to the measured
	// opponent's recovery time, for the timeline display pass.
	recoveryByFrame := make(map[int]map[model.PlayerID]float64)

	// Per-player recovery samples for the summary means.
	recoverySamples := make(map[model.PlayerID][]float64)
	missedRecoveries := make(map[model.PlayerID]int)

	shots := data.ShotFrames
	for i := 0; i < len(shots)-1; i++ {
		start, end := shots[i], shots[i+1]

		hitter, ok := resolveHitter(data.Frames[start])
		if !ok {
			continue // no ball or no players at the contact frame
		}
		opponent := hitter.Opponent()

		// Recovery: first frame in [start, end) where the opponent is back
		// within the recovery radius of their baseline center.
		recovery := model.RecoveryNone
		for f := start; f < end; f++ {
			pos, present := playerAt(data.Frames[f], opponent)
			if !present {
				continue
			}
			if model.Distance(pos, data.Court.BaselineCenters[opponent]) <= radiusPX {
				recovery = float64(f-start) / fps
				break
			}
		}
		recoveryByFrame[start] = map[model.PlayerID]float64{opponent: recovery}
		if recovery == model.RecoveryNone {
			missedRecoveries[opponent]++
		} else {
			recoverySamples[opponent] = append(recoverySamples[opponent], recovery)
		}

		// A zero-duration segment (duplicate shot frame) skips only the
		// speed contributions; the shot and recovery bookkeeping stand.
		dt := float64(end-start) / fps

		ballSpeed := 0.0
		if endBall := ballAt(data.Frames[end]); dt > 0 && endBall != nil {
			startBall := ballAt(data.Frames[start]) // present: hitter resolved
			distM := court.PixelsToMeters(data.Court, model.Distance(*startBall, *endBall))
			ballSpeed = distM / dt * 3.6
		}

		// Opponent movement over the same interval. A missing endpoint
		// position defaults the speed to 0; the shot still counts.
		oppSpeed := 0.0
		oppStart, okStart := playerAt(data.Frames[start], opponent)
		oppEnd, okEnd := playerAt(data.Frames[end], opponent)
		if dt > 0 && okStart && okEnd {
			distM := court.PixelsToMeters(data.Court, model.Distance(oppStart, oppEnd))
			oppSpeed = distM / dt * 3.6
		}

		snap := res.Snapshots[len(res.Snapshots)-1]
		snap.FrameNum = start
		h := snap.Player(hitter)
		h.Shots++
		h.TotalShotSpeed += ballSpeed
		h.LastShotSpeed = ballSpeed
		o := snap.Player(opponent)
		o.TotalMoveSpeed += oppSpeed
		o.LastMoveSpeed = oppSpeed
		res.Snapshots = append(res.Snapshots, snap)

		res.Segments = append(res.Segments, model.SegmentStats{
			RunHash:          data.Hash,
			Index:            i,
			StartFrame:       start,
			EndFrame:         end,
			Hitter:           hitter,
			ShotSpeedKMH:     ballSpeed,
			OpponentSpeedKMH: oppSpeed,
			RecoverySeconds:  recovery,
			BallStatus:       bounceStatus(data, end),
		})
	}

	// ---- Pass 2: forward-filled timeline, distance, touch times. ----

	timelineState := buildTimeline(data, res, radiusPX, recoveryByFrame)

	// ---- Pass 3: per-player and run summaries. ----

	final := res.Snapshots[len(res.Snapshots)-1]
	for idx, id := range model.Players {
		avgRecovery := 0.0
		if samples := recoverySamples[id]; len(samples) > 0 {
			avgRecovery = stat.Mean(samples, nil)
		}
		res.Players[idx] = model.PlayerSummary{
			RunHash:           data.Hash,
			PlayerID:          id,
			Shots:             final.Running(id).Shots,
			AvgShotSpeedKMH:   final.Running(id).AvgShotSpeed(),
			AvgMoveSpeedKMH:   final.AvgMoveSpeed(id),
			DistanceTraveledM: timelineState.distance[id],
			AvgRecoverySecs:   avgRecovery,
			Recoveries:        len(recoverySamples[id]),
			MissedRecoveries:  missedRecoveries[id],
			FirstBallTouchS:   timelineState.ballTouch[id],
			FirstZoneTouchS:   timelineState.zoneTouch[id],
		}
	}

	res.Run = model.RunSummary{
		RunHash:          data.Hash,
		VideoPath:        data.VideoPath,
		FPS:              fps,
		TotalFrames:      data.TotalFrames,
		DurationSeconds:  float64(data.TotalFrames) / fps,
		TotalShots:       len(res.Segments),
		LastBounceStatus: timelineState.ballStatus,
	}

	return res, nil
}

// resolveHitter picks the striker for a segment: the player closest to the
// ball at the contact frame, ties to the lower PlayerID. Returns false when
// the ball or every player is undetected at that frame.
func resolveHitter(pf model.PositionFrame) (model.PlayerID, bool) {
	if pf.Ball == nil || len(pf.Players) == 0 {
		return 0, false
	}
	var hitter model.PlayerID
	best := 0.0
	for _, id := range model.Players {
		pos, ok := pf.Players[id]
		if !ok {
			continue
		}
		d := model.Distance(pos, *pf.Ball)
		if hitter == 0 || d < best {
			hitter, best = id, d
		}
	}
	return hitter, hitter != 0
}

// bounceStatus classifies the ball at a bounce frame, or returns "" when the
// ball is undetected there (the previous status persists on the timeline).
func bounceStatus(data *model.TrackingData, frame int) string {
	ball := ballAt(data.Frames[frame])
	if ball == nil {
		return ""
	}
	if court.Contains(data.Court, *ball) {
		return model.BallStatusIn
	}
	return model.BallStatusOut
}

func playerAt(pf model.PositionFrame, id model.PlayerID) (model.Point, bool) {
	pos, ok := pf.Players[id]
	return pos, ok
}

func ballAt(pf model.PositionFrame) *model.Point {
	return pf.Ball
}
