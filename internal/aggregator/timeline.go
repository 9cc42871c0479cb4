package aggregator

import (
	"github.com/pable/go-tennis-metrics/internal/court"
	"github.com/pable/go-tennis-metrics/internal/model"
)

// timelineState carries the per-frame accumulators whose final values feed
// the player summaries.
type timelineState struct {
	distance   map[model.PlayerID]float64
	ballTouch  map[model.PlayerID]float64
	zoneTouch  map[model.PlayerID]float64
	ballStatus string
}

// buildTimeline expands the snapshot sequence into a dense per-frame
// timeline (forward-fill), accumulating distance traveled, first-touch
// timestamps, and the persistent bounce status along the way. It appends the
// timeline to res and returns the final accumulator state.
func buildTimeline(data *model.TrackingData, res *Result, radiusPX float64, recoveryByFrame map[int]map[model.PlayerID]float64) timelineState {
	fps := data.FPS
	st := timelineState{
		distance: map[model.PlayerID]float64{model.Player1: 0, model.Player2: 0},
		ballTouch: map[model.PlayerID]float64{
			model.Player1: model.RecoveryNone, model.Player2: model.RecoveryNone,
		},
		zoneTouch: map[model.PlayerID]float64{
			model.Player1: model.RecoveryNone, model.Player2: model.RecoveryNone,
		},
		ballStatus: model.BallStatusIn,
	}

	// Bounce frames are every shot contact except the opening serve.
	bounceFrames := make(map[int]bool, len(data.ShotFrames))
	for _, f := range data.ShotFrames[1:] {
		bounceFrames[f] = true
	}

	// Distance display updates twice per second; the accumulator itself is
	// exact and continuous.
	displayInterval := int(2 * fps)
	if displayInterval < 1 {
		displayInterval = 1
	}

	lastPos := make(map[model.PlayerID]model.Point, 2)
	distanceDisplay := map[model.PlayerID]float64{model.Player1: 0, model.Player2: 0}
	recoveryDisplay := map[model.PlayerID]float64{model.Player1: 0, model.Player2: 0}

	res.Timeline = make([]model.FrameStats, 0, data.TotalFrames)
	snapIdx := 0

	for i := 0; i < data.TotalFrames; i++ {
		pf := data.Frames[i]

		// Advance to the latest snapshot at or before this frame.
		for snapIdx+1 < len(res.Snapshots) && res.Snapshots[snapIdx+1].FrameNum <= i {
			snapIdx++
		}
		snap := res.Snapshots[snapIdx]

		for _, id := range model.Players {
			pos, ok := pf.Players[id]
			if !ok {
				continue // gap: accumulator unchanged, last position kept
			}
			if prev, seen := lastPos[id]; seen {
				st.distance[id] += court.PixelsToMeters(data.Court, model.Distance(prev, pos))
			}
			lastPos[id] = pos

			if pf.Ball != nil && st.ballTouch[id] == model.RecoveryNone &&
				model.Distance(pos, *pf.Ball) <= ballTouchRadiusPX {
				st.ballTouch[id] = float64(i) / fps
			}
			if st.zoneTouch[id] == model.RecoveryNone &&
				model.Distance(pos, data.Court.BaselineCenters[id]) <= radiusPX+recoveryTouchBufferPX {
				st.zoneTouch[id] = float64(i) / fps
			}
		}

		if i%displayInterval == 0 {
			distanceDisplay[model.Player1] = st.distance[model.Player1]
			distanceDisplay[model.Player2] = st.distance[model.Player2]
		}

		if bounceFrames[i] && pf.Ball != nil {
			if court.Contains(data.Court, *pf.Ball) {
				st.ballStatus = model.BallStatusIn
			} else {
				st.ballStatus = model.BallStatusOut
			}
		}

		if rec, ok := recoveryByFrame[i]; ok {
			for id, v := range rec {
				recoveryDisplay[id] = v
			}
		}

		fs := model.FrameStats{
			Frame:    i,
			Ball:     pf.Ball,
			Snapshot: snap,
			Stats: map[model.PlayerID]model.FramePlayerStats{
				model.Player1: model.FrameStatsFor(snap, model.Player1),
				model.Player2: model.FrameStatsFor(snap, model.Player2),
			},
			LastShotSpeed: max(snap.Running(model.Player1).LastShotSpeed, snap.Running(model.Player2).LastShotSpeed),
			RecoveryDisplay: map[model.PlayerID]float64{
				model.Player1: recoveryDisplay[model.Player1],
				model.Player2: recoveryDisplay[model.Player2],
			},
			DistanceDisplay: map[model.PlayerID]float64{
				model.Player1: distanceDisplay[model.Player1],
				model.Player2: distanceDisplay[model.Player2],
			},
			BallStatus: st.ballStatus,
		}
		if len(pf.Players) > 0 {
			fs.Players = make(map[model.PlayerID]model.Point, len(pf.Players))
			for id, pos := range pf.Players {
				fs.Players[id] = pos
			}
		}
		res.Timeline = append(res.Timeline, fs)
	}

	return st
}
