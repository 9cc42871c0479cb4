package model

import "math"

// PlayerID identifies one of the two tracked players.
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Players lists the fixed two-player population in deterministic order.
var Players = [2]PlayerID{Player1, Player2}

// Opponent returns the other player.
func (p PlayerID) Opponent() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Valid reports whether p is one of the two tracked IDs.
func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

// String renders the display label used in tables and exports.
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	default:
		return "Unknown"
	}
}

// Point is a position in mini-court pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Ball bounce classification values.
const (
	BallStatusIn  = "IN"
	BallStatusOut = "OUT"
)

// RecoveryNone is the sentinel for "never returned to the recovery zone
// before the next shot". All real recovery times are >= 0.
const RecoveryNone = -1.0

// ---- Raw tracking input ----

// PositionFrame holds detections for a single frame. A missing player key or
// a nil Ball means "not detected", which is distinct from the origin point.
type PositionFrame struct {
	Players map[PlayerID]Point
	Ball    *Point
}

// Geometry is the fixed court geometry for one video, supplied by the
// upstream court-keypoint detector.
type Geometry struct {
	MiniWidthPX     float64
	RealWidthM      float64
	BaselineCenters map[PlayerID]Point
	Polygon         []Point
}

// TrackingData is the full decoded tracking file for one video: per-frame
// positions in mini-court space, court geometry, and shot-contact frames.
type TrackingData struct {
	Hash        string
	VideoPath   string
	FPS         float64
	TotalFrames int
	Court       Geometry
	Frames      map[int]PositionFrame // sparse: absent frame = no detections
	ShotFrames  []int                 // strictly increasing, first is the serve contact
}

// ---- Running statistics ----

// PlayerRunning holds one player's cumulative shot and movement fields.
// Counts and totals only grow; Last* fields are overwritten per segment.
type PlayerRunning struct {
	Shots          int
	TotalShotSpeed float64
	LastShotSpeed  float64
	TotalMoveSpeed float64
	LastMoveSpeed  float64
}

// AvgShotSpeed returns total shot speed over shot count, with the zero-count
// denominator substituted by 1 so a shotless player averages 0 rather than
// dividing by zero.
func (r PlayerRunning) AvgShotSpeed() float64 {
	n := r.Shots
	if n == 0 {
		n = 1
	}
	return r.TotalShotSpeed / float64(n)
}

// StatsSnapshot is one immutable entry in the running-stats sequence. The
// fixed-size array gives copy-on-write for free: assigning a snapshot copies
// both players' fields.
type StatsSnapshot struct {
	FrameNum int
	Players  [2]PlayerRunning // indexed by PlayerID-1
}

// Player returns a pointer to the running fields for id.
func (s *StatsSnapshot) Player(id PlayerID) *PlayerRunning {
	return &s.Players[id-1]
}

// Running returns the running fields for id by value.
func (s StatsSnapshot) Running(id PlayerID) PlayerRunning {
	return s.Players[id-1]
}

// AvgMoveSpeed returns id's average movement speed. Movement samples for a
// player are appended once per opponent shot, so the opponent's shot count is
// the sample count and is the denominator here (zero substituted by 1).
func (s StatsSnapshot) AvgMoveSpeed(id PlayerID) float64 {
	n := s.Running(id.Opponent()).Shots
	if n == 0 {
		n = 1
	}
	return s.Running(id).TotalMoveSpeed / float64(n)
}

// ---- Aggregated output ----

// SegmentStats is one processed shot segment: hitter attribution, speeds,
// and the opponent's recovery for the interval between two ball contacts.
type SegmentStats struct {
	RunHash          string
	Index            int
	StartFrame       int
	EndFrame         int
	Hitter           PlayerID
	ShotSpeedKMH     float64
	OpponentSpeedKMH float64
	RecoverySeconds  float64 // RecoveryNone when the opponent never recovered
	BallStatus       string  // classification at the terminal bounce frame
}

// PlayerSummary holds one player's final metrics for a run.
type PlayerSummary struct {
	RunHash           string
	PlayerID          PlayerID
	Shots             int
	AvgShotSpeedKMH   float64
	AvgMoveSpeedKMH   float64
	DistanceTraveledM float64
	AvgRecoverySecs   float64 // mean over non-sentinel recoveries; 0 when none
	Recoveries        int     // segments where this player recovered in time
	MissedRecoveries  int     // segments ending with the RecoveryNone sentinel
	FirstBallTouchS   float64 // RecoveryNone when the player never neared the ball
	FirstZoneTouchS   float64 // RecoveryNone when the player never entered their zone
}

// RunSummary is a lightweight record for list/show commands.
type RunSummary struct {
	RunHash          string
	VideoPath        string
	FPS              float64
	TotalFrames      int
	DurationSeconds  float64
	TotalShots       int
	LastBounceStatus string
	AnalyzedAt       string
}

// FramePlayerStats is the forward-filled running-stats view for one player
// on a single timeline row, the numbers the overlay draws in its per-player
// speed table.
type FramePlayerStats struct {
	Shots            int     `json:"shots"`
	LastShotSpeedKMH float64 `json:"last_shot_speed_kmh"`
	AvgShotSpeedKMH  float64 `json:"avg_shot_speed_kmh"`
	AvgMoveSpeedKMH  float64 `json:"avg_move_speed_kmh"`
}

// FrameStats is one row of the dense per-frame timeline consumed by the
// video-overlay renderer. Snapshot fields are forward-filled; display fields
// carry the presentation throttling of the original pipeline.
type FrameStats struct {
	Frame           int                          `json:"frame"`
	Ball            *Point                       `json:"ball,omitempty"`
	Players         map[PlayerID]Point           `json:"players,omitempty"`
	Snapshot        StatsSnapshot                `json:"-"`
	Stats           map[PlayerID]FramePlayerStats `json:"stats"`
	LastShotSpeed   float64                      `json:"last_shot_speed_kmh"` // max of both players' last shot speeds
	RecoveryDisplay map[PlayerID]float64         `json:"recovery_display_s,omitempty"`
	DistanceDisplay map[PlayerID]float64         `json:"distance_display_m"`
	BallStatus      string                       `json:"ball_status"`
}

// FrameStatsFor projects one player's running fields out of a snapshot.
func FrameStatsFor(snap StatsSnapshot, id PlayerID) FramePlayerStats {
	r := snap.Running(id)
	return FramePlayerStats{
		Shots:            r.Shots,
		LastShotSpeedKMH: r.LastShotSpeed,
		AvgShotSpeedKMH:  r.AvgShotSpeed(),
		AvgMoveSpeedKMH:  snap.AvgMoveSpeed(id),
	}
}

// AggregateSummary is the JSON payload handed to the coaching-insight
// generator and emitted by the export command.
type AggregateSummary struct {
	TotalShots              int     `json:"total_shots"`
	Player1Shots            int     `json:"player_1_shots"`
	Player2Shots            int     `json:"player_2_shots"`
	Player1AvgShotSpeed     float64 `json:"player_1_avg_shot_speed"`
	Player2AvgShotSpeed     float64 `json:"player_2_avg_shot_speed"`
	Player1AvgMoveSpeed     float64 `json:"player_1_avg_move_speed"`
	Player2AvgMoveSpeed     float64 `json:"player_2_avg_move_speed"`
	Player1DistanceTraveled float64 `json:"player_1_distance_traveled"`
	Player2DistanceTraveled float64 `json:"player_2_distance_traveled"`
	Player1AvgRecoveryTime  float64 `json:"player_1_avg_recovery_time"`
	Player2AvgRecoveryTime  float64 `json:"player_2_avg_recovery_time"`
	Player1FirstTouchS      float64 `json:"player_1_first_touch_s"` // RecoveryNone when never
	Player2FirstTouchS      float64 `json:"player_2_first_touch_s"`
	TotalFrames             int     `json:"total_frames"`
	DurationSeconds         float64 `json:"duration_seconds"`
}

// BuildAggregateSummary flattens a run and its two player summaries into the
// external summary payload. players must hold Player1 then Player2.
func BuildAggregateSummary(run RunSummary, players [2]PlayerSummary) AggregateSummary {
	return AggregateSummary{
		TotalShots:              run.TotalShots,
		Player1Shots:            players[0].Shots,
		Player2Shots:            players[1].Shots,
		Player1AvgShotSpeed:     players[0].AvgShotSpeedKMH,
		Player2AvgShotSpeed:     players[1].AvgShotSpeedKMH,
		Player1AvgMoveSpeed:     players[0].AvgMoveSpeedKMH,
		Player2AvgMoveSpeed:     players[1].AvgMoveSpeedKMH,
		Player1DistanceTraveled: players[0].DistanceTraveledM,
		Player2DistanceTraveled: players[1].DistanceTraveledM,
		Player1AvgRecoveryTime:  players[0].AvgRecoverySecs,
		Player2AvgRecoveryTime:  players[1].AvgRecoverySecs,
		Player1FirstTouchS:      players[0].FirstBallTouchS,
		Player2FirstTouchS:      players[1].FirstBallTouchS,
		TotalFrames:             run.TotalFrames,
		DurationSeconds:         run.DurationSeconds,
	}
}
