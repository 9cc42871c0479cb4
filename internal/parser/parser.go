// Package parser loads and validates the tracking file produced by the
// upstream detection pipeline: per-frame player/ball positions in mini-court
// coordinates, court geometry, and the ordered shot-contact frame list.
package parser

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// Run-parameter defaults applied when the tracking file omits them.
const (
	DefaultFPS = 24.0
	// DoubleLineWidthM is the real-world doubles-line width of a tennis
	// court, the reference for the pixel/meter scale.
	DoubleLineWidthM = 10.97
)

// Fatal input errors. Each aborts the run before any partial output.
var (
	ErrNoFrames        = errors.New("tracking file has no frame range (total_frames must be > 0)")
	ErrNoShotFrames    = errors.New("tracking file needs at least two shot frames to form a segment")
	ErrBadShotOrder    = errors.New("shot frames must be strictly increasing and within the frame range")
	ErrNoCourtGeometry = errors.New("tracking file is missing court geometry")
	ErrBadFPS          = errors.New("fps must be positive")
)

// trackingFile mirrors the JSON layout of the tracking file.
type trackingFile struct {
	Video struct {
		Path        string  `json:"path"`
		FPS         float64 `json:"fps"`
		TotalFrames int     `json:"total_frames"`
	} `json:"video"`
	Court struct {
		MiniWidthPX     float64                        `json:"mini_width_px"`
		RealWidthM      float64                        `json:"real_width_m"`
		BaselineCenters map[model.PlayerID]model.Point `json:"baseline_centers"`
		Polygon         []model.Point                  `json:"polygon"`
	} `json:"court"`
	Frames     []frameEntry `json:"frames"`
	ShotFrames []int        `json:"shot_frames"`
}

type frameEntry struct {
	Frame   int                            `json:"frame"`
	Players map[model.PlayerID]model.Point `json:"players"`
	Ball    *model.Point                   `json:"ball"`
}

// ParseTrackingFile reads, hashes, and validates the tracking file at path.
// The sha256 of the raw bytes becomes the run's idempotency key.
func ParseTrackingFile(path string) (*model.TrackingData, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tracking file: %w", err)
	}

	var tf trackingFile
	if err := json.Unmarshal(buf, &tf); err != nil {
		return nil, fmt.Errorf("decode tracking file: %w", err)
	}

	data := &model.TrackingData{
		Hash:        fmt.Sprintf("%x", sha256.Sum256(buf)),
		VideoPath:   tf.Video.Path,
		FPS:         tf.Video.FPS,
		TotalFrames: tf.Video.TotalFrames,
		Court: model.Geometry{
			MiniWidthPX:     tf.Court.MiniWidthPX,
			RealWidthM:      tf.Court.RealWidthM,
			BaselineCenters: tf.Court.BaselineCenters,
			Polygon:         tf.Court.Polygon,
		},
		Frames:     make(map[int]model.PositionFrame, len(tf.Frames)),
		ShotFrames: tf.ShotFrames,
	}

	if data.FPS == 0 {
		data.FPS = DefaultFPS
	}
	if data.Court.RealWidthM == 0 {
		data.Court.RealWidthM = DoubleLineWidthM
	}

	for _, fe := range tf.Frames {
		if fe.Frame < 0 {
			continue
		}
		pf := model.PositionFrame{Ball: fe.Ball}
		if len(fe.Players) > 0 {
			pf.Players = make(map[model.PlayerID]model.Point, len(fe.Players))
			for id, pt := range fe.Players {
				if !id.Valid() {
					return nil, fmt.Errorf("frame %d: unknown player id %d", fe.Frame, id)
				}
				pf.Players[id] = pt
			}
		}
		if pf.Players == nil && pf.Ball == nil {
			continue // empty entry carries no detection
		}
		data.Frames[fe.Frame] = pf
	}

	if err := Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

// Validate checks the fatal input contract: a usable frame range, a usable
// shot list, positive fps, and complete court geometry.
func Validate(data *model.TrackingData) error {
	if data.TotalFrames <= 0 {
		return ErrNoFrames
	}
	if data.FPS <= 0 {
		return ErrBadFPS
	}
	if len(data.ShotFrames) < 2 {
		return ErrNoShotFrames
	}
	prev := -1
	for _, f := range data.ShotFrames {
		if f <= prev || f >= data.TotalFrames {
			return fmt.Errorf("%w: frame %d", ErrBadShotOrder, f)
		}
		prev = f
	}

	g := data.Court
	if g.MiniWidthPX <= 0 || g.RealWidthM <= 0 || len(g.Polygon) < 3 {
		return ErrNoCourtGeometry
	}
	for _, id := range model.Players {
		if _, ok := g.BaselineCenters[id]; !ok {
			return fmt.Errorf("%w: no baseline center for player %d", ErrNoCourtGeometry, id)
		}
	}
	return nil
}
