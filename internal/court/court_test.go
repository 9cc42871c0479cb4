package court

import (
	"math"
	"testing"

	"github.com/pable/go-tennis-metrics/internal/model"
)

func squareCourt() model.Geometry {
	return model.Geometry{
		MiniWidthPX: 250,
		RealWidthM:  10.97,
		Polygon: []model.Point{
			{X: 0, Y: 0}, {X: 250, Y: 0}, {X: 250, Y: 500}, {X: 0, Y: 500},
		},
	}
}

func TestPixelMeterConversionRoundTrip(t *testing.T) {
	g := squareCourt()

	// The full mini-court width maps to the doubles-line width.
	if got := PixelsToMeters(g, 250); math.Abs(got-10.97) > 1e-9 {
		t.Errorf("PixelsToMeters(250) = %v, want 10.97", got)
	}
	if got := MetersToPixels(g, 10.97); math.Abs(got-250) > 1e-9 {
		t.Errorf("MetersToPixels(10.97) = %v, want 250", got)
	}
	for _, px := range []float64{0, 1, 35, 117.3} {
		if got := MetersToPixels(g, PixelsToMeters(g, px)); math.Abs(got-px) > 1e-9 {
			t.Errorf("round trip %v → %v", px, got)
		}
	}
}

func TestContains(t *testing.T) {
	g := squareCourt()

	tests := []struct {
		name string
		p    model.Point
		want bool
	}{
		{"center", model.Point{X: 125, Y: 250}, true},
		{"outside right", model.Point{X: 251, Y: 250}, false},
		{"outside above", model.Point{X: 125, Y: -1}, false},
		{"far out", model.Point{X: 1000, Y: 1000}, false},
		{"on left line", model.Point{X: 0, Y: 250}, true},
		{"on baseline", model.Point{X: 125, Y: 0}, true},
		{"corner", model.Point{X: 0, Y: 0}, true},
		{"just inside", model.Point{X: 0.0001, Y: 0.0001}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(g, tt.p); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestContains_NonConvexPolygon(t *testing.T) {
	// An L-shaped region: the notch at the top right is outside.
	g := model.Geometry{
		MiniWidthPX: 100,
		RealWidthM:  100,
		Polygon: []model.Point{
			{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 50},
			{X: 50, Y: 50}, {X: 50, Y: 100}, {X: 0, Y: 100},
		},
	}

	if !Contains(g, model.Point{X: 25, Y: 75}) {
		t.Error("lower arm of the L should be inside")
	}
	if Contains(g, model.Point{X: 75, Y: 75}) {
		t.Error("notch should be outside")
	}
}

func TestContains_DegeneratePolygon(t *testing.T) {
	g := model.Geometry{Polygon: []model.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	if Contains(g, model.Point{X: 0, Y: 0}) {
		t.Error("a two-point polygon contains nothing")
	}
}
