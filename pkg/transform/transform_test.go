package transform

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/scatter/pkg/geom"
)

func near(a, b geom.Vec3) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestPercentToAbsolute(t *testing.T) {
	origin := geom.Point{X: 5, Y: -2}
	tests := []struct {
		name string
		rel  geom.Vec3
		want geom.Vec3
	}{
		{"center", geom.V3(50, 50, 0.7), geom.V3(5, -2, 0.7)},
		{"min corner", geom.V3(0, 0, 0), geom.V3(1, -5, 0)},
		{"max corner", geom.V3(100, 100, 1), geom.V3(9, 1, 1)},
		{"quarter", geom.V3(25, 75, 2), geom.V3(3, -0.5, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentToAbsolute(tt.rel, origin, 4, 3)
			if !near(got, tt.want) {
				t.Errorf("PercentToAbsolute(%v) = %v, want %v", tt.rel, got, tt.want)
			}
			if back := AbsoluteToPercent(got, origin, 4, 3); !near(back, tt.rel) {
				t.Errorf("AbsoluteToPercent round trip = %v, want %v", back, tt.rel)
			}
		})
	}
}

func TestRemapToArea(t *testing.T) {
	ref := geom.NewRect(-10, -10, 10, 10)
	area := geom.NewRect(0, 0, 10, 5)

	tests := []struct {
		in, want geom.Vec3
	}{
		{geom.V3(-10, -10, 1), geom.V3(0, 0, 1)},
		{geom.V3(10, 10, 1), geom.V3(10, 5, 1)},
		{geom.V3(0, 0, 0), geom.V3(5, 2.5, 0)},
	}
	for _, tt := range tests {
		if got := RemapToArea(tt.in, ref, area); !near(got, tt.want) {
			t.Errorf("RemapToArea(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRemapInvertible(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	ref := geom.NewRect(-12.5, -8, 12.5, 8)
	areas := []geom.Rect{
		geom.NewRect(-12.5, -8, 0, 0),
		geom.NewRect(3.1, -1.7, 12.5, 8),
		geom.NewRect(-0.001, -0.001, 0.001, 0.001),
	}
	for _, area := range areas {
		for i := 0; i < 200; i++ {
			p := geom.V3(
				ref.Min.X+rng.Float64()*ref.Width(),
				ref.Min.Y+rng.Float64()*ref.Height(),
				rng.Float64(),
			)
			mapped := RemapToArea(p, ref, area)
			if !area.Contains(mapped.XY()) {
				t.Fatalf("mapped point %v outside area %v", mapped, area)
			}
			back := RemapFromArea(mapped, ref, area)
			if math.Abs(back.X-p.X) > 1e-6 || math.Abs(back.Y-p.Y) > 1e-6 || back.Z != p.Z {
				t.Fatalf("round trip %v -> %v -> %v", p, mapped, back)
			}
		}
	}
}
