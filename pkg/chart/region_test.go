package chart

import (
	"math"
	"testing"

	"github.com/plotforge/barchart/pkg/errors"
)

func TestPartition(t *testing.T) {
	regions, err := Partition(800, 600)
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}

	pad := BorderWidth + BorderGap
	display := regions.Display
	if display.X != pad || display.Y != pad {
		t.Errorf("display origin = (%g, %g), want (%g, %g)", display.X, display.Y, pad, pad)
	}
	if display.W != 800-2*pad || display.H != 600-2*pad {
		t.Errorf("display size = %gx%g, want %gx%g", display.W, display.H, 800-2*pad, 600-2*pad)
	}

	const tolerance = 1e-9
	if got, want := regions.Plot.W, display.W*0.9; math.Abs(got-want) > tolerance {
		t.Errorf("plot width = %g, want %g (90%% of display)", got, want)
	}
	if got, want := regions.Plot.H, display.H*0.8; math.Abs(got-want) > tolerance {
		t.Errorf("plot height = %g, want %g (80%% of display)", got, want)
	}

	// The plot is centered on both axes.
	if got, want := regions.Plot.X-display.X, display.Right()-regions.Plot.Right(); math.Abs(got-want) > tolerance {
		t.Errorf("horizontal margins %g and %g differ", got, want)
	}
	if got, want := regions.Plot.Y-display.Y, display.Bottom()-regions.Plot.Bottom(); math.Abs(got-want) > tolerance {
		t.Errorf("vertical margins %g and %g differ", got, want)
	}
}

func TestPartitionRegionsTileDisplay(t *testing.T) {
	regions, err := Partition(640, 480)
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}

	parts := map[string]Rect{
		"top":    regions.Top,
		"bottom": regions.Bottom,
		"left":   regions.Left,
		"right":  regions.Right,
		"plot":   regions.Plot,
	}

	var area float64
	for name, r := range parts {
		area += r.W * r.H
		if r.X < regions.Display.X || r.Y < regions.Display.Y ||
			r.Right() > regions.Display.Right()+1e-9 || r.Bottom() > regions.Display.Bottom()+1e-9 {
			t.Errorf("region %s %+v escapes display %+v", name, r, regions.Display)
		}
	}
	if want := regions.Display.W * regions.Display.H; math.Abs(area-want) > 1e-6 {
		t.Errorf("region areas sum to %g, display area is %g", area, want)
	}

	names := []string{"top", "bottom", "left", "right", "plot"}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if parts[names[i]].Overlaps(parts[names[j]]) {
				t.Errorf("regions %s and %s overlap", names[i], names[j])
			}
		}
	}
}

func TestPartitionDegenerate(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
	}{
		{"zero width", 0, 600},
		{"zero height", 800, 0},
		{"negative width", -100, 600},
		{"width at padding limit", 8, 600},
		{"height at padding limit", 800, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(tt.width, tt.height)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, errors.ErrCodeDegenerateSurface) {
				t.Errorf("error code = %q, want DEGENERATE_SURFACE", errors.GetCode(err))
			}
		})
	}
}
