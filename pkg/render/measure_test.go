package render

import (
	"testing"

	"github.com/plotforge/barchart/pkg/chart"
)

func TestMeasurer(t *testing.T) {
	m, err := NewMeasurer()
	if err != nil {
		t.Fatalf("NewMeasurer returned error: %v", err)
	}

	spec := chart.FontSpec{Size: 12}
	short := m.Measure("10", spec)
	long := m.Measure("1000", spec)

	if short <= 0 {
		t.Errorf("Measure(%q) = %g, want > 0", "10", short)
	}
	if long <= short {
		t.Errorf("Measure(%q) = %g not wider than Measure(%q) = %g", "1000", long, "10", short)
	}
	if m.Measure("", spec) != 0 {
		t.Errorf("Measure of empty string = %g, want 0", m.Measure("", spec))
	}
}

func TestMeasurerScalesWithFontSize(t *testing.T) {
	m, err := NewMeasurer()
	if err != nil {
		t.Fatal(err)
	}

	small := m.Measure("label", chart.FontSpec{Size: 10})
	big := m.Measure("label", chart.FontSpec{Size: 20})
	if big <= small {
		t.Errorf("width at size 20 (%g) not greater than at size 10 (%g)", big, small)
	}
}

func TestMeasurerStyles(t *testing.T) {
	m, err := NewMeasurer()
	if err != nil {
		t.Fatal(err)
	}

	for _, style := range []chart.FontStyle{chart.FontRegular, chart.FontBold, chart.FontItalic} {
		if w := m.Measure("text", chart.FontSpec{Size: 14, Style: style}); w <= 0 {
			t.Errorf("Measure with style %q = %g, want > 0", style, w)
		}
	}
}

func TestMeasurerDeterministic(t *testing.T) {
	m, err := NewMeasurer()
	if err != nil {
		t.Fatal(err)
	}

	spec := chart.FontSpec{Size: 12.5, Style: chart.FontBold}
	first := m.Measure("repeat", spec)
	for i := 0; i < 10; i++ {
		if got := m.Measure("repeat", spec); got != first {
			t.Fatalf("Measure varied between calls: %g vs %g", got, first)
		}
	}
}
