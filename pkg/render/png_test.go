package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/plotforge/barchart/pkg/chart"
)

func TestRenderPNG(t *testing.T) {
	p := &chart.Plan{Surface: chart.Rect{W: 100, H: 80}}
	p.Ops = []chart.Op{
		chart.ClearRect{Rect: chart.Rect{W: 100, H: 80}},
		chart.SetFillColor{Color: chart.RGB{R: 121, G: 157, B: 243}},
		chart.FillRect{Rect: chart.Rect{X: 10, Y: 10, W: 30, H: 60}},
		chart.SetFont{Font: chart.FontSpec{Size: 10}},
		chart.SetFillColor{Color: chart.Black},
		chart.FillText{Text: "bar", At: chart.Point{X: 25, Y: 75}, Align: chart.AlignCenter},
	}

	data, err := RenderPNG(p)
	if err != nil {
		t.Fatalf("RenderPNG returned error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 160 {
		t.Errorf("image is %dx%d, want 200x160 (2x default scale)", bounds.Dx(), bounds.Dy())
	}

	// The bar fill shows up in the raster: sample the bar center.
	r, g, b, _ := img.At(50, 80).RGBA()
	if r>>8 != 121 || g>>8 != 157 || b>>8 != 243 {
		t.Errorf("bar center pixel = (%d, %d, %d), want (121, 157, 243)", r>>8, g>>8, b>>8)
	}
}

func TestRenderPNGScaleOption(t *testing.T) {
	p := &chart.Plan{Surface: chart.Rect{W: 50, H: 40}}
	p.Ops = []chart.Op{chart.ClearRect{Rect: chart.Rect{W: 50, H: 40}}}

	data, err := RenderPNG(p, WithScale(1.0))
	if err != nil {
		t.Fatalf("RenderPNG returned error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 40 {
		t.Errorf("image is %dx%d, want 50x40 at 1x scale", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestRenderPNGIgnoresNonPositiveScale(t *testing.T) {
	p := &chart.Plan{Surface: chart.Rect{W: 10, H: 10}}

	data, err := RenderPNG(p, WithScale(-3))
	if err != nil {
		t.Fatalf("RenderPNG returned error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("image width = %d, want 20 (default scale kept)", img.Bounds().Dx())
	}
}
