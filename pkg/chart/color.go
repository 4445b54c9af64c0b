package chart

import "math"

// goldenRatioConjugate is the hue step between consecutive bars. Stepping
// the hue by 1/φ keeps any number of consecutive colors maximally separated
// without knowing the count in advance.
const goldenRatioConjugate = 0.618033988749895

// Fixed saturation and value for bar fills. Value stays below 1.0 so the
// truncating channel conversion below can never overflow.
const (
	barSaturation = 0.5
	barValue      = 0.95
)

// NextColors produces n visually separated colors starting from the given
// hue seed. The walk is deterministic: the same seed and count always yield
// the same sequence, and the sequencer keeps no state between calls — hosts
// vary the seed themselves when they want a different rotation start.
func NextColors(seed float64, n int) []RGB {
	colors := make([]RGB, 0, n)
	hue := seed
	for i := 0; i < n; i++ {
		hue = math.Mod(hue+goldenRatioConjugate, 1.0)
		if hue < 0 {
			hue++
		}
		colors = append(colors, hsvToRGB(hue, barSaturation, barValue))
	}
	return colors
}

// hsvToRGB converts an HSV triple (h in [0,1)) to 8-bit RGB. The sector is
// floor(h*6) mod 6 and each channel fraction is truncated via *256, not
// rounded via *255. Rendered palettes depend on this exact conversion, so
// it is not interchangeable with library conversions.
func hsvToRGB(h, s, v float64) RGB {
	sector := math.Floor(h * 6)
	f := h*6 - sector
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(sector) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}

	return RGB{
		R: uint8(int(r * 256)),
		G: uint8(int(g * 256)),
		B: uint8(int(b * 256)),
	}
}
