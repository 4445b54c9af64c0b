package chart

// Scale is the vertical axis scale: the rounded-up ceiling value and the
// tick increment.
type Scale struct {
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// ScaleFor derives the axis scale from the highest accumulated total.
//
// The thresholds are fixed policy:
//
//	max < 10          → {10, 1}
//	10 <= max < 100   → next multiple of 10, step 10
//	100 <= max < 500  → next multiple of 50, step 50
//	max >= 500        → {1000, 100}
//
// "Next multiple" is computed as val + N - val%N, which moves strictly past
// the input even when it is already an exact multiple: ScaleFor(10) is
// {20, 10}, not {10, 10}. Rendered output depends on this, so it stays.
//
// The 1000 ceiling is likewise a known, observable limitation: totals above
// 1000 overflow the rendered axis rather than rescaling it.
func ScaleFor(maxValue uint32) Scale {
	val := float64(maxValue)
	if val < 10 {
		return Scale{Max: 10, Step: 1}
	}
	if val < 100 {
		return Scale{Max: val + 10 - mod(val, 10), Step: 10}
	}
	if val < 500 {
		return Scale{Max: val + 50 - mod(val, 50), Step: 50}
	}
	return Scale{Max: 1000, Step: 100}
}

// mod is integer remainder on values known to be whole numbers.
func mod(val, n float64) float64 {
	return float64(int64(val) % int64(n))
}
