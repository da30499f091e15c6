package chart

import (
	"math"
	"strconv"
)

const (
	maxFixedLen = 10
	// "-1.23457e-308"
	maxLabelLen = 13
)

// niceTicks returns evenly spaced round values covering [lo, hi] using at
// most roughly maxTicks entries. A degenerate range is widened around its
// value so a single point still gets an axis.
func niceTicks(lo, hi float64, maxTicks int) []float64 {
	if maxTicks < 2 {
		maxTicks = 2
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		pad := math.Abs(lo) * 0.1
		if pad == 0 {
			pad = 1
		}
		lo = math.Max(lo-pad, -math.MaxFloat64)
		hi = math.Min(hi+pad, math.MaxFloat64)
	}

	// the bounds themselves when the range cannot be subdivided in float64
	bounds := []float64{lo, hi}
	if !isFinite(hi - lo) {
		return bounds
	}

	span := niceNum(hi-lo, false)
	step := niceNum(span/float64(maxTicks-1), true)
	start := math.Floor(lo/step) * step
	end := math.Ceil(hi/step) * step
	count := (end - start) / step
	if !isFinite(step) || step <= 0 || !isFinite(start) || !isFinite(end) || !isFinite(count) || count < 1 || count > float64(4*maxTicks) {
		return bounds
	}
	n := int(math.Round(count))

	digits := decimals(step)
	ticks := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		v := start + float64(i)*step
		v, _ = strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
		if v == 0 {
			v = 0
		}
		ticks = append(ticks, v)
	}
	return ticks
}

// niceNum picks 1, 2, 5 or 10 times a power of ten close to x.
func niceNum(x float64, round bool) float64 {
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)

	var nf float64
	if round {
		switch {
		case f < 1.5:
			nf = 1
		case f < 3:
			nf = 2
		case f < 7:
			nf = 5
		default:
			nf = 10
		}
	} else {
		switch {
		case f <= 1:
			nf = 1
		case f <= 2:
			nf = 2
		case f <= 5:
			nf = 5
		default:
			nf = 10
		}
	}
	return nf * math.Pow(10, exp)
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func decimals(step float64) int {
	if !isFinite(step) || step <= 0 {
		return 0
	}
	d := int(math.Ceil(-math.Log10(step) - 1e-9))
	if d < 0 {
		return 0
	}
	return d
}

func tickStep(ticks []float64) float64 {
	if len(ticks) < 2 {
		return 1
	}
	return ticks[1] - ticks[0]
}

// formatTick prints v with digits decimals, switching to exponent form when
// that would be longer than maxFixedLen. Labels are at most maxLabelLen long.
func formatTick(v float64, digits int) string {
	if v == 0 {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', digits, 64)
	if len(s) > maxFixedLen {
		s = strconv.FormatFloat(v, 'g', 6, 64)
	}
	return s
}
