package predict

import (
	"math"
	"strconv"
	"strings"
)

// ParseInput converts the raw field text into the value to submit.
// Surrounding whitespace is ignored. NaN and infinities are rejected since
// they cannot be sent as JSON numbers.
func ParseInput(text string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrInvalidInput
	}
	return value, nil
}

// Step adds delta to the numeric value of text and clamps the result to
// [min, max]. Unparseable text steps from min. The result is rounded to the
// precision of delta so repeated steps do not accumulate float noise.
func Step(text string, delta, min, max float64) string {
	value, err := ParseInput(text)
	if err != nil {
		value = min
	} else {
		value += delta
	}
	value = math.Max(min, math.Min(max, value))

	decimals := 0
	if d := math.Abs(delta); d > 0 && d < 1 {
		decimals = int(math.Ceil(-math.Log10(d) - 1e-9))
	}
	return strconv.FormatFloat(value, 'f', decimals, 64)
}
