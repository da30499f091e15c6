package series

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Point is one (input, predicted value) pair produced by a successful request.
type Point struct {
	X          float64
	Prediction float64
}

// Series is the ordered set of points accumulated in the current session.
// It is kept ascending by X; equal inputs are all retained.
type Series []Point

// Add returns a new series holding s plus p, sorted ascending by X.
// A point whose X equals existing points is placed after them. s is not modified.
func (s Series) Add(p Point) Series {
	next := make(Series, len(s), len(s)+1)
	copy(next, s)
	next = append(next, p)
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].X < next[j].X
	})
	return next
}

func (s Series) Len() int {
	return len(s)
}

func (s Series) IsEmpty() bool {
	return len(s) == 0
}

// Sorted reports whether the series is ascending by X.
func (s Series) Sorted() bool {
	return sort.SliceIsSorted(s, func(i, j int) bool {
		return s[i].X < s[j].X
	})
}

func (s Series) Xs() []float64 {
	return lo.Map(s, func(p Point, _ int) float64 { return p.X })
}

func (s Series) Predictions() []float64 {
	return lo.Map(s, func(p Point, _ int) float64 { return p.Prediction })
}

// CSV renders the series as "x,prediction" rows with a header line.
func (s Series) CSV() string {
	var b strings.Builder
	b.WriteString("x,prediction\n")
	for _, p := range s {
		fmt.Fprintf(&b, "%s,%s\n", FormatValue(p.X), FormatValue(p.Prediction))
	}
	return b.String()
}

// FormatValue prints v with the shortest representation that round-trips.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
