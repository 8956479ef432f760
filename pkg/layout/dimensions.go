package layout

import (
	"github.com/matzehuels/seqsee/pkg/chart"
)

// defaultCoord is the reference coordinate used when a chart has no nodes.
const defaultCoord = 0

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// evenFloor returns the greatest even integer <= v.
func evenFloor(v int) int { return 2 * floorDiv(v, 2) }

// evenCeil returns the least even integer >= v.
func evenCeil(v int) int { return -evenFloor(-v) }

// RoundDeclared rounds the declared bounds of r outward to even values. Unset
// bounds stay unset.
func RoundDeclared(r chart.DimensionRange) chart.DimensionRange {
	out := r.Clone()
	if out.Min != nil {
		*out.Min = evenFloor(*out.Min)
	}
	if out.Max != nil {
		*out.Max = evenCeil(*out.Max)
	}
	return out
}

// Fill completes r from the given node coordinates and rounds declared
// bounds outward to even values. The result is always fully resolved. A
// filled bound never crosses a declared one: it lies at least one even step
// beyond it.
func Fill(r chart.DimensionRange, coords []int) chart.DimensionRange {
	out := RoundDeclared(r)
	declaredMin, declaredMax := out.Min != nil, out.Max != nil
	lo, hi := defaultCoord, defaultCoord
	for i, c := range coords {
		if i == 0 || c < lo {
			lo = c
		}
		if i == 0 || c > hi {
			hi = c
		}
	}
	if out.Min == nil {
		v := 2 * (floorDiv(lo, 2) - 1)
		out.Min = &v
	}
	if out.Max == nil {
		v := 2 * (floorDiv(hi, 2) + 1)
		out.Max = &v
	}
	switch {
	case declaredMin && !declaredMax && *out.Max <= *out.Min:
		*out.Max = *out.Min + 2
	case declaredMax && !declaredMin && *out.Min >= *out.Max:
		*out.Min = *out.Max - 2
	}
	return out
}

// RoundDeclaredDimensions rounds both declared ranges of c in place.
func RoundDeclaredDimensions(c *chart.Chart) {
	c.Header.Config.Width = RoundDeclared(c.Header.Config.Width)
	c.Header.Config.Height = RoundDeclared(c.Header.Config.Height)
}

// FillDimensions resolves missing width and height bounds of c in place from
// its current nodes.
func FillDimensions(c *chart.Chart) {
	xs := make([]int, 0, c.Nodes.Len())
	ys := make([]int, 0, c.Nodes.Len())
	for p := c.Nodes.Oldest(); p != nil; p = p.Next() {
		xs = append(xs, p.Value.X)
		ys = append(ys, p.Value.Y)
	}
	c.Header.Config.Width = Fill(c.Header.Config.Width, xs)
	c.Header.Config.Height = Fill(c.Header.Config.Height, ys)
}

// ResolveDimensions rounds declared bounds and fills missing ones. It is
// RoundDeclaredDimensions followed by FillDimensions.
func ResolveDimensions(c *chart.Chart) {
	RoundDeclaredDimensions(c)
	FillDimensions(c)
}
