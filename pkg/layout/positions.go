package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/seqsee/pkg/chart"
)

// Positions maps node ids to absolute coordinates in chart units.
type Positions map[string]chart.Point

// Distance returns the center-to-center distance between nodes sharing a
// bidegree.
func Distance(cfg chart.Config) float64 {
	return cfg.NodeSpacing + 2*cfg.NodeSize
}

// Angle returns the angle of the line along which same-cell nodes are spread.
func Angle(s chart.Slope) float64 {
	if s.Vertical {
		return math.Pi / 2
	}
	return math.Atan(s.Value)
}

// Offsets returns the signed distances of n evenly spaced centers from their
// common midpoint.
func Offsets(n int, d float64) []float64 {
	out := make([]float64, n)
	first := -float64(n-1) * d / 2
	for i := range out {
		out[i] = first + float64(i)*d
	}
	return out
}

// direction returns the unit vector along the slope. The vertical case is
// exact so that stacked nodes share their x coordinate.
func direction(s chart.Slope) (float64, float64) {
	if s.Vertical {
		return 0, 1
	}
	theta := Angle(s)
	return math.Cos(theta), math.Sin(theta)
}

type group struct {
	x, y int
	ids  []string
}

// Groups returns node ids grouped by bidegree, groups in order of first
// appearance and members stably sorted by position.
func Groups(c *chart.Chart) [][]string {
	var groups []*group
	index := make(map[[2]int]*group)
	for p := c.Nodes.Oldest(); p != nil; p = p.Next() {
		key := p.Value.Bidegree()
		g, ok := index[key]
		if !ok {
			g = &group{x: key[0], y: key[1]}
			index[key] = g
			groups = append(groups, g)
		}
		g.ids = append(g.ids, p.Key)
	}

	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		slices.SortStableFunc(g.ids, func(a, b string) int {
			na, _ := c.Nodes.Get(a)
			nb, _ := c.Nodes.Get(b)
			return cmp.Compare(na.Position, nb.Position)
		})
		out = append(out, g.ids)
	}
	return out
}

// AbsolutePositions computes the absolute coordinates of every node.
func AbsolutePositions(c *chart.Chart) Positions {
	cfg := c.Header.Config
	d := Distance(cfg)
	cos, sin := direction(cfg.NodeSlope)

	pos := make(Positions, c.Nodes.Len())
	for _, ids := range Groups(c) {
		for i, off := range Offsets(len(ids), d) {
			n, _ := c.Nodes.Get(ids[i])
			pos[ids[i]] = chart.Point{
				X: float64(n.X) + off*cos,
				Y: float64(n.Y) + off*sin,
			}
		}
	}
	return pos
}
