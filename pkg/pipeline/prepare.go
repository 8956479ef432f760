package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/seqsee/pkg/attr"
	"github.com/matzehuels/seqsee/pkg/chart"
	"github.com/matzehuels/seqsee/pkg/errors"
	"github.com/matzehuels/seqsee/pkg/graph"
	"github.com/matzehuels/seqsee/pkg/layout"
)

// =============================================================================
// Prepare
// =============================================================================

// Prepare validates a chart and computes its layout: node positions, edge
// endpoints, per-element styles and the chart style sheet. The input chart is
// not modified.
//
// The stages run in a fixed order: round declared bounds, trim against the
// declared bounds, fill missing bounds from the surviving nodes, compute
// absolute positions, bind edges, resolve styles and build the style sheet.
func Prepare(c *chart.Chart) (*graph.Layout, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	work := c.Clone()
	layout.RoundDeclaredDimensions(work)
	work.Trim()
	layout.FillDimensions(work)
	positions := layout.AbsolutePositions(work)

	bound, err := work.BindEdges()
	if err != nil {
		return nil, err
	}

	cfg := work.Header.Config
	aliases := attr.MergeWithDefaults(work.Header.Aliases.Attributes)
	ctx := attr.NewContext(work.Header)
	known := attr.NewExpander(aliases, ctx)

	l := &graph.Layout{
		Title:        work.Header.Metadata.Title,
		DisplayTitle: work.Header.Metadata.DisplayTitle,
		Width:        graph.Bounds{Min: *cfg.Width.Min, Max: *cfg.Width.Max},
		Height:       graph.Bounds{Min: *cfg.Height.Min, Max: *cfg.Height.Max},
		Scale:        cfg.Scale,
		NodeSize:     cfg.NodeSize,
		Nodes:        make([]graph.Node, 0, work.Nodes.Len()),
		Edges:        make([]graph.Edge, 0, len(bound)),
	}

	for p := work.Nodes.Oldest(); p != nil; p = p.Next() {
		id, n := p.Key, p.Value
		s, classes, err := attr.Resolve(n.Attributes, ctx)
		if err != nil {
			return nil, errors.New(errors.GetCode(err), "node %q: %s", id, errors.UserMessage(err))
		}
		for _, cls := range classes {
			if !known.Has(cls) {
				l.Warnings = append(l.Warnings, fmt.Sprintf("node %q: unknown alias %q", id, cls))
			}
		}
		pos := positions[id]
		l.Nodes = append(l.Nodes, graph.Node{
			ID:      id,
			Label:   n.Label,
			X:       pos.X,
			Y:       pos.Y,
			Style:   s.Inline(),
			Classes: append([]string{graph.ClassNode}, classes...),
		})
	}

	for _, b := range bound {
		e, err := bindEdge(b, positions, ctx, cfg.Scale)
		if err != nil {
			return nil, err
		}
		for _, cls := range e.Classes[1:] {
			if !known.Has(cls) {
				l.Warnings = append(l.Warnings, fmt.Sprintf("edge %d: unknown alias %q", b.Index, cls))
			}
		}
		l.Edges = append(l.Edges, e)
	}

	sheet, err := attr.BuildStyleSheet(work.Header, aliases, ctx)
	if err != nil {
		return nil, err
	}
	l.CSS = sheet.CSS()
	return l, nil
}

// bindEdge computes the absolute geometry and style of one edge. Offset
// edges end at the source position plus the offset. Bezier control points
// are pixel offsets, y pointing down, relative to the source (first) and
// target (second) endpoint; they are converted to chart units here.
func bindEdge(b chart.BoundEdge, positions layout.Positions, ctx attr.Context, scale float64) (graph.Edge, error) {
	e := b.Edge
	s, classes, err := attr.Resolve(e.Attributes, ctx)
	if err != nil {
		return graph.Edge{}, errors.New(errors.GetCode(err), "edge %d: %s", b.Index, errors.UserMessage(err))
	}

	from := toGraphPoint(positions[b.SourceID])
	var to graph.Point
	if b.Target != nil {
		to = toGraphPoint(positions[b.TargetID])
	} else {
		to = from.Add(toGraphPoint(*e.Offset))
	}

	out := graph.Edge{
		Index:   b.Index,
		Source:  b.SourceID,
		Target:  b.TargetID,
		From:    from,
		To:      to,
		Label:   e.Label,
		Style:   s.Inline(),
		Classes: append([]string{graph.ClassEdge}, classes...),
	}
	switch len(e.Bezier) {
	case 1:
		out.Bezier = []graph.Point{from.Add(pixelOffset(e.Bezier[0], scale))}
	case 2:
		out.Bezier = []graph.Point{
			from.Add(pixelOffset(e.Bezier[0], scale)),
			to.Add(pixelOffset(e.Bezier[1], scale)),
		}
	}
	return out, nil
}

func toGraphPoint(p chart.Point) graph.Point {
	return graph.Point{X: p.X, Y: p.Y}
}

// pixelOffset converts a pixel offset to chart units.
func pixelOffset(p chart.Point, scale float64) graph.Point {
	return graph.Point{X: p.X / scale, Y: -p.Y / scale}
}

// =============================================================================
// Batch
// =============================================================================

// PrepareFunc prepares a single chart. [Prepare] is the plain implementation;
// [Runner.Prepare] adds caching and hooks.
type PrepareFunc func(ctx context.Context, index int, c *chart.Chart) (*graph.Layout, bool, error)

func preparePlain(_ context.Context, _ int, c *chart.Chart) (*graph.Layout, bool, error) {
	l, err := Prepare(c)
	return l, false, err
}

// PrepareAll prepares charts concurrently with at most workers in flight.
// Every chart gets a result; a failing chart does not stop the others.
// Cancelling ctx marks the charts not yet started as failed.
func PrepareAll(ctx context.Context, charts []*chart.Chart, workers int, prepare PrepareFunc) []ChartResult {
	if prepare == nil {
		prepare = preparePlain
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]ChartResult, len(charts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range charts {
		results[i] = ChartResult{Index: i, Name: ChartName(c, i)}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			l, hit, err := prepare(gctx, i, c)
			results[i].Layout, results[i].CacheHit, results[i].Err = l, hit, err
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// PrepareCollection prepares every chart of coll with [PrepareAll]. Entries
// that failed to decode or load get a failed result at their own position,
// so results line up with coll.Charts.
func PrepareCollection(ctx context.Context, coll *chart.Collection, workers int, prepare PrepareFunc) ([]ChartResult, error) {
	charts, index, err := coll.Loaded()
	if err != nil {
		return nil, err
	}
	if prepare == nil {
		prepare = preparePlain
	}
	prepared := PrepareAll(ctx, charts, workers, func(ctx context.Context, i int, c *chart.Chart) (*graph.Layout, bool, error) {
		return prepare(ctx, index[i], c)
	})

	results := make([]ChartResult, len(coll.Charts))
	for i, ref := range coll.Charts {
		if ref.Err != nil {
			results[i] = ChartResult{Index: i, Name: ChartName(nil, i), Err: ref.Err}
		}
	}
	for j, r := range prepared {
		r.Index = index[j]
		r.Name = ChartName(charts[j], r.Index)
		results[r.Index] = r
	}
	return results, nil
}

// ChartName returns a display name for a chart: its title, or its position
// in the collection.
func ChartName(c *chart.Chart, index int) string {
	if c != nil {
		if t := c.Header.Metadata.Title; t != "" {
			return t
		}
	}
	return fmt.Sprintf("chart %d", index)
}
