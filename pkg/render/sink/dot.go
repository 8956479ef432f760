package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/seqsee/pkg/graph"
)

const pointsPerInch = 72.0

// DOTOption configures DOT generation via [ToDOT].
type DOTOption func(*dotRenderer)

type dotRenderer struct {
	labels bool
}

// WithoutDOTLabels omits node and edge labels.
func WithoutDOTLabels() DOTOption { return func(r *dotRenderer) { r.labels = false } }

// ToDOT converts the charts of doc to a Graphviz digraph. Each chart becomes
// a cluster; node positions are pinned in points so the neato engine keeps
// the computed layout. Offset edges end at an invisible point node.
func ToDOT(doc graph.Document, opts ...DOTOption) string {
	r := dotRenderer{labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph seqsee {\n")
	buf.WriteString("  graph [layout=neato, inputscale=72, splines=true, bgcolor=\"transparent\"];\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, label=\"\", fontsize=10];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	if doc.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", doc.Title)
	}

	yOffset := 0.0
	for i := range doc.Charts {
		l := &doc.Charts[i]
		r.writeChart(&buf, i, l, yOffset)
		yOffset += l.PixelHeight() + chartGap
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (r dotRenderer) writeChart(buf *bytes.Buffer, index int, l *graph.Layout, yOffset float64) {
	fmt.Fprintf(buf, "\n  subgraph cluster_%d {\n", index)
	if t := chartTitle(l); t != "" && r.labels {
		fmt.Fprintf(buf, "    label=%q;\n", t)
	}

	// Graphviz puts the origin at the bottom left; charts stack downwards.
	pos := func(p graph.Point) string {
		x, y := l.ToPixel(p)
		return fmt.Sprintf("%s,%s!", num(x), num(-(y + yOffset)))
	}
	size := num(2 * l.NodeSize * l.Scale / pointsPerInch)

	for i := range l.Nodes {
		n := &l.Nodes[i]
		attrs := []string{
			fmt.Sprintf("pos=%q", pos(n.Point())),
			fmt.Sprintf("width=%s", size),
		}
		if c := DeclaredColor(n.Style, "fill"); c != "" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c), fmt.Sprintf("color=%q", c))
		}
		if r.labels && n.Label != "" {
			attrs = append(attrs, fmt.Sprintf("xlabel=%q", n.Label))
		}
		fmt.Fprintf(buf, "    %q [%s];\n", dotNodeID(index, n.ID), strings.Join(attrs, ", "))
	}

	for i := range l.Edges {
		e := &l.Edges[i]
		target := dotNodeID(index, e.Target)
		if e.IsOffset() {
			target = fmt.Sprintf("%d:edge:%d", index, e.Index)
			fmt.Fprintf(buf, "    %q [shape=point, style=invis, width=0, pos=%q];\n", target, pos(e.To))
		}

		var attrs []string
		if c := DeclaredColor(e.Style, "stroke"); c != "" {
			attrs = append(attrs, fmt.Sprintf("color=%q", c))
		}
		if strings.Contains(e.Style, "marker-end: url(") {
			attrs = append(attrs, "arrowhead=normal")
		}
		if strings.Contains(e.Style, "stroke-dasharray: 5,5") {
			attrs = append(attrs, "style=dashed")
		} else if strings.Contains(e.Style, "stroke-dasharray: 0,2") {
			attrs = append(attrs, "style=dotted")
		}
		if r.labels && e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
		}

		fmt.Fprintf(buf, "    %q -> %q", dotNodeID(index, e.Source), target)
		if len(attrs) > 0 {
			fmt.Fprintf(buf, " [%s]", strings.Join(attrs, ", "))
		}
		buf.WriteString(";\n")
	}
	buf.WriteString("  }\n")
}

func dotNodeID(chart int, id string) string {
	return fmt.Sprintf("%d:%s", chart, id)
}

// DeclaredColor returns the literal value of prop in an inline style, or ""
// when it is unset or refers to a custom property Graphviz cannot resolve.
func DeclaredColor(style, prop string) string {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok || strings.TrimSpace(k) != prop {
			continue
		}
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "var(") {
			return ""
		}
		return v
	}
	return ""
}

// RenderDOTSVG renders a DOT graph produced by [ToDOT] to SVG using the
// Graphviz neato engine, which honors the pinned node positions.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
