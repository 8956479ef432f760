// Package sink provides output format renderers for prepared charts.
//
// # Overview
//
// A "sink" transforms prepared [graph.Layout] values into a final output
// format. This package provides renderers for:
//
//   - SVG: one chart, or a whole document stacked vertically
//   - HTML: a standalone page embedding one SVG per chart
//   - JSON: the prepared layouts, for external renderers
//   - DOT: a Graphviz graph with pinned node positions
//
// # SVG Output
//
// [RenderSVG] draws the chart grid, edges, nodes and labels. Every node and
// edge carries its alias classes and inline style, and the chart style sheet
// is embedded, so the output is themeable by editing the color custom
// properties under :root.
//
//	svg := sink.RenderSVG(layout, sink.WithoutGrid())
//
// # SVG Options
//
//   - [WithoutGrid]: omit grid lines
//   - [WithoutLabels]: omit node and edge labels
//
// # DOT Output
//
// [ToDOT] emits nodes with neato pin positions so Graphviz keeps the
// computed geometry; [RenderDOTSVG] renders that graph through Graphviz.
//
// [graph.Layout]: github.com/matzehuels/seqsee/pkg/graph.Layout
package sink
