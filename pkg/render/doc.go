// Package render groups the output renderers for prepared charts.
//
// The renderers live in the [sink] subpackage. Each consumes a
// [graph.Document] produced by the prepare pipeline:
//
//   - SVG: grid, edges, nodes and labels with the chart style sheet embedded
//   - HTML: a standalone page with one SVG per chart
//   - JSON: the prepared layouts themselves
//   - DOT: a Graphviz graph with pinned positions, optionally rendered to SVG
//
// Most callers go through [pipeline.Render] rather than calling sinks
// directly.
//
// [sink]: github.com/matzehuels/seqsee/pkg/render/sink
// [graph.Document]: github.com/matzehuels/seqsee/pkg/graph.Document
// [pipeline.Render]: github.com/matzehuels/seqsee/pkg/pipeline.Render
package render
