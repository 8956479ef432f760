// Package chart defines the validated data model for bidegree charts.
//
// A chart is a header (metadata, layout configuration and style aliases), a
// set of named nodes placed on integer grid coordinates and an ordered list of
// edges. Edges are either structural (they connect two nodes) or offset edges
// that end at a point relative to their source.
//
// # Decoding
//
// [Decode] parses a JSON chart document, filling defaults and rejecting
// unknown fields. Node, alias and color declarations keep their document
// order so that emitted CSS and drawing order are deterministic:
//
//	c, err := chart.Decode(data)
//	if err != nil {
//	    return err // SCHEMA_VIOLATION naming the offending field
//	}
//	if err := c.Validate(); err != nil {
//	    return err
//	}
//
// [DecodeCollection] accepts either a single chart or a collection document
// of the form {"header": ..., "charts": [chart | "relative/path.json"]}.
//
// # Structural Passes
//
//   - [Chart.Trim]: drop nodes outside declared bounds and the edges that
//     depended on them
//   - [Chart.BindEdges]: resolve edge endpoints to concrete nodes
//
// Bounds resolution and absolute positions live in pkg/layout.
package chart
