// Package graph provides the serialization types for prepared chart layouts.
//
// This package defines the wire format produced by the prepare pipeline and
// consumed by the sinks (SVG, HTML, DOT), the JSON output, the artifact
// caches and the HTTP API.
//
// # Core Types
//
//   - [Layout]: one prepared chart: resolved bounds, scale, positioned nodes,
//     edges with absolute endpoints, inline styles, classes and the style sheet
//   - [Document]: an ordered list of layouts with a page title
//   - [Node], [Edge], [Point], [Bounds]: shared structural types
//
// # Coordinates
//
// All coordinates are in chart units with y pointing up. [Layout.ToPixel]
// maps them to SVG pixel space, where the origin is the top-left corner of
// the resolved bounds and y points down.
//
// # Serialization
//
//	data, _ := graph.MarshalLayout(l)        // Layout → []byte
//	l, _ := graph.UnmarshalLayout(data)      // []byte → Layout
//	data, _ = graph.MarshalDocument(doc)     // Document → []byte
//	doc, _ = graph.UnmarshalDocument(data)   // []byte → Document
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
