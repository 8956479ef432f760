// Package pkg provides the core libraries for seqsee chart rendering.
//
// # Overview
//
// seqsee turns declarative bidegree charts, the grids of dots and arrows
// used to draw spectral sequences, into positioned and styled output. The
// pkg directory is organized into these areas:
//
//  1. [chart] - The chart document model: decoding, defaults, validation
//  2. [style], [attr] - Style sets and the attribute resolver
//  3. [layout] - Bounds resolution and absolute node placement
//  4. [pipeline] - Orchestration (prepare → render, cached)
//  5. [graph] - Serialization types for prepared layouts
//  6. [render] - Output sinks (SVG, HTML, JSON, DOT)
//  7. [io], [cache], [errors], [observability], [buildinfo] - Supporting
//     infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	JSON / YAML / TOML document
//	         ↓
//	    [io] package (parse, resolve chart references)
//	         ↓
//	    [chart] package (decode, trim, bind edges, validate)
//	         ↓
//	    [layout] + [attr] packages (positions, styles)
//	         ↓
//	    [render/sink] package
//	         ↓
//	    HTML/SVG/JSON/DOT output
//
// # Quick Start
//
//	coll, err := io.ImportDocument("adams.json")
//	if err != nil {
//	    return err
//	}
//	layout, err := pipeline.Prepare(coll.Charts[0].Chart)
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(*layout)
//
// For cached batch rendering use [pipeline.Runner], which prepares every
// chart of a collection in parallel and reports failures per chart.
//
// [chart]: github.com/matzehuels/seqsee/pkg/chart
// [style]: github.com/matzehuels/seqsee/pkg/style
// [attr]: github.com/matzehuels/seqsee/pkg/attr
// [layout]: github.com/matzehuels/seqsee/pkg/layout
// [pipeline]: github.com/matzehuels/seqsee/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/seqsee/pkg/pipeline.Runner
// [graph]: github.com/matzehuels/seqsee/pkg/graph
// [render]: github.com/matzehuels/seqsee/pkg/render
// [render/sink]: github.com/matzehuels/seqsee/pkg/render/sink
// [io]: github.com/matzehuels/seqsee/pkg/io
// [cache]: github.com/matzehuels/seqsee/pkg/cache
// [errors]: github.com/matzehuels/seqsee/pkg/errors
// [observability]: github.com/matzehuels/seqsee/pkg/observability
// [buildinfo]: github.com/matzehuels/seqsee/pkg/buildinfo
package pkg
