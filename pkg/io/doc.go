// Package io reads chart documents from disk and writes rendered artifacts.
//
// # Input Formats
//
// Chart documents are accepted as JSON, YAML or TOML. The format is chosen
// from the file extension (see [DetectFormat]); YAML and TOML are converted
// to JSON and then decoded by [chart.DecodeCollection], so every format
// accepts exactly the same fields:
//
//	# chart.yaml
//	header:
//	  metadata:
//	    title: E2 page
//	nodes:
//	  a: {x: 0, y: 0}
//	  b: {x: 1, y: 1}
//	edges:
//	  - {source: a, target: b}
//
// YAML and TOML object members are reordered alphabetically during the
// conversion. Use JSON when alias or style declaration order matters. TOML
// has no null value, so a vertical node slope is written as "vertical".
//
// # Collections
//
// A collection document lists charts inline or by relative path:
//
//	{"charts": [{"nodes": {}}, "pages/e3.json"]}
//
// [ImportDocument] loads path entries relative to the collection file after
// checking them with [errors.ValidatePath]. An entry that cannot be decoded
// or loaded keeps its error in [chart.ChartRef] and the other charts stay
// usable. [ParseDocument] works on bytes alone and refuses path entries,
// which is what the HTTP server needs.
//
// # Output
//
// [WriteArtifacts] writes the byte artifacts produced by the render
// pipeline, one file per format, next to a common base name. The json format
// is written as a .layout.json file, which [IsLayoutPath] recognizes and
// [ReadLayoutFile] reads back for rendering.
//
// [chart.DecodeCollection]: github.com/matzehuels/seqsee/pkg/chart.DecodeCollection
// [chart.ChartRef]: github.com/matzehuels/seqsee/pkg/chart.ChartRef
// [errors.ValidatePath]: github.com/matzehuels/seqsee/pkg/errors.ValidatePath
package io
