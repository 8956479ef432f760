package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/seqsee/pkg/graph"
	"github.com/matzehuels/seqsee/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, doc graph.Document, opts Options) (map[string][]byte, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatHTML:
			data, err = sink.RenderHTML(doc, sink.WithHTMLSVGOptions(svgOpts...))
		case FormatSVG:
			data = sink.RenderDocumentSVG(doc, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(doc)
		case FormatDOT:
			data = []byte(sink.ToDOT(doc, dotOptions(opts)...))
		case FormatDOTSVG:
			data, err = sink.RenderDOTSVG(ctx, sink.ToDOT(doc, dotOptions(opts)...))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.NoGrid {
		svgOpts = append(svgOpts, sink.WithoutGrid())
	}
	if opts.NoLabels {
		svgOpts = append(svgOpts, sink.WithoutLabels())
	}
	return svgOpts
}

func dotOptions(opts Options) []sink.DOTOption {
	if opts.NoLabels {
		return []sink.DOTOption{sink.WithoutDOTLabels()}
	}
	return nil
}
