package sink

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/matzehuels/seqsee/pkg/graph"
)

//go:embed page.html.tmpl
var pageTemplate string

var page = template.Must(template.New("page").Parse(pageTemplate))

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	svgOpts []SVGOption
}

// WithHTMLSVGOptions passes SVG options to every embedded chart.
func WithHTMLSVGOptions(opts ...SVGOption) HTMLOption {
	return func(r *htmlRenderer) { r.svgOpts = append(r.svgOpts, opts...) }
}

type pageData struct {
	Title  string
	Charts []pageChart
}

type pageChart struct {
	ID      string
	Caption string
	SVG     template.HTML
}

// RenderHTML renders doc as a standalone HTML page with one inline SVG per
// chart.
func RenderHTML(doc graph.Document, opts ...HTMLOption) ([]byte, error) {
	var r htmlRenderer
	for _, opt := range opts {
		opt(&r)
	}

	data := pageData{Title: doc.Title}
	for i := range doc.Charts {
		l := doc.Charts[i]
		data.Charts = append(data.Charts, pageChart{
			ID:      fmt.Sprintf("chart-%d", i),
			Caption: chartTitle(&l),
			// The SVG writer escapes every user-supplied string.
			SVG: template.HTML(RenderSVG(l, r.svgOpts...)),
		})
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}
