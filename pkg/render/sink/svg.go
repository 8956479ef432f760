package sink

import (
	"bytes"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/seqsee/pkg/attr"
	"github.com/matzehuels/seqsee/pkg/graph"
)

const (
	labelFontSize = 12.0
	labelGap      = 2.0
	chartGap      = 24.0

	// ArrowSimple is the only arrow tip with a marker definition.
	ArrowSimple = "simple"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	grid   bool
	labels bool
}

// WithoutGrid omits the grid lines.
func WithoutGrid() SVGOption { return func(r *svgRenderer) { r.grid = false } }

// WithoutLabels omits node and edge labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{grid: true, labels: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG renders one chart as a standalone SVG document.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	w, h := l.PixelWidth(), l.PixelHeight()
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" class="seqsee-chart">`+"\n",
		num(w), num(h), num(w), num(h))
	r.renderChart(&buf, &l)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderDocumentSVG renders every chart of doc into one SVG, stacked
// vertically. A single-chart document renders exactly as [RenderSVG].
func RenderDocumentSVG(doc graph.Document, opts ...SVGOption) []byte {
	if len(doc.Charts) == 1 {
		return RenderSVG(doc.Charts[0], opts...)
	}
	r := newSVGRenderer(opts...)

	var width, height float64
	for i := range doc.Charts {
		width = max(width, doc.Charts[i].PixelWidth())
		height += doc.Charts[i].PixelHeight()
	}
	if n := len(doc.Charts); n > 1 {
		height += chartGap * float64(n-1)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(width), num(height), num(width), num(height))
	if doc.Title != "" {
		fmt.Fprintf(&buf, "<title>%s</title>\n", EscapeXML(doc.Title))
	}

	y := 0.0
	for i := range doc.Charts {
		l := &doc.Charts[i]
		w, h := l.PixelWidth(), l.PixelHeight()
		fmt.Fprintf(&buf, `<svg x="0" y="%s" viewBox="0 0 %s %s" width="%s" height="%s" class="seqsee-chart">`+"\n",
			num(y), num(w), num(h), num(w), num(h))
		r.renderChart(&buf, l)
		buf.WriteString("</svg>\n")
		y += h + chartGap
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderChart writes the contents of one chart's <svg> element.
func (r svgRenderer) renderChart(buf *bytes.Buffer, l *graph.Layout) {
	canvas := svg.New(buf)

	if t := chartTitle(l); t != "" {
		fmt.Fprintf(buf, "<title>%s</title>\n", EscapeXML(t))
	}

	canvas.Def()
	canvas.Marker(attr.MarkerID(ArrowSimple), 10, 5, 6, 6,
		`viewBox="0 0 10 10"`, `orient="auto-start-reverse"`)
	canvas.Path("M 0 0 L 10 5 L 0 10 z", `fill="context-stroke"`)
	canvas.MarkerEnd()
	canvas.DefEnd()

	if l.CSS != "" {
		canvas.Style("text/css", EscapeCSS(l.CSS))
	}

	if r.grid {
		canvas.Group(`class="grid-lines"`)
		renderGrid(buf, l)
		canvas.Gend()
	}

	canvas.Group(`class="edges"`)
	for i := range l.Edges {
		renderEdge(buf, l, &l.Edges[i])
	}
	canvas.Gend()

	canvas.Group(`class="nodes"`)
	for i := range l.Nodes {
		renderNode(buf, l, &l.Nodes[i])
	}
	canvas.Gend()

	if r.labels {
		canvas.Group(`class="labels"`)
		renderLabels(buf, l)
		canvas.Gend()
	}
}

func chartTitle(l *graph.Layout) string {
	if l.DisplayTitle != "" {
		return l.DisplayTitle
	}
	return l.Title
}

// renderGrid draws one line per integer coordinate of the chart bounds.
func renderGrid(buf *bytes.Buffer, l *graph.Layout) {
	cls := attrs(graph.ClassGrid, "")
	for x := l.Width.Min; x <= l.Width.Max; x++ {
		x1, y1 := l.ToPixel(graph.Point{X: float64(x), Y: float64(l.Height.Min)})
		x2, y2 := l.ToPixel(graph.Point{X: float64(x), Y: float64(l.Height.Max)})
		writeLine(buf, x1, y1, x2, y2, cls)
	}
	for y := l.Height.Min; y <= l.Height.Max; y++ {
		x1, y1 := l.ToPixel(graph.Point{X: float64(l.Width.Min), Y: float64(y)})
		x2, y2 := l.ToPixel(graph.Point{X: float64(l.Width.Max), Y: float64(y)})
		writeLine(buf, x1, y1, x2, y2, cls)
	}
}

func renderEdge(buf *bytes.Buffer, l *graph.Layout, e *graph.Edge) {
	x1, y1 := l.ToPixel(e.From)
	x2, y2 := l.ToPixel(e.To)

	switch len(e.Bezier) {
	case 0:
		writeLine(buf, x1, y1, x2, y2, attrs(e.Class(), e.Style))
	case 1:
		cx, cy := l.ToPixel(e.Bezier[0])
		d := fmt.Sprintf("M %s %s Q %s %s %s %s", num(x1), num(y1), num(cx), num(cy), num(x2), num(y2))
		writePath(buf, d, attrs(e.Class(), curveStyle(e.Style)))
	default:
		c1x, c1y := l.ToPixel(e.Bezier[0])
		c2x, c2y := l.ToPixel(e.Bezier[1])
		d := fmt.Sprintf("M %s %s C %s %s %s %s %s %s",
			num(x1), num(y1), num(c1x), num(c1y), num(c2x), num(c2y), num(x2), num(y2))
		writePath(buf, d, attrs(e.Class(), curveStyle(e.Style)))
	}
}

func renderNode(buf *bytes.Buffer, l *graph.Layout, n *graph.Node) {
	cx, cy := l.ToPixel(n.Point())
	r := l.NodeSize * l.Scale
	fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%s" data-id="%s"%s>`,
		num(cx), num(cy), num(r), EscapeXML(n.ID), attrs(n.Class(), n.Style))
	if n.Label != "" {
		fmt.Fprintf(buf, "<title>%s</title>", EscapeXML(n.Label))
	}
	buf.WriteString("</circle>\n")
}

// renderLabels places node labels above-right of the node and edge labels at
// the edge midpoint.
func renderLabels(buf *bytes.Buffer, l *graph.Layout) {
	r := l.NodeSize * l.Scale
	for i := range l.Nodes {
		n := &l.Nodes[i]
		if n.Label == "" {
			continue
		}
		x, y := l.ToPixel(n.Point())
		writeText(buf, x+r+labelGap, y-r-labelGap, n.Label)
	}
	for i := range l.Edges {
		e := &l.Edges[i]
		if e.Label == "" {
			continue
		}
		x, y := l.ToPixel(e.Midpoint())
		writeText(buf, x+labelGap, y-labelGap, e.Label)
	}
}

func writeLine(buf *bytes.Buffer, x1, y1, x2, y2 float64, extra string) {
	fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n", num(x1), num(y1), num(x2), num(y2), extra)
}

func writePath(buf *bytes.Buffer, d, extra string) {
	fmt.Fprintf(buf, `<path d="%s"%s/>`+"\n", d, extra)
}

func writeText(buf *bytes.Buffer, x, y float64, text string) {
	fmt.Fprintf(buf, `<text x="%s" y="%s" font-size="%s" style="fill: %s;">%s</text>`+"\n",
		num(x), num(y), num(labelFontSize), attr.ColorVar("textColor"), EscapeXML(text))
}

// curveStyle keeps curved edges unfilled whatever fill their classes or
// color attributes set. The declaration goes last so it wins.
func curveStyle(style string) string {
	return strings.TrimSpace(style + " fill: none;")
}

// attrs renders the class and style attributes, skipping empty ones.
func attrs(class, style string) string {
	var s string
	if class != "" {
		s += ` class="` + EscapeXML(class) + `"`
	}
	if style != "" {
		s += ` style="` + EscapeXML(style) + `"`
	}
	return s
}
