package graph

import (
	"slices"
	"strings"
)

// Class prefixes applied to every node and edge before their own aliases.
const (
	ClassNode = "defaultNode"
	ClassEdge = "defaultEdge"
	ClassGrid = "grid"
)

// =============================================================================
// Geometry
// =============================================================================

// Point is a position in chart units.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Bounds is a resolved, even-valued grid range.
type Bounds struct {
	Min int `json:"min" bson:"min"`
	Max int `json:"max" bson:"max"`
}

// Span returns Max - Min.
func (b Bounds) Span() int { return b.Max - b.Min }

// =============================================================================
// Node
// =============================================================================

// Node is a positioned, styled chart node.
type Node struct {
	ID      string   `json:"id" bson:"id"`
	Label   string   `json:"label,omitempty" bson:"label,omitempty"`
	X       float64  `json:"x" bson:"x"`
	Y       float64  `json:"y" bson:"y"`
	Style   string   `json:"style,omitempty" bson:"style,omitempty"`
	Classes []string `json:"classes,omitempty" bson:"classes,omitempty"`
}

// Point returns the node center.
func (n *Node) Point() Point { return Point{X: n.X, Y: n.Y} }

// Class returns the space-separated class attribute value.
func (n *Node) Class() string { return joinClasses(n.Classes) }

// =============================================================================
// Edge
// =============================================================================

// Edge is a drawn edge with absolute endpoints. Target is empty for offset
// edges, whose end point is the source plus the declared offset.
type Edge struct {
	Index   int      `json:"index" bson:"index"`
	Source  string   `json:"source" bson:"source"`
	Target  string   `json:"target,omitempty" bson:"target,omitempty"`
	From    Point    `json:"from" bson:"from"`
	To      Point    `json:"to" bson:"to"`
	Bezier  []Point  `json:"bezier,omitempty" bson:"bezier,omitempty"`
	Label   string   `json:"label,omitempty" bson:"label,omitempty"`
	Style   string   `json:"style,omitempty" bson:"style,omitempty"`
	Classes []string `json:"classes,omitempty" bson:"classes,omitempty"`
}

// IsOffset reports whether the edge ends at a relative point.
func (e *Edge) IsOffset() bool { return e.Target == "" }

// Class returns the space-separated class attribute value.
func (e *Edge) Class() string { return joinClasses(e.Classes) }

// Midpoint returns the point halfway between the endpoints, used to anchor
// edge labels.
func (e *Edge) Midpoint() Point {
	return Point{X: (e.From.X + e.To.X) / 2, Y: (e.From.Y + e.To.Y) / 2}
}

func joinClasses(classes []string) string { return strings.Join(classes, " ") }

// =============================================================================
// Layout
// =============================================================================

// Layout is one prepared chart.
type Layout struct {
	Title        string `json:"title,omitempty" bson:"title,omitempty"`
	DisplayTitle string `json:"display_title,omitempty" bson:"display_title,omitempty"`

	Width    Bounds  `json:"width" bson:"width"`
	Height   Bounds  `json:"height" bson:"height"`
	Scale    float64 `json:"scale" bson:"scale"`
	NodeSize float64 `json:"node_size" bson:"node_size"`

	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`

	// CSS is the rendered style sheet.
	CSS string `json:"css" bson:"css"`

	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// Node returns the node with the given id.
func (l *Layout) Node(id string) (*Node, bool) {
	i := slices.IndexFunc(l.Nodes, func(n Node) bool { return n.ID == id })
	if i < 0 {
		return nil, false
	}
	return &l.Nodes[i], true
}

// PixelWidth returns the canvas width in pixels.
func (l *Layout) PixelWidth() float64 { return float64(l.Width.Span()) * l.Scale }

// PixelHeight returns the canvas height in pixels.
func (l *Layout) PixelHeight() float64 { return float64(l.Height.Span()) * l.Scale }

// ToPixel maps a point in chart units to canvas pixels.
func (l *Layout) ToPixel(p Point) (x, y float64) {
	return (p.X - float64(l.Width.Min)) * l.Scale, (float64(l.Height.Max) - p.Y) * l.Scale
}

// DeltaToPixel maps a relative vector in chart units to canvas pixels.
func (l *Layout) DeltaToPixel(d Point) (dx, dy float64) {
	return d.X * l.Scale, -d.Y * l.Scale
}

// =============================================================================
// Document
// =============================================================================

// Document is a rendered collection: an ordered list of chart layouts.
type Document struct {
	Title  string   `json:"title,omitempty" bson:"title,omitempty"`
	Charts []Layout `json:"charts" bson:"charts"`
}
