package chart

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Default configuration values applied when a document omits them.
const (
	DefaultScale       = 60.0
	DefaultNodeSize    = 0.04
	DefaultNodeSpacing = 0.02
	DefaultNodeSlope   = 0.0
)

// Built-in attribute alias names. Their default entries live in pkg/attr.
const (
	AliasGrid        = "grid"
	AliasDefaultNode = "defaultNode"
	AliasDefaultEdge = "defaultEdge"
)

// =============================================================================
// Chart
// =============================================================================

// Chart is the root aggregate of a chart document.
type Chart struct {
	Header Header                                `json:"header"`
	Nodes  *orderedmap.OrderedMap[string, *Node] `json:"nodes"`
	Edges  []*Edge                               `json:"edges"`
}

// New returns an empty chart with a default header.
func New() *Chart {
	return &Chart{
		Header: DefaultHeader(),
		Nodes:  orderedmap.New[string, *Node](),
	}
}

// AddNode inserts or replaces a node under id.
func (c *Chart) AddNode(id string, n *Node) {
	c.Nodes.Set(id, n)
}

// Node returns the node with the given id.
func (c *Chart) Node(id string) (*Node, bool) {
	return c.Nodes.Get(id)
}

// NodeIDs returns node ids in declaration order.
func (c *Chart) NodeIDs() []string {
	ids := make([]string, 0, c.Nodes.Len())
	for p := c.Nodes.Oldest(); p != nil; p = p.Next() {
		ids = append(ids, p.Key)
	}
	return ids
}

// Clone returns a deep copy of c.
func (c *Chart) Clone() *Chart {
	out := &Chart{
		Header: c.Header.Clone(),
		Nodes:  orderedmap.New[string, *Node](),
		Edges:  make([]*Edge, 0, len(c.Edges)),
	}
	for p := c.Nodes.Oldest(); p != nil; p = p.Next() {
		out.Nodes.Set(p.Key, p.Value.Clone())
	}
	for _, e := range c.Edges {
		out.Edges = append(out.Edges, e.Clone())
	}
	return out
}

// =============================================================================
// Header
// =============================================================================

// Header carries chart metadata, layout configuration and style aliases.
type Header struct {
	Metadata Metadata `json:"metadata"`
	Config   Config   `json:"chart"`
	Aliases  Aliases  `json:"aliases"`
}

// DefaultHeader returns a header with every default filled in.
func DefaultHeader() Header {
	return Header{
		Config:  DefaultConfig(),
		Aliases: DefaultAliases(),
	}
}

// Clone returns a deep copy of h.
func (h Header) Clone() Header {
	return Header{
		Metadata: h.Metadata,
		Config:   h.Config.Clone(),
		Aliases:  h.Aliases.Clone(),
	}
}

// Metadata holds free-form title strings.
type Metadata struct {
	HTMLTitle    string `json:"htmltitle"`
	Title        string `json:"title"`
	DisplayTitle string `json:"displaytitle,omitempty"`
}

// Config controls grid bounds and node placement.
type Config struct {
	Width       DimensionRange `json:"width"`
	Height      DimensionRange `json:"height"`
	Scale       float64        `json:"scale" validate:"gt=0"`
	NodeSize    float64        `json:"nodeSize" validate:"gte=0"`
	NodeSpacing float64        `json:"nodeSpacing" validate:"gte=0"`
	NodeSlope   Slope          `json:"nodeSlope"`
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() Config {
	return Config{
		Scale:       DefaultScale,
		NodeSize:    DefaultNodeSize,
		NodeSpacing: DefaultNodeSpacing,
		NodeSlope:   Slope{Value: DefaultNodeSlope},
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.Width = c.Width.Clone()
	c.Height = c.Height.Clone()
	return c
}

// Slope is the slope of the line along which nodes sharing a bidegree are
// spread. Vertical corresponds to a null slope in the document.
type Slope struct {
	Value    float64
	Vertical bool
}

// VerticalSlope returns the null slope.
func VerticalSlope() Slope { return Slope{Vertical: true} }

// DimensionRange is an optionally bounded integer range.
type DimensionRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// Range returns a fully declared range.
func Range(lo, hi int) DimensionRange {
	return DimensionRange{Min: &lo, Max: &hi}
}

// Contains reports whether v lies within the declared bounds. Missing bounds
// do not constrain.
func (r DimensionRange) Contains(v int) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Resolved reports whether both bounds are set.
func (r DimensionRange) Resolved() bool {
	return r.Min != nil && r.Max != nil
}

// Clone returns a copy of r that shares no pointers with it.
func (r DimensionRange) Clone() DimensionRange {
	var out DimensionRange
	if r.Min != nil {
		v := *r.Min
		out.Min = &v
	}
	if r.Max != nil {
		v := *r.Max
		out.Max = &v
	}
	return out
}

// =============================================================================
// Aliases
// =============================================================================

// Aliases holds named colors and named attribute lists.
type Aliases struct {
	Colors     *orderedmap.OrderedMap[string, string]     `json:"colors"`
	Attributes *orderedmap.OrderedMap[string, Attributes] `json:"attributes"`
}

// DefaultColors returns the built-in color aliases.
func DefaultColors() *orderedmap.OrderedMap[string, string] {
	colors := orderedmap.New[string, string]()
	colors.Set("backgroundColor", "white")
	colors.Set("borderColor", "black")
	colors.Set("textColor", "black")
	return colors
}

// DefaultAliases returns built-in colors and an empty attribute alias table.
// Built-in attribute aliases are merged in later by pkg/attr.
func DefaultAliases() Aliases {
	return Aliases{
		Colors:     DefaultColors(),
		Attributes: orderedmap.New[string, Attributes](),
	}
}

// Clone returns a deep copy of a.
func (a Aliases) Clone() Aliases {
	out := Aliases{
		Colors:     orderedmap.New[string, string](),
		Attributes: orderedmap.New[string, Attributes](),
	}
	if a.Colors != nil {
		for p := a.Colors.Oldest(); p != nil; p = p.Next() {
			out.Colors.Set(p.Key, p.Value)
		}
	}
	if a.Attributes != nil {
		for p := a.Attributes.Oldest(); p != nil; p = p.Next() {
			out.Attributes.Set(p.Key, p.Value.Clone())
		}
	}
	return out
}

// =============================================================================
// Nodes and Edges
// =============================================================================

// Point is a pair of real coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Node is a chart element placed at an integer grid coordinate.
type Node struct {
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Position   int        `json:"position"`
	Label      string     `json:"label,omitempty"`
	Attributes Attributes `json:"attributes,omitempty" validate:"dive"`
}

// Bidegree returns the grid cell the node occupies.
func (n *Node) Bidegree() [2]int {
	return [2]int{n.X, n.Y}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	out := *n
	out.Attributes = n.Attributes.Clone()
	return &out
}

// EdgeKind distinguishes structural edges from offset edges.
type EdgeKind int

const (
	// EdgeInvalid marks an edge with neither or both of target and offset.
	EdgeInvalid EdgeKind = iota
	// EdgeStructural connects two nodes.
	EdgeStructural
	// EdgeOffset ends at a point relative to its source.
	EdgeOffset
)

// String returns a short name for the kind.
func (k EdgeKind) String() string {
	switch k {
	case EdgeStructural:
		return "structural"
	case EdgeOffset:
		return "offset"
	default:
		return "invalid"
	}
}

// Edge connects a source node to either a target node or a relative offset.
type Edge struct {
	Source     string     `json:"source" validate:"required"`
	Target     string     `json:"target,omitempty"`
	Offset     *Point     `json:"offset,omitempty"`
	Label      string     `json:"label,omitempty"`
	Bezier     []Point    `json:"bezier,omitempty" validate:"omitempty,min=1,max=2"`
	Attributes Attributes `json:"attributes,omitempty" validate:"dive"`
}

// Kind reports whether e is structural or an offset edge.
func (e *Edge) Kind() EdgeKind {
	switch {
	case e.Target != "" && e.Offset == nil:
		return EdgeStructural
	case e.Target == "" && e.Offset != nil:
		return EdgeOffset
	default:
		return EdgeInvalid
	}
}

// Clone returns a deep copy of e.
func (e *Edge) Clone() *Edge {
	out := *e
	if e.Offset != nil {
		o := *e.Offset
		out.Offset = &o
	}
	if e.Bezier != nil {
		out.Bezier = append([]Point(nil), e.Bezier...)
	}
	out.Attributes = e.Attributes.Clone()
	return &out
}
