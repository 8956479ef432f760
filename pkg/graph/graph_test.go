package graph

import (
	"strings"
	"testing"
)

func sampleLayout() Layout {
	return Layout{
		Title:    "E2",
		Width:    Bounds{Min: -2, Max: 4},
		Height:   Bounds{Min: 0, Max: 2},
		Scale:    60,
		NodeSize: 0.04,
		Nodes: []Node{
			{ID: "a", X: 0, Y: 0, Classes: []string{ClassNode}},
			{ID: "b", X: 1, Y: 1, Label: "h_0", Classes: []string{ClassNode, "tau1"}},
		},
		Edges: []Edge{
			{Index: 0, Source: "a", Target: "b", From: Point{0, 0}, To: Point{1, 1}, Classes: []string{ClassEdge}},
			{Index: 1, Source: "b", From: Point{1, 1}, To: Point{2, 2}},
		},
		CSS: ".grid {\n  stroke: #ccc;\n}\n",
	}
}

func TestToPixel(t *testing.T) {
	l := sampleLayout()
	tests := []struct {
		p      Point
		wx, wy float64
	}{
		{Point{-2, 2}, 0, 0},
		{Point{4, 0}, 360, 120},
		{Point{0, 1}, 120, 60},
	}
	for _, tt := range tests {
		x, y := l.ToPixel(tt.p)
		if x != tt.wx || y != tt.wy {
			t.Errorf("ToPixel(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.wx, tt.wy)
		}
	}
	if l.PixelWidth() != 360 || l.PixelHeight() != 120 {
		t.Errorf("pixel size = %vx%v", l.PixelWidth(), l.PixelHeight())
	}
	if dx, dy := l.DeltaToPixel(Point{1, 1}); dx != 60 || dy != -60 {
		t.Errorf("DeltaToPixel = (%v, %v)", dx, dy)
	}
}

func TestNodeLookupAndClasses(t *testing.T) {
	l := sampleLayout()
	b, ok := l.Node("b")
	if !ok || b.Label != "h_0" {
		t.Fatalf("Node(b) = %+v, %v", b, ok)
	}
	if b.Class() != "defaultNode tau1" {
		t.Errorf("Class() = %q", b.Class())
	}
	if _, ok := l.Node("zz"); ok {
		t.Error("Node(zz) found")
	}
	if !l.Edges[1].IsOffset() || l.Edges[0].IsOffset() {
		t.Error("IsOffset() wrong")
	}
	if m := l.Edges[0].Midpoint(); m != (Point{0.5, 0.5}) {
		t.Errorf("Midpoint() = %v", m)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	data, err := MarshalLayout(sampleLayout())
	if err != nil {
		t.Fatalf("MarshalLayout() error = %v", err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if got.Title != "E2" || len(got.Nodes) != 2 || len(got.Edges) != 2 || got.CSS == "" {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestUnmarshalLayoutRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"invalid json", `{`, "unmarshal layout"},
		{"zero scale", `{"scale": 0}`, "scale must be positive"},
		{"inverted", `{"scale": 1, "width": {"min": 2, "max": 0}}`, "inverted"},
		{"dangling edge", `{"scale": 1, "edges": [{"index": 0, "source": "x"}]}`, `source "x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("UnmarshalLayout() error = %v, want %q", err, tt.msg)
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Document{Title: "collection", Charts: []Layout{sampleLayout(), sampleLayout()}}

	data, err := MarshalDocument(doc)
	if err != nil {
		t.Fatalf("MarshalDocument() error = %v", err)
	}
	got, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument() error = %v", err)
	}
	if got.Title != "collection" || len(got.Charts) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestUnmarshalDocumentNamesBadChart(t *testing.T) {
	_, err := UnmarshalDocument([]byte(`{"charts": [{"scale": 1}, {"scale": 0}]}`))
	if err == nil || !strings.Contains(err.Error(), "chart 1") {
		t.Errorf("UnmarshalDocument() error = %v, want chart 1", err)
	}
}
