package attr

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/seqsee/pkg/chart"
	"github.com/matzehuels/seqsee/pkg/errors"
)

func f(v float64) *float64 { return &v }

func lit(a chart.Attribute) chart.AttributeEntry { return chart.Literal(&a) }

func testContext() Context {
	colors := chart.DefaultColors()
	colors.Set("tau", "#c00")
	return Context{UnitScale: 60, Colors: colors}
}

func TestResolveTranslations(t *testing.T) {
	extra := chart.Attribute{}
	extra.SetExtra("opacity", "0.5")

	tests := []struct {
		name  string
		entry chart.AttributeEntry
		want  string
	}{
		{"color", lit(chart.Attribute{Color: "red"}), "fill: red; stroke: red;"},
		{"thickness", lit(chart.Attribute{Thickness: f(0.5)}), "stroke-width: 30px;"},
		{"arrow none", lit(chart.Attribute{ArrowTip: "none"}), "marker-end: none;"},
		{"arrow simple", lit(chart.Attribute{ArrowTip: "simple"}), "marker-end: url(#arrow-simple);"},
		{"solid", lit(chart.Attribute{Pattern: "solid"}), "stroke-dasharray: none;"},
		{"dashed", lit(chart.Attribute{Pattern: "dashed"}), "stroke-dasharray: 5,5;"},
		{"dotted", lit(chart.Attribute{Pattern: "dotted"}), "stroke-dasharray: 0,2; stroke-linecap: round;"},
		{"passthrough", chart.Literal(&extra), "opacity: 0.5;"},
		{"color alias", lit(chart.Attribute{Color: "tau"}), "fill: var(--tau); stroke: var(--tau);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, classes, err := Resolve(chart.Attributes{tt.entry}, testContext())
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := s.Inline(); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			if len(classes) != 0 {
				t.Errorf("classes = %v, want none", classes)
			}
		})
	}
}

func TestResolveSize(t *testing.T) {
	s, _, err := Resolve(chart.Attributes{lit(chart.Attribute{Size: f(0.5)})}, testContext())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	v, _ := s.Get("r")
	if v != 30.0 {
		t.Errorf("r = %v, want 30", v)
	}
}

func TestResolveOrderSensitive(t *testing.T) {
	red := lit(chart.Attribute{Color: "red"})
	blue := lit(chart.Attribute{Color: "blue"})

	tests := []struct {
		name    string
		entries chart.Attributes
		want    string
	}{
		{"red then blue", chart.Attributes{red, blue}, "blue"},
		{"blue then red", chart.Attributes{blue, red}, "red"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, err := Resolve(tt.entries, testContext())
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			fill, _ := s.GetString("fill")
			stroke, _ := s.GetString("stroke")
			if fill != tt.want || stroke != tt.want {
				t.Errorf("fill/stroke = %s/%s, want %s", fill, stroke, tt.want)
			}
		})
	}
}

func TestResolveClasses(t *testing.T) {
	entries := chart.Attributes{
		chart.AliasRef("tau1"),
		lit(chart.Attribute{Color: "red"}),
		chart.AliasRef("dashed"),
	}
	s, classes, err := Resolve(entries, testContext())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if diff := cmp.Diff([]string{"tau1", "dashed"}, classes); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
	if s.Inline() != "fill: red; stroke: red;" {
		t.Errorf("alias references expanded inline: %q", s.Inline())
	}
}

func TestResolveInvalidPattern(t *testing.T) {
	entries := chart.Attributes{lit(chart.Attribute{Color: "red"}), lit(chart.Attribute{Pattern: "wavy"})}
	_, _, err := Resolve(entries, testContext())
	if !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Fatalf("Resolve() error = %v, want INVALID_PATTERN", err)
	}
	if !strings.Contains(err.Error(), "attribute 1") || !strings.Contains(err.Error(), "wavy") {
		t.Errorf("error %q does not locate the entry", err)
	}
}

func TestDefaultsAreFresh(t *testing.T) {
	a := Defaults()
	grid, _ := a.Get(chart.AliasGrid)
	grid[0].Attr.Color = "red"
	*grid[0].Attr.Thickness = 9

	b := Defaults()
	fresh, _ := b.Get(chart.AliasGrid)
	if fresh[0].Attr.Color != "#ccc" || *fresh[0].Attr.Thickness != 0.01 {
		t.Errorf("Defaults() returned shared state: %+v", fresh[0].Attr)
	}
}

func userTable(kv ...any) *orderedmap.OrderedMap[string, chart.Attributes] {
	m := orderedmap.New[string, chart.Attributes]()
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1].(chart.Attributes))
	}
	return m
}

func keys(m *orderedmap.OrderedMap[string, chart.Attributes]) []string {
	var out []string
	for p := m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

func TestMergeWithDefaults(t *testing.T) {
	user := userTable(
		"tau1", chart.Attributes{lit(chart.Attribute{Color: "tau"})},
		chart.AliasDefaultNode, chart.Attributes{lit(chart.Attribute{Color: "blue"})},
	)

	got := MergeWithDefaults(user)

	want := []string{"grid", "defaultNode", "defaultEdge", "tau1"}
	if diff := cmp.Diff(want, keys(got)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	node, _ := got.Get(chart.AliasDefaultNode)
	if len(node) != 2 || node[0].Attr.Color != "black" || node[1].Attr.Color != "blue" {
		t.Errorf("defaultNode = %+v, want default before user", node)
	}

	s, _, err := Resolve(node, testContext())
	if err != nil {
		t.Fatal(err)
	}
	if fill, _ := s.GetString("fill"); fill != "blue" {
		t.Errorf("resolved defaultNode fill = %q, want user override", fill)
	}

	// The input is untouched and shares nothing with the result.
	uNode, _ := user.Get(chart.AliasDefaultNode)
	if len(uNode) != 1 {
		t.Errorf("user list mutated: %+v", uNode)
	}
	node[1].Attr.Color = "green"
	if uNode[0].Attr.Color != "blue" {
		t.Error("result shares attributes with user table")
	}
}

func TestMergeWithDefaultsIsPure(t *testing.T) {
	frozen := Defaults()
	frozenGrid, _ := frozen.Get(chart.AliasGrid)

	first := MergeWithDefaults(userTable(
		chart.AliasGrid, chart.Attributes{lit(chart.Attribute{Color: "red"})},
	))
	second := MergeWithDefaults(userTable(
		chart.AliasGrid, chart.Attributes{lit(chart.Attribute{Color: "blue", Thickness: f(1)})},
	))

	g1, _ := first.Get(chart.AliasGrid)
	g2, _ := second.Get(chart.AliasGrid)

	// Corrupting one result must not reach the other or later merges.
	g1[0].Attr.Color = "purple"
	third := MergeWithDefaults(nil)
	g3, _ := third.Get(chart.AliasGrid)

	for name, got := range map[string]chart.Attribute{"second": *g2[0].Attr, "third": *g3[0].Attr, "frozen": *frozenGrid[0].Attr} {
		if got.Color != "#ccc" || got.Thickness == nil || *got.Thickness != 0.01 {
			t.Errorf("%s grid default = %+v, want {#ccc 0.01}", name, got)
		}
	}
	if len(g1) != 2 || len(g2) != 2 || len(g3) != 1 {
		t.Errorf("grid lengths = %d %d %d, want 2 2 1", len(g1), len(g2), len(g3))
	}
	if g2[1].Attr.Color != "blue" {
		t.Errorf("second user entry = %+v", g2[1].Attr)
	}
}

func TestMergeWithDefaultsNoUser(t *testing.T) {
	got := MergeWithDefaults(nil)
	if diff := cmp.Diff([]string{"grid", "defaultNode", "defaultEdge"}, keys(got)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}
