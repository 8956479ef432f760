package attr

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/seqsee/pkg/chart"
	"github.com/matzehuels/seqsee/pkg/errors"
	"github.com/matzehuels/seqsee/pkg/style"
)

// Style declaration values for the fixed translations.
const (
	DashSolid  = "none"
	DashDashed = "5,5"
	DashDotted = "0,2"
)

// Context carries per-chart resolution state.
type Context struct {
	// UnitScale converts chart units (size, thickness) to pixels.
	UnitScale float64
	// Colors maps color alias names to color values.
	Colors *orderedmap.OrderedMap[string, string]
}

// NewContext returns the resolution context for a chart header.
func NewContext(h chart.Header) Context {
	colors := h.Aliases.Colors
	if colors == nil {
		colors = chart.DefaultColors()
	}
	return Context{UnitScale: h.Config.Scale, Colors: colors}
}

// IsColor reports whether name is a declared color alias.
func (c Context) IsColor(name string) bool {
	if c.Colors == nil {
		return false
	}
	_, ok := c.Colors.Get(name)
	return ok
}

// Resolve folds entries into a style and a class list. Later entries override
// earlier ones; alias references become classes in order of appearance.
func Resolve(entries chart.Attributes, ctx Context) (*style.Set, []string, error) {
	s := style.New()
	var classes []string
	for i, e := range entries {
		if e.IsAlias() {
			classes = append(classes, e.Alias)
			continue
		}
		if err := apply(s, e.Attr, ctx); err != nil {
			return nil, nil, errors.New(errors.GetCode(err), "attribute %d: %s", i, errors.UserMessage(err))
		}
	}
	substituteColors(s, ctx)
	return s, classes, nil
}

// apply translates one literal attribute into declarations on s.
func apply(s *style.Set, a *chart.Attribute, ctx Context) error {
	for _, it := range a.Items() {
		var err error
		switch it.Key {
		case chart.PropColor:
			err = addAll(s, "fill", it.Value, "stroke", it.Value)
		case chart.PropSize:
			err = s.Add("r", it.Value.(float64)*ctx.UnitScale)
		case chart.PropThickness:
			err = s.Add("stroke-width", it.Value.(float64)*ctx.UnitScale)
		case chart.PropArrowTip:
			err = s.Add("marker-end", MarkerRef(it.Value.(string)))
		case chart.PropPattern:
			err = applyPattern(s, it.Value.(string))
		default:
			err = s.Add(it.Key, it.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// MarkerRef returns the marker-end value for an arrow tip name.
func MarkerRef(tip string) string {
	if tip == "none" {
		return "none"
	}
	return fmt.Sprintf("url(#%s)", MarkerID(tip))
}

// MarkerID returns the SVG element id of the marker for an arrow tip.
func MarkerID(tip string) string {
	return "arrow-" + tip
}

func applyPattern(s *style.Set, pattern string) error {
	switch pattern {
	case "solid":
		return s.Add("stroke-dasharray", DashSolid)
	case "dashed":
		return s.Add("stroke-dasharray", DashDashed)
	case "dotted":
		return addAll(s, "stroke-dasharray", DashDotted, "stroke-linecap", "round")
	default:
		return errors.New(errors.ErrCodeInvalidPattern, "unknown pattern %q", pattern)
	}
}

func addAll(s *style.Set, kv ...any) error {
	for i := 0; i+1 < len(kv); i += 2 {
		if err := s.Add(kv[i].(string), kv[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// substituteColors replaces fill and stroke values that name a color alias
// with a reference to the alias' custom property.
func substituteColors(s *style.Set, ctx Context) {
	for _, prop := range []string{"fill", "stroke"} {
		v, ok := s.GetString(prop)
		if ok && ctx.IsColor(v) {
			_ = s.Add(prop, ColorVar(v))
		}
	}
}

// ColorVar returns the var() reference for a color alias.
func ColorVar(name string) string {
	return "var(" + CustomProperty(name) + ")"
}

// CustomProperty returns the CSS custom property name for a color alias.
func CustomProperty(name string) string {
	return "--" + name
}
