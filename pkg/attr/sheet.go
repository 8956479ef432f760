package attr

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/seqsee/pkg/chart"
	"github.com/matzehuels/seqsee/pkg/errors"
	"github.com/matzehuels/seqsee/pkg/style"
)

// Selectors used by the style sheet.
const (
	SelectorRoot   = ":root"
	SelectorCircle = "circle"
	SpacingVar     = "--spacing"
)

// ClassSelector returns the CSS selector for an alias class.
func ClassSelector(name string) string {
	return "." + name
}

// colorClassPrefix starts the utility class of every color alias.
const colorClassPrefix = "color-"

// ColorClass returns the utility class name for a color alias.
func ColorClass(name string) string {
	return colorClassPrefix + name
}

// colorOf returns the color alias whose utility class is cls.
func (c Context) colorOf(cls string) (string, bool) {
	name, ok := strings.CutPrefix(cls, colorClassPrefix)
	if !ok || !c.IsColor(name) {
		return "", false
	}
	return name, true
}

// colorStyle is the rule of a color utility class.
func colorStyle(name string) *style.Set {
	return style.New().
		MustAdd("fill", ColorVar(name)).
		MustAdd("stroke", ColorVar(name))
}

// Expander resolves attribute aliases to styles. Alias lists may reference
// other aliases and color utility classes; referenced styles are merged in at
// the position of the reference. Results are memoized.
type Expander struct {
	ctx     Context
	aliases *orderedmap.OrderedMap[string, chart.Attributes]
	done    map[string]*style.Set
	active  map[string]bool
}

// NewExpander returns an expander over an effective alias table.
func NewExpander(aliases *orderedmap.OrderedMap[string, chart.Attributes], ctx Context) *Expander {
	return &Expander{
		ctx:     ctx,
		aliases: aliases,
		done:    make(map[string]*style.Set),
		active:  make(map[string]bool),
	}
}

// Has reports whether the style sheet defines a class for name: a declared
// alias or the utility class of a color.
func (x *Expander) Has(name string) bool {
	if _, ok := x.aliases.Get(name); ok {
		return true
	}
	_, ok := x.ctx.colorOf(name)
	return ok
}

// Expand returns the resolved style of the named alias. Unknown names fail
// with UNKNOWN_ALIAS and reference cycles with ALIAS_CYCLE.
func (x *Expander) Expand(name string) (*style.Set, error) {
	return x.expand(name, nil)
}

func (x *Expander) expand(name string, path []string) (*style.Set, error) {
	if s, ok := x.done[name]; ok {
		return s, nil
	}
	if x.active[name] {
		cycle := append(append([]string(nil), path...), name)
		return nil, errors.New(errors.ErrCodeAliasCycle, "alias cycle: %s", strings.Join(cycle, " -> "))
	}
	entries, ok := x.aliases.Get(name)
	if !ok {
		if color, ok := x.ctx.colorOf(name); ok {
			return colorStyle(color), nil
		}
		if len(path) == 0 {
			return nil, errors.New(errors.ErrCodeUnknownAlias, "unknown alias %q", name)
		}
		return nil, errors.New(errors.ErrCodeUnknownAlias, "alias %q references unknown alias %q", path[len(path)-1], name)
	}

	x.active[name] = true
	defer delete(x.active, name)

	s := style.New()
	for i, e := range entries {
		if e.IsAlias() {
			ref, err := x.expand(e.Alias, append(path, name))
			if err != nil {
				return nil, err
			}
			s = style.Merge(s, ref)
			continue
		}
		if err := apply(s, e.Attr, x.ctx); err != nil {
			return nil, errors.New(errors.GetCode(err), "alias %q attribute %d: %s", name, i, errors.UserMessage(err))
		}
	}
	substituteColors(s, x.ctx)
	x.done[name] = s
	return s, nil
}

// BuildStyleSheet builds the chart style sheet: color custom properties and
// the spacing unit under :root, one utility class per color, the base circle
// rule and one class per effective alias, in that order.
func BuildStyleSheet(h chart.Header, aliases *orderedmap.OrderedMap[string, chart.Attributes], ctx Context) (*style.Set, error) {
	sheet := style.New()

	root := style.New()
	for p := ctx.Colors.Oldest(); p != nil; p = p.Next() {
		if err := root.Add(CustomProperty(p.Key), p.Value); err != nil {
			return nil, err
		}
	}
	if err := root.Add(SpacingVar, ctx.UnitScale); err != nil {
		return nil, err
	}
	if err := sheet.Add(SelectorRoot, root); err != nil {
		return nil, err
	}

	for p := ctx.Colors.Oldest(); p != nil; p = p.Next() {
		if err := sheet.Add(ClassSelector(ColorClass(p.Key)), colorStyle(p.Key)); err != nil {
			return nil, err
		}
	}

	circle := style.New().
		MustAdd("stroke-width", 0).
		MustAdd("r", h.Config.NodeSize*ctx.UnitScale)
	if err := sheet.Add(SelectorCircle, circle); err != nil {
		return nil, err
	}

	x := NewExpander(aliases, ctx)
	for p := aliases.Oldest(); p != nil; p = p.Next() {
		s, err := x.Expand(p.Key)
		if err != nil {
			return nil, err
		}
		if err := sheet.Add(ClassSelector(p.Key), s); err != nil {
			return nil, err
		}
	}
	return sheet, nil
}
