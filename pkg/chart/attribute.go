package chart

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Attribute property names with dedicated translations.
const (
	PropColor     = "color"
	PropSize      = "size"
	PropThickness = "thickness"
	PropArrowTip  = "arrowTip"
	PropPattern   = "pattern"
)

// Attribute is a literal style object. Keys other than the named properties
// are kept in Extra in document order and passed through as raw declarations.
type Attribute struct {
	Color     string                                 `json:"color"`
	Size      *float64                               `json:"size"`
	Thickness *float64                               `json:"thickness"`
	ArrowTip  string                                 `json:"arrowTip" validate:"omitempty,oneof=simple none"`
	Pattern   string                                 `json:"pattern" validate:"omitempty,oneof=solid dashed dotted"`
	Extra     *orderedmap.OrderedMap[string, string] `json:"-" validate:"-"`
}

// Item is a single property of an Attribute.
type Item struct {
	Key   string
	Value any
}

// Items returns the set properties in a fixed order: color, size, thickness,
// arrowTip, pattern, then extra properties in document order.
func (a *Attribute) Items() []Item {
	var items []Item
	if a.Color != "" {
		items = append(items, Item{PropColor, a.Color})
	}
	if a.Size != nil {
		items = append(items, Item{PropSize, *a.Size})
	}
	if a.Thickness != nil {
		items = append(items, Item{PropThickness, *a.Thickness})
	}
	if a.ArrowTip != "" {
		items = append(items, Item{PropArrowTip, a.ArrowTip})
	}
	if a.Pattern != "" {
		items = append(items, Item{PropPattern, a.Pattern})
	}
	if a.Extra != nil {
		for p := a.Extra.Oldest(); p != nil; p = p.Next() {
			items = append(items, Item{p.Key, p.Value})
		}
	}
	return items
}

// Clone returns a deep copy of a.
func (a *Attribute) Clone() *Attribute {
	out := *a
	if a.Size != nil {
		v := *a.Size
		out.Size = &v
	}
	if a.Thickness != nil {
		v := *a.Thickness
		out.Thickness = &v
	}
	if a.Extra != nil {
		out.Extra = orderedmap.New[string, string]()
		for p := a.Extra.Oldest(); p != nil; p = p.Next() {
			out.Extra.Set(p.Key, p.Value)
		}
	}
	return &out
}

// SetExtra stores a pass-through property.
func (a *Attribute) SetExtra(key, value string) {
	if a.Extra == nil {
		a.Extra = orderedmap.New[string, string]()
	}
	a.Extra.Set(key, value)
}

// MarshalJSON encodes the attribute as a flat object in Items order.
func (a Attribute) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, any]()
	for _, it := range a.Items() {
		om.Set(it.Key, it.Value)
	}
	return json.Marshal(om)
}

// UnmarshalJSON decodes a literal attribute object. Unknown keys must hold
// strings.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	*a = Attribute{}
	if isNull(data) {
		return nil
	}
	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, raw); err != nil {
		return fmt.Errorf("attribute must be an object: %w", err)
	}
	for p := raw.Oldest(); p != nil; p = p.Next() {
		if isNull(p.Value) {
			continue
		}
		var err error
		switch p.Key {
		case PropColor:
			err = json.Unmarshal(p.Value, &a.Color)
		case PropSize:
			a.Size = new(float64)
			err = json.Unmarshal(p.Value, a.Size)
		case PropThickness:
			a.Thickness = new(float64)
			err = json.Unmarshal(p.Value, a.Thickness)
		case PropArrowTip:
			err = json.Unmarshal(p.Value, &a.ArrowTip)
		case PropPattern:
			err = json.Unmarshal(p.Value, &a.Pattern)
		default:
			var s string
			if err = json.Unmarshal(p.Value, &s); err == nil {
				a.SetExtra(p.Key, s)
			}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", p.Key, err)
		}
	}
	return nil
}

// =============================================================================
// AttributeEntry
// =============================================================================

// AttributeEntry is one item of an attribute list: either a reference to a
// named alias or a literal Attribute. Exactly one of Alias and Attr is set.
type AttributeEntry struct {
	Alias string
	Attr  *Attribute
}

// AliasRef returns an entry referencing the named alias.
func AliasRef(name string) AttributeEntry {
	return AttributeEntry{Alias: name}
}

// Literal returns an entry holding a literal attribute.
func Literal(a *Attribute) AttributeEntry {
	return AttributeEntry{Attr: a}
}

// IsAlias reports whether e references an alias.
func (e AttributeEntry) IsAlias() bool {
	return e.Attr == nil
}

// Clone returns a deep copy of e.
func (e AttributeEntry) Clone() AttributeEntry {
	if e.Attr == nil {
		return e
	}
	return AttributeEntry{Attr: e.Attr.Clone()}
}

// MarshalJSON encodes an alias reference as a string and a literal as an
// object.
func (e AttributeEntry) MarshalJSON() ([]byte, error) {
	if e.Attr == nil {
		return json.Marshal(e.Alias)
	}
	return json.Marshal(e.Attr)
}

// UnmarshalJSON accepts a string or an object.
func (e *AttributeEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty attribute entry")
	}
	switch data[0] {
	case '"':
		*e = AttributeEntry{}
		return json.Unmarshal(data, &e.Alias)
	case '{':
		a := &Attribute{}
		if err := a.UnmarshalJSON(data); err != nil {
			return err
		}
		*e = AttributeEntry{Attr: a}
		return nil
	default:
		return fmt.Errorf("attribute entry must be an alias name or an object, got %s", data)
	}
}

// Attributes is an ordered attribute list. Later entries override earlier
// ones.
type Attributes []AttributeEntry

// Clone returns a deep copy of l. A nil list stays nil.
func (l Attributes) Clone() Attributes {
	if l == nil {
		return nil
	}
	out := make(Attributes, len(l))
	for i, e := range l {
		out[i] = e.Clone()
	}
	return out
}

// Concat returns a new list holding deep copies of l followed by other.
func (l Attributes) Concat(other Attributes) Attributes {
	out := make(Attributes, 0, len(l)+len(other))
	for _, e := range l {
		out = append(out, e.Clone())
	}
	for _, e := range other {
		out = append(out, e.Clone())
	}
	return out
}
