package style

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/seqsee/pkg/errors"
)

// Unit is appended to numeric declaration values when rendering.
const Unit = "px"

// Set is an ordered collection of style declarations and nested selector sets.
// Values are always one of string, int, float64 or *Set.
//
// The zero value is not usable; create sets with [New].
type Set struct {
	decls *orderedmap.OrderedMap[string, any]
}

// New returns an empty style set.
func New() *Set {
	return &Set{decls: orderedmap.New[string, any]()}
}

// FromMap builds a set from a plain map. Keys are inserted in sorted order
// since Go maps carry no order of their own.
func FromMap(m map[string]any) (*Set, error) {
	s := New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := s.Add(k, m[k]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Len returns the number of entries (declarations and nested selectors).
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.decls.Len()
}

// Get returns the value stored under key.
func (s *Set) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return s.decls.Get(key)
}

// GetString returns the value under key if it is a string.
func (s *Set) GetString(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Nested returns the nested set stored under selector.
func (s *Set) Nested(selector string) (*Set, bool) {
	v, ok := s.Get(selector)
	if !ok {
		return nil, false
	}
	n, ok := v.(*Set)
	return n, ok
}

// Keys returns the keys in insertion order.
func (s *Set) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, s.decls.Len())
	for p := s.decls.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Add stores value under key, replacing any previous value while keeping the
// key's original position. Accepted values are strings, integers, floats,
// nested *Set and map[string]any (converted to a nested set).
func (s *Set) Add(key string, value any) error {
	v, err := normalize(key, value)
	if err != nil {
		return err
	}
	s.decls.Set(key, v)
	return nil
}

// MustAdd is like Add but panics on unsupported values. It is meant for
// statically known declarations.
func (s *Set) MustAdd(key string, value any) *Set {
	if err := s.Add(key, value); err != nil {
		panic(err)
	}
	return s
}

// Delete removes key from the set.
func (s *Set) Delete(key string) {
	s.decls.Delete(key)
}

// Clone returns a deep copy of s.
func (s *Set) Clone() *Set {
	out := New()
	if s == nil {
		return out
	}
	for p := s.decls.Oldest(); p != nil; p = p.Next() {
		if n, ok := p.Value.(*Set); ok {
			out.decls.Set(p.Key, n.Clone())
			continue
		}
		out.decls.Set(p.Key, p.Value)
	}
	return out
}

// Merge returns a new set containing a's entries overridden by b's.
// Neither input is modified. When both a and b hold a nested set under the
// same key the two are merged recursively; otherwise b's value wins.
func Merge(a, b *Set) *Set {
	out := a.Clone()
	if b == nil {
		return out
	}
	for p := b.decls.Oldest(); p != nil; p = p.Next() {
		bn, bNested := p.Value.(*Set)
		if bNested {
			if cur, ok := out.decls.Get(p.Key); ok {
				if an, aNested := cur.(*Set); aNested {
					out.decls.Set(p.Key, Merge(an, bn))
					continue
				}
			}
			out.decls.Set(p.Key, bn.Clone())
			continue
		}
		out.decls.Set(p.Key, p.Value)
	}
	return out
}

// Inline renders the flat declarations of s for use in a style attribute.
// Nested selectors are ignored.
func (s *Set) Inline() string {
	if s == nil {
		return ""
	}
	parts := make([]string, 0, s.decls.Len())
	for p := s.decls.Oldest(); p != nil; p = p.Next() {
		if _, nested := p.Value.(*Set); nested {
			continue
		}
		parts = append(parts, p.Key+": "+FormatValue(p.Value)+";")
	}
	return strings.Join(parts, " ")
}

// DeclarationLines renders s as CSS. Flat declarations at the top level are
// emitted as bare "name: value;" lines; nested sets become rule blocks whose
// selector is the parent selector path joined with the child key.
func (s *Set) DeclarationLines(indent string) []string {
	return s.lines("", indent)
}

// CSS renders s as a complete style sheet using two-space indentation.
func (s *Set) CSS() string {
	lines := s.DeclarationLines("  ")
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func (s *Set) lines(selector, indent string) []string {
	if s == nil {
		return nil
	}
	var flat, nested []string
	for p := s.decls.Oldest(); p != nil; p = p.Next() {
		if n, ok := p.Value.(*Set); ok {
			child := strings.TrimSpace(selector + " " + p.Key)
			nested = append(nested, n.lines(child, indent)...)
			continue
		}
		decl := p.Key + ": " + FormatValue(p.Value) + ";"
		if selector != "" {
			decl = indent + decl
		}
		flat = append(flat, decl)
	}

	var out []string
	if len(flat) > 0 {
		if selector != "" {
			out = append(out, selector+" {")
			out = append(out, flat...)
			out = append(out, "}")
		} else {
			out = append(out, flat...)
		}
	}
	return append(out, nested...)
}

// FormatValue renders a scalar declaration value. Numbers get the [Unit]
// suffix.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x) + Unit
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64) + Unit
	default:
		return fmt.Sprint(x)
	}
}

// unsafeChars may not appear in keys or string values. They would end a
// declaration or a rule, or close the element the sheet is embedded in.
const unsafeChars = ";{}<>\\\n\r"

func checkText(key, what, text string) error {
	if i := strings.IndexAny(text, unsafeChars); i >= 0 {
		return errors.New(errors.ErrCodeInvalidStyleValue, "declaration %q: %s contains %q", key, what, text[i])
	}
	return nil
}

func normalize(key string, value any) (any, error) {
	if key == "" {
		return nil, errors.New(errors.ErrCodeInvalidStyleValue, "empty declaration name")
	}
	if err := checkText(key, "name", key); err != nil {
		return nil, err
	}
	switch x := value.(type) {
	case string:
		if err := checkText(key, "value", x); err != nil {
			return nil, err
		}
		return x, nil
	case int:
		return x, nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case *Set:
		if x == nil {
			return nil, errors.New(errors.ErrCodeInvalidStyleValue, "declaration %q: nil style set", key)
		}
		return x, nil
	case map[string]any:
		n, err := FromMap(x)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidStyleValue, "declaration %q: unsupported value %v (%T)", key, value, value)
	}
}
