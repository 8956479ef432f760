package chart

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/seqsee/pkg/errors"
)

// Decode parses a JSON chart document. Missing fields get their defaults;
// unknown fields, missing node coordinates and values of the wrong type fail
// with SCHEMA_VIOLATION. Decode does not run [Chart.Validate].
func Decode(data []byte) (*Chart, error) {
	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, schemaViolation(err)
	}
	return c, nil
}

// Encode returns the canonical JSON encoding of c.
func Encode(c *Chart) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode chart")
	}
	return data, nil
}

func schemaViolation(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.New(errors.ErrCodeSchemaViolation, "invalid chart: %v", err)
}

// =============================================================================
// Object decoding helpers
// =============================================================================

type fieldDecoders map[string]func(json.RawMessage) error

// decodeObject walks the members of a JSON object in document order and hands
// each to its decoder. With strict set, members without a decoder are errors.
func decodeObject(data []byte, strict bool, fields fieldDecoders) error {
	if isNull(data) {
		return nil
	}
	if !isObject(data) {
		return fmt.Errorf("expected an object, got %s", preview(data))
	}
	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, raw); err != nil {
		return err
	}
	for p := raw.Oldest(); p != nil; p = p.Next() {
		decode, ok := fields[p.Key]
		if !ok {
			if strict {
				return fmt.Errorf("unknown field %q", p.Key)
			}
			continue
		}
		if err := decode(p.Value); err != nil {
			return fmt.Errorf("%s: %w", p.Key, err)
		}
	}
	return nil
}

// into returns a decoder that unmarshals into dst, leaving dst untouched for
// null values so defaults survive.
func into(dst any) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		if isNull(raw) {
			return nil
		}
		return json.Unmarshal(raw, dst)
	}
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

func preview(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) > 32 {
		return string(data[:32]) + "..."
	}
	return string(data)
}

// =============================================================================
// Chart
// =============================================================================

// UnmarshalJSON decodes a chart document over a fresh default chart.
func (c *Chart) UnmarshalJSON(data []byte) error {
	fresh := New()
	err := decodeObject(data, true, fieldDecoders{
		"header": into(&fresh.Header),
		"nodes": func(raw json.RawMessage) error {
			return decodeNodes(raw, fresh.Nodes)
		},
		"edges": func(raw json.RawMessage) error {
			edges, err := decodeEdges(raw)
			fresh.Edges = edges
			return err
		},
	})
	if err != nil {
		return err
	}
	*c = *fresh
	return nil
}

func decodeNodes(data []byte, dst *orderedmap.OrderedMap[string, *Node]) error {
	if isNull(data) {
		return nil
	}
	if !isObject(data) {
		return fmt.Errorf("expected an object of nodes, got %s", preview(data))
	}
	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, raw); err != nil {
		return err
	}
	for p := raw.Oldest(); p != nil; p = p.Next() {
		n := &Node{}
		if err := n.UnmarshalJSON(p.Value); err != nil {
			return fmt.Errorf("node %q: %w", p.Key, err)
		}
		dst.Set(p.Key, n)
	}
	return nil
}

func decodeEdges(data []byte) ([]*Edge, error) {
	if isNull(data) {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	edges := make([]*Edge, 0, len(raw))
	for i, r := range raw {
		e := &Edge{}
		if err := e.UnmarshalJSON(r); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// =============================================================================
// Header
// =============================================================================

// UnmarshalJSON decodes a header over the defaults.
func (h *Header) UnmarshalJSON(data []byte) error {
	fresh := DefaultHeader()
	err := decodeObject(data, true, fieldDecoders{
		"metadata": into(&fresh.Metadata),
		"chart":    into(&fresh.Config),
		"aliases":  into(&fresh.Aliases),
	})
	if err != nil {
		return err
	}
	*h = fresh
	return nil
}

// UnmarshalJSON decodes metadata. Unknown keys are ignored.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var fresh Metadata
	err := decodeObject(data, false, fieldDecoders{
		"htmltitle":    into(&fresh.HTMLTitle),
		"title":        into(&fresh.Title),
		"displaytitle": into(&fresh.DisplayTitle),
	})
	if err != nil {
		return err
	}
	*m = fresh
	return nil
}

// UnmarshalJSON decodes the layout configuration over the defaults. A null
// nodeSlope selects the vertical slope; an absent one keeps the default.
func (c *Config) UnmarshalJSON(data []byte) error {
	fresh := DefaultConfig()
	err := decodeObject(data, true, fieldDecoders{
		"width":       into(&fresh.Width),
		"height":      into(&fresh.Height),
		"scale":       into(&fresh.Scale),
		"nodeSize":    into(&fresh.NodeSize),
		"nodeSpacing": into(&fresh.NodeSpacing),
		"nodeSlope": func(raw json.RawMessage) error {
			return fresh.NodeSlope.UnmarshalJSON(raw)
		},
	})
	if err != nil {
		return err
	}
	*c = fresh
	return nil
}

// MarshalJSON encodes a vertical slope as null.
func (s Slope) MarshalJSON() ([]byte, error) {
	if s.Vertical {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON decodes a number or null. The string "vertical" is accepted
// as a synonym for null since TOML has no null value.
func (s *Slope) UnmarshalJSON(data []byte) error {
	if isNull(data) || string(data) == `"vertical"` {
		*s = VerticalSlope()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("slope must be a number or null: %w", err)
	}
	*s = Slope{Value: v}
	return nil
}

// UnmarshalJSON decodes a {min, max} range.
func (r *DimensionRange) UnmarshalJSON(data []byte) error {
	var fresh DimensionRange
	err := decodeObject(data, true, fieldDecoders{
		"min": into(&fresh.Min),
		"max": into(&fresh.Max),
	})
	if err != nil {
		return err
	}
	*r = fresh
	return nil
}

// UnmarshalJSON decodes color and attribute aliases. User colors are added
// after the built-in ones; redefining a built-in color keeps its position.
func (a *Aliases) UnmarshalJSON(data []byte) error {
	fresh := DefaultAliases()
	err := decodeObject(data, true, fieldDecoders{
		"colors": func(raw json.RawMessage) error {
			if isNull(raw) {
				return nil
			}
			colors := orderedmap.New[string, string]()
			if err := json.Unmarshal(raw, colors); err != nil {
				return fmt.Errorf("colors must map names to strings: %w", err)
			}
			for p := colors.Oldest(); p != nil; p = p.Next() {
				fresh.Colors.Set(p.Key, p.Value)
			}
			return nil
		},
		"attributes": func(raw json.RawMessage) error {
			if isNull(raw) {
				return nil
			}
			lists := orderedmap.New[string, json.RawMessage]()
			if err := json.Unmarshal(raw, lists); err != nil {
				return err
			}
			for p := lists.Oldest(); p != nil; p = p.Next() {
				var l Attributes
				if err := json.Unmarshal(p.Value, &l); err != nil {
					return fmt.Errorf("alias %q: %w", p.Key, err)
				}
				fresh.Attributes.Set(p.Key, l)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	*a = fresh
	return nil
}

// =============================================================================
// Nodes, Edges, Points
// =============================================================================

// UnmarshalJSON decodes a node. x and y are required.
func (n *Node) UnmarshalJSON(data []byte) error {
	var (
		fresh Node
		x, y  *int
	)
	err := decodeObject(data, true, fieldDecoders{
		"x":          into(&x),
		"y":          into(&y),
		"position":   into(&fresh.Position),
		"label":      into(&fresh.Label),
		"attributes": into(&fresh.Attributes),
	})
	if err != nil {
		return err
	}
	if isNull(data) {
		return fmt.Errorf("node must be an object")
	}
	if x == nil {
		return fmt.Errorf("missing required field %q", "x")
	}
	if y == nil {
		return fmt.Errorf("missing required field %q", "y")
	}
	fresh.X, fresh.Y = *x, *y
	*n = fresh
	return nil
}

// UnmarshalJSON decodes an edge. Whether target and offset are exclusive is
// checked by [Chart.Validate].
func (e *Edge) UnmarshalJSON(data []byte) error {
	var fresh Edge
	err := decodeObject(data, true, fieldDecoders{
		"source":     into(&fresh.Source),
		"target":     into(&fresh.Target),
		"offset":     into(&fresh.Offset),
		"label":      into(&fresh.Label),
		"bezier":     into(&fresh.Bezier),
		"attributes": into(&fresh.Attributes),
	})
	if err != nil {
		return err
	}
	if isNull(data) {
		return fmt.Errorf("edge must be an object")
	}
	*e = fresh
	return nil
}

// UnmarshalJSON decodes a point; both coordinates are required.
func (p *Point) UnmarshalJSON(data []byte) error {
	var x, y *float64
	err := decodeObject(data, true, fieldDecoders{
		"x": into(&x),
		"y": into(&y),
	})
	if err != nil {
		return err
	}
	if x == nil || y == nil {
		return fmt.Errorf("point requires both x and y")
	}
	*p = Point{X: *x, Y: *y}
	return nil
}
