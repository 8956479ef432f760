package graph

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that the layout is drawable.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Check(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Check reports whether l describes a drawable chart.
func (l *Layout) Check() error {
	if l.Scale <= 0 {
		return fmt.Errorf("layout scale must be positive, got %v", l.Scale)
	}
	if l.Width.Min > l.Width.Max || l.Height.Min > l.Height.Max {
		return fmt.Errorf("layout bounds are inverted")
	}
	for _, e := range l.Edges {
		if _, ok := l.Node(e.Source); !ok {
			return fmt.Errorf("edge %d: source %q is not a node", e.Index, e.Source)
		}
	}
	return nil
}
