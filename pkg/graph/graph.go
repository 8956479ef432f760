package graph

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// MarshalDocument serializes a Document to pretty-printed JSON bytes.
func MarshalDocument(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDocument deserializes JSON bytes into a Document, checking every
// layout.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	for i := range d.Charts {
		if err := d.Charts[i].Check(); err != nil {
			return Document{}, fmt.Errorf("chart %d: %w", i, err)
		}
	}
	return d, nil
}
