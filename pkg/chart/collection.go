package chart

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/seqsee/pkg/errors"
)

// Collection is an ordered list of charts sharing an optional header.
type Collection struct {
	Header Header
	Charts []ChartRef
}

// ChartRef is either an inline chart or a path to a chart document relative
// to the collection file. Path is kept once the reference is loaded into
// Chart. Err records why the entry could not be decoded or loaded; Chart is
// nil then.
type ChartRef struct {
	Chart *Chart
	Path  string
	Err   error
}

// Single wraps one chart in a collection.
func Single(c *Chart) *Collection {
	return &Collection{Header: DefaultHeader(), Charts: []ChartRef{{Chart: c}}}
}

// IsCollection reports whether a JSON document is a collection, i.e. an
// object with a top-level "charts" member.
func IsCollection(data []byte) bool {
	if !isObject(data) {
		return false
	}
	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, raw); err != nil {
		return false
	}
	_, ok := raw.Get("charts")
	return ok
}

// DecodeCollection parses either a collection document or a single chart.
// Path references are kept unresolved; pkg/io loads them. An entry that does
// not decode is kept with its error so the other charts can still be used.
func DecodeCollection(data []byte) (*Collection, error) {
	if !IsCollection(data) {
		c, err := Decode(data)
		if err != nil {
			return nil, err
		}
		return Single(c), nil
	}

	coll := &Collection{Header: DefaultHeader()}
	err := decodeObject(data, true, fieldDecoders{
		"header": into(&coll.Header),
		"charts": func(raw json.RawMessage) error {
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return err
			}
			for _, item := range items {
				ref, err := decodeChartRef(item)
				if err != nil {
					ref = ChartRef{Err: schemaViolation(err)}
				}
				coll.Charts = append(coll.Charts, ref)
			}
			return nil
		},
	})
	if err != nil {
		return nil, schemaViolation(err)
	}
	return coll, nil
}

func decodeChartRef(data json.RawMessage) (ChartRef, error) {
	if isObject(data) {
		c := New()
		if err := c.UnmarshalJSON(data); err != nil {
			return ChartRef{}, err
		}
		return ChartRef{Chart: c}, nil
	}
	var path string
	if err := json.Unmarshal(data, &path); err != nil {
		return ChartRef{}, fmt.Errorf("entry must be a chart or a path")
	}
	if path == "" {
		return ChartRef{}, fmt.Errorf("empty chart path")
	}
	return ChartRef{Path: path}, nil
}

// Unresolved returns the indices of path references not yet loaded or
// failed.
func (c *Collection) Unresolved() []int {
	var idx []int
	for i, r := range c.Charts {
		if r.Chart == nil && r.Err == nil {
			idx = append(idx, i)
		}
	}
	return idx
}

// Loaded returns the charts that decoded, in order, with the index of the
// entry each came from. Entries with an Err are skipped. It fails if a path
// reference has not been loaded yet.
func (c *Collection) Loaded() ([]*Chart, []int, error) {
	charts := make([]*Chart, 0, len(c.Charts))
	index := make([]int, 0, len(c.Charts))
	for i, r := range c.Charts {
		switch {
		case r.Err != nil:
			continue
		case r.Chart == nil:
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "chart %d: reference %q was not loaded", i, r.Path)
		}
		charts = append(charts, r.Chart)
		index = append(index, i)
	}
	return charts, index, nil
}

// Title returns the collection page title, falling back to the first chart's.
func (c *Collection) Title() string {
	if t := c.Header.Metadata.HTMLTitle; t != "" {
		return t
	}
	if t := c.Header.Metadata.Title; t != "" {
		return t
	}
	for _, r := range c.Charts {
		if r.Chart == nil {
			continue
		}
		if t := r.Chart.Header.Metadata.HTMLTitle; t != "" {
			return t
		}
		if t := r.Chart.Header.Metadata.Title; t != "" {
			return t
		}
	}
	return ""
}
