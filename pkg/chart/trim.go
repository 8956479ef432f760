package chart

import "github.com/matzehuels/seqsee/pkg/errors"

// TrimStats reports how much Trim removed.
type TrimStats struct {
	Nodes int
	Edges int
}

// Trim drops nodes whose coordinates fall outside the width and height
// bounds. Unset bounds do not constrain. Edges whose source was dropped are
// removed, as are structural edges whose target was dropped; offset edges
// survive as long as their source does.
func (c *Chart) Trim() TrimStats {
	var stats TrimStats
	w, h := c.Header.Config.Width, c.Header.Config.Height

	var drop []string
	for p := c.Nodes.Oldest(); p != nil; p = p.Next() {
		if !w.Contains(p.Value.X) || !h.Contains(p.Value.Y) {
			drop = append(drop, p.Key)
		}
	}
	for _, id := range drop {
		c.Nodes.Delete(id)
	}
	stats.Nodes = len(drop)

	kept := c.Edges[:0]
	for _, e := range c.Edges {
		if _, ok := c.Nodes.Get(e.Source); !ok {
			continue
		}
		if e.Target != "" {
			if _, ok := c.Nodes.Get(e.Target); !ok {
				continue
			}
		}
		kept = append(kept, e)
	}
	stats.Edges = len(c.Edges) - len(kept)
	clear(c.Edges[len(kept):])
	c.Edges = kept
	return stats
}

// BoundEdge is an edge with its endpoints resolved to nodes.
type BoundEdge struct {
	Index    int
	Edge     *Edge
	Source   *Node
	SourceID string
	// Target is nil for offset edges.
	Target   *Node
	TargetID string
}

// BindEdges resolves the endpoints of every edge. A source or explicit target
// that is not a node fails with DANGLING_REFERENCE.
func (c *Chart) BindEdges() ([]BoundEdge, error) {
	bound := make([]BoundEdge, 0, len(c.Edges))
	for i, e := range c.Edges {
		src, ok := c.Nodes.Get(e.Source)
		if !ok {
			return nil, errors.New(errors.ErrCodeDanglingReference, "edge %d: source %q is not a node", i, e.Source)
		}
		b := BoundEdge{Index: i, Edge: e, Source: src, SourceID: e.Source}
		if e.Target != "" {
			dst, ok := c.Nodes.Get(e.Target)
			if !ok {
				return nil, errors.New(errors.ErrCodeDanglingReference, "edge %d: target %q is not a node", i, e.Target)
			}
			b.Target, b.TargetID = dst, e.Target
		}
		bound = append(bound, b)
	}
	return bound, nil
}
