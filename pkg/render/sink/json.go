package sink

import "github.com/matzehuels/seqsee/pkg/graph"

// RenderJSON exports the prepared layouts of doc as indented JSON. The output
// round-trips through [graph.UnmarshalDocument], so it can be rendered again
// later without re-preparing.
func RenderJSON(doc graph.Document) ([]byte, error) {
	if doc.Charts == nil {
		doc.Charts = []graph.Layout{}
	}
	return graph.MarshalDocument(doc)
}
