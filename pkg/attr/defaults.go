package attr

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/seqsee/pkg/chart"
)

func ptr(v float64) *float64 { return &v }

// Defaults returns a freshly allocated table of the built-in attribute
// aliases: grid, defaultNode and defaultEdge.
func Defaults() *orderedmap.OrderedMap[string, chart.Attributes] {
	d := orderedmap.New[string, chart.Attributes]()
	d.Set(chart.AliasGrid, chart.Attributes{
		chart.Literal(&chart.Attribute{Color: "#ccc", Thickness: ptr(0.01)}),
	})
	d.Set(chart.AliasDefaultNode, chart.Attributes{
		chart.Literal(&chart.Attribute{Color: "black"}),
	})
	d.Set(chart.AliasDefaultEdge, chart.Attributes{
		chart.Literal(&chart.Attribute{Color: "black", Thickness: ptr(0.02)}),
	})
	return d
}

// MergeWithDefaults returns the effective alias table for a user table. For
// built-in names the default list is placed before the user's list so user
// entries override it; other user aliases are copied unchanged. Built-in
// names come first, followed by user-only names in declaration order.
//
// Neither user nor any shared state is modified; the result shares no memory
// with its input.
func MergeWithDefaults(user *orderedmap.OrderedMap[string, chart.Attributes]) *orderedmap.OrderedMap[string, chart.Attributes] {
	out := orderedmap.New[string, chart.Attributes]()
	for p := Defaults().Oldest(); p != nil; p = p.Next() {
		var own chart.Attributes
		if user != nil {
			own, _ = user.Get(p.Key)
		}
		out.Set(p.Key, p.Value.Concat(own))
	}
	if user == nil {
		return out
	}
	for p := user.Oldest(); p != nil; p = p.Next() {
		if _, builtin := out.Get(p.Key); builtin {
			continue
		}
		out.Set(p.Key, p.Value.Clone())
	}
	return out
}
