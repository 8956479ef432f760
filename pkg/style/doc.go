// Package style implements the style algebra used to build inline styles and
// the chart style sheet.
//
// A [Set] is an ordered mapping from declaration name ("fill",
// "stroke-width", "--red") to a scalar value, or from a selector (".tau1",
// "circle") to a nested Set. Insertion order is preserved so that emitted CSS
// is deterministic and follows the order in which aliases were declared.
//
// # Merging
//
// [Merge] combines two sets without mutating either: declarations of the
// second set override the first, nested selector sets are merged recursively
// when both sides define them.
//
//	base := style.New()
//	_ = base.Add("fill", "black")
//	over := style.New()
//	_ = over.Add("fill", "red")
//	merged := style.Merge(base, over) // fill: red
//
// # Rendering
//
// [Set.DeclarationLines] renders a set as CSS lines; numbers are suffixed
// with [Unit]. [Set.Inline] renders the flat declarations as a value for an
// SVG style attribute.
package style
