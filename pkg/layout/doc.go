// Package layout turns grid coordinates into absolute chart coordinates.
//
// # Dimensions
//
// Declared width and height bounds are rounded outward to even integers
// ([RoundDeclared]). Missing bounds are computed from the nodes
// ([FillDimensions]): the minimum becomes 2*(floor(min/2)-1) and the maximum
// 2*(floor(max/2)+1), leaving at least one empty row or column of margin.
// Charts without nodes use 0 as the reference coordinate and resolve to
// [-2, 2].
//
// # Positions
//
// Nodes sharing a bidegree are sorted by their position rank (stable) and
// spread symmetrically around the grid point along a line of the configured
// slope, a null slope meaning vertical. Centers are nodeSpacing + 2*nodeSize
// apart:
//
//	pos := layout.AbsolutePositions(c)
//	p := pos["h0"] // chart units; multiply by scale for pixels
package layout
