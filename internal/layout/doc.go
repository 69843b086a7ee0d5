// Package layout resolves sectionLayout nodes into pure-data layout plans.
//
// Each section carries a layout descriptor (list, grid, horizontal, flow)
// with spacing, content insets, an optional divider flag, and a required
// column count for grids. Insets collapse by precedence: all, then
// horizontal/vertical, then specific edges. Headers and section children
// are resolved through the document resolver; the plan itself performs no
// pixel arithmetic.
package layout
