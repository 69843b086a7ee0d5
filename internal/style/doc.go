// Package style resolves named style inheritance chains into flat property
// bags.
//
// Styles form a forest: each style has at most one "inherits" parent. The
// resolver walks the chain iteratively with a visited set, so inheritance
// cycles are detected at construction time and reported with the offending
// style name. Resolution merges root-to-leaf (descendant keys win) and
// applies inline per-node overrides last. Because chains are invariant for
// the document's lifetime, results are cached per (styleID, overrides hash).
package style
