// Package render walks the document node tree and produces fully resolved,
// backend-agnostic render nodes.
//
// A render node carries a kind tag, a flat resolved style bag, resolved
// text and bound values, and resolved children in declaration order. It
// retains no style names and no state paths, so a renderer can consume it
// without access to the document or the store. Every resolution pass builds
// a fresh tree; the previous tree is never mutated, which lets renderers
// diff old against new.
//
// Section layout nodes are delegated to an injected Planner so the layout
// algorithm lives in its own package without an import cycle.
package render
