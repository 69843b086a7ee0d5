// Package document defines the typed Document Definition model and its parser.
//
// A document is a single JSON (or YAML) artifact describing a screen: initial
// state, named styles with single inheritance, named actions, named data
// sources, and a root node tree. Documents are immutable once parsed; the
// resolver and action runtime operate on the typed specs produced here.
//
// Key Components:
//   - Document: top-level definition (state, styles, actions, dataSources, root)
//   - Node: closed union over node kinds (containers, label, button, ...)
//   - Action: closed union over action types (setState, sequence, request, ...)
//   - Dynamic: a literal value or a {"$expr": "..."} template payload
//
// Load-time validation rejects unknown node/action type tags, leaf nodes with
// children, grid sections with columns < 1, and dangling action references,
// each reported with the path of the offending spec. Style inheritance cycles
// are detected when the style resolver is constructed over Document.Styles.
package document
