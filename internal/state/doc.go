// Package state implements the path-addressed document state store.
//
// State is an arbitrary JSON-like value tree addressed by dotted and
// bracket-indexed paths ("cartItems[0].price"). Mutations go through the
// store's operations only; Set creates intermediate containers as needed.
// Every mutation publishes a changed-path set containing the mutated path,
// all of its ancestors, and the paths of any values nested under the new
// value, so a binding on "items.count" is notified when "items" changes.
//
// All operations are synchronous. The store carries a lock so observers may
// read while the action queue mutates, but sequencing guarantees come from
// the per-document action queue, not from here.
package state
