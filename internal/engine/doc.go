// Package engine binds the parsed document, state store, resolvers, and
// action runtime into live document instances.
//
// An instance re-resolves the whole render tree after every state change
// batch. Whole-tree resolution is the simple always-correct strategy; the
// store still publishes fine-grained changed-path sets, so a subtree-level
// strategy can be swapped in behind the same subscription without touching
// callers. Fresh trees are fanned out to attached sinks (the renderer
// collaborators), along with presentation intents from the action runtime.
//
// The Manager tracks live instances by generated ID and owns the shared
// expression evaluator, transport, and custom action registry.
package engine
