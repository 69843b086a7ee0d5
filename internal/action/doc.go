// Package action executes action specs against a document's state store.
//
// Every document instance owns one Runtime with a single serial queue: an
// action, including a sequence with suspending sub-steps, runs to
// completion before the next queued action starts, so no two actions ever
// interleave mutations against the same store. Leaf actions move through
// the phases idle, resolving parameters, executing, and completed or
// failed; $expr payloads are evaluated against the state current at
// execution time, so later sequence steps observe earlier writes.
//
// Request failures never surface through the queue: they are written to the
// action's errorPath and the loading flag is always cleared. A failing step
// inside a sequence aborts the remaining steps. Closing the runtime flips a
// liveness gate so callbacks from in-flight requests become no-ops instead
// of mutating a released store.
//
// Boundary collaborators are host-provided: a Transport performs network
// calls, a Presenter receives showAlert/dismiss/navigate intents unchanged,
// and a Registry maps custom action names to handlers registered before
// document load.
package action
