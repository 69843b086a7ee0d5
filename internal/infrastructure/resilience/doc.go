// Package resilience provides a circuit breaker for the action transport.
//
// The breaker protects a document's action queue from a flapping remote:
// repeated request failures open the circuit so further requests fail fast
// into errorPath state instead of tying up the queue for a full timeout
// each. After a cooldown the breaker admits trial requests (half-open) and
// closes again once they succeed.
package resilience
