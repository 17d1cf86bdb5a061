// Package reactive provides the reactive store and dependency registry that
// drive vbind bindings.
//
// # Store
//
// Observe wraps a plain nested mapping in an Object. Every key gets a slot
// behind Get/Set accessors. Nested mappings become nested Objects and
// sequences become Lists, so the structure is reactive all the way down:
//
//	data := reactive.Observe(map[string]any{"a": map[string]any{"b": 1}}, reg)
//	data.Set("a", map[string]any{"b": 2}) // new value is wrapped, reg notified
//
// Set compares the new value with the cached one using strict equality
// (identity for composites, value for scalars) and does nothing when they
// match. Assigning a composite always wraps a fresh owned copy, so the same
// raw mapping assigned at two paths never shares state.
//
// # Registry
//
// A Registry is an ordered list of subscribers, each a dotted path plus a
// callback. Notify runs every subscriber in registration order: it resolves
// the subscriber's path from the root and hands the value to the callback.
// The registry carries no record of what changed, so one write re-runs every
// subscriber (ModeBroadcast). ModeFiltered is an alternative that only runs
// subscribers whose path overlaps the written one.
//
// Notification is synchronous and reentrant. A callback that writes to the
// store starts a nested pass before the outer pass returns; there is no guard
// against a callback that writes a different value every time.
//
// # Thread Safety
//
// Objects and Lists are not safe for concurrent use. Callers that share a
// store across goroutines must serialize access themselves, as pkg/server
// does per session.
package reactive
