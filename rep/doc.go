// Package rep implements the representation table that maps integer
// handles to host-side resource instances for Component Model
// embeddings.
//
// When a guest creates or receives a resource, the host hands back a
// small integer instead of a native pointer; later calls use that
// integer to recover the instance. Table is the single source of truth
// for that mapping within one resource type and one component instance.
//
// # Handle Table
//
// Table is a free-list-backed dense array. The slot index is the
// handle:
//
//	table := rep.NewTable[*File]()
//
//	// Insert a value, get a handle
//	h := table.Add(f)
//
//	// Retrieve value by handle
//	f, err := table.Get(h)
//
//	// Remove and get value back (ownership transfer)
//	f, err := table.Remove(h)
//
// Vacated slots are reused LIFO: after Remove(h), the next Add returns
// h again. A handle is therefore only unique between its Add and its
// matching Remove.
//
// # Errors
//
// Get and Remove fail with an error matching ErrInvalidHandle when the
// handle is out of range or the slot is vacant. This is a recoverable
// condition - it is how a double-free or stale handle from the guest
// surfaces - and the embedding decides how to react, typically by
// trapping the guest call.
//
// # Type Safety
//
// Table is generic: use one table per resource kind rather than one
// any-valued table for everything, so a handle for one type can never
// yield a value of another.
//
// # Concurrency
//
// Table is unsynchronized, matching the canonical ABI's
// non-reentrant-per-instance execution model. Guarded wraps a table in
// a mutex for deployments that genuinely share one across threads.
//
// # Lifecycle Tracking
//
// Tracked adds observers and a removed-value counter. Disposal is
// always explicit: Remove transfers ownership out, Clear drops values
// implementing Dropper. No finalizers are involved, so resource
// accounting is deterministic.
package rep
