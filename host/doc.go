// Package host exports the canonical resource built-ins to wazero
// guests.
//
// For each resource type it registers three host functions under the
// Component Model's mangled names:
//
//	[resource-new]blob   (i32 rep)    -> i32 handle
//	[resource-rep]blob   (i32 handle) -> i32 rep
//	[resource-drop]blob  (i32 handle)
//
// All three are thin adapters over a canon.Store. A guest-supplied
// handle that does not name a live resource traps the calling module,
// matching the canonical ABI's treatment of stale or double-freed
// handles.
package host
