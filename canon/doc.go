// Package canon layers the Component Model's canonical resource
// lifecycle over the rep package's representation tables.
//
// A ResourceTable manages the owned handles of one resource type:
// resource.new mints an own handle from a representation value,
// resource.rep recovers the representation, and resource.drop releases
// the handle, running the type's destructor when the last reference
// goes. Borrow/EndBorrow implement the lend tracking that keeps a
// resource alive across a call that borrowed it.
//
// A Store groups tables by resource type ID, and TypeRegistry derives
// those IDs from WIT resource type definitions so the layer plugs into
// a parsed world:
//
//	reg := canon.NewTypeRegistry()
//	blobID, _ := reg.Register(blobTypeDef)
//
//	store := canon.NewStore()
//	h := canon.ResourceNew(store, blobID, ptr)
//	rep, err := canon.ResourceRep(store, blobID, h)
//	err = canon.ResourceDrop(store, blobID, h)
//
// Every invalid-handle failure wraps rep.ErrInvalidHandle, so the
// embedding can distinguish guest protocol violations (and typically
// trap) from host-side state errors such as dropping while borrowed.
package canon
