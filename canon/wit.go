package canon

import (
	"fmt"

	"go.bytecodealliance.org/wit"
)

// TypeRegistry assigns dense type IDs to WIT resource type
// definitions, so a Store can be driven directly from a parsed WIT
// world instead of hand-numbered constants. IDs are assigned in
// registration order and stable for the registry's lifetime.
type TypeRegistry struct {
	ids   map[*wit.TypeDef]uint32
	names []string
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		ids: make(map[*wit.TypeDef]uint32),
	}
}

// Register assigns a type ID to a resource type definition. Registering
// the same definition again returns the existing ID.
func (r *TypeRegistry) Register(td *wit.TypeDef) (uint32, error) {
	if td == nil {
		return 0, fmt.Errorf("register resource: nil type definition")
	}
	if _, ok := td.Kind.(*wit.Resource); !ok {
		return 0, fmt.Errorf("register resource: %s is not a resource type", typeDefName(td))
	}

	if id, ok := r.ids[td]; ok {
		return id, nil
	}

	id := uint32(len(r.names))
	r.ids[td] = id
	r.names = append(r.names, typeDefName(td))
	return id, nil
}

// ID returns the type ID assigned to a resource type definition.
func (r *TypeRegistry) ID(td *wit.TypeDef) (uint32, bool) {
	id, ok := r.ids[td]
	return id, ok
}

// HandleType resolves a handle-shaped WIT type (own<T> or borrow<T>)
// to the registered type ID of its resource.
func (r *TypeRegistry) HandleType(t wit.Type) (uint32, bool) {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return 0, false
	}

	switch kind := td.Kind.(type) {
	case *wit.Own:
		if kind.Type == nil {
			return 0, false
		}
		return r.ids[kind.Type], r.contains(kind.Type)
	case *wit.Borrow:
		if kind.Type == nil {
			return 0, false
		}
		return r.ids[kind.Type], r.contains(kind.Type)
	case *wit.Resource:
		id, ok := r.ids[td]
		return id, ok
	default:
		return 0, false
	}
}

// Name returns the registered name for a type ID, for diagnostics.
func (r *TypeRegistry) Name(id uint32) string {
	if int(id) >= len(r.names) {
		return fmt.Sprintf("resource#%d", id)
	}
	return r.names[id]
}

// Len returns the number of registered resource types.
func (r *TypeRegistry) Len() int {
	return len(r.names)
}

func (r *TypeRegistry) contains(td *wit.TypeDef) bool {
	_, ok := r.ids[td]
	return ok
}

func typeDefName(td *wit.TypeDef) string {
	if td.Name != nil {
		return *td.Name
	}
	return "<anonymous>"
}
