package host

import (
	"strings"
)

// Canonical built-in export name prefixes per the Component Model's
// name mangling scheme.
const (
	prefixResourceNew  = "[resource-new]"
	prefixResourceRep  = "[resource-rep]"
	prefixResourceDrop = "[resource-drop]"
)

// Builtin identifies one of the canonical resource built-ins.
type Builtin uint8

const (
	BuiltinNew Builtin = iota
	BuiltinRep
	BuiltinDrop
)

func (b Builtin) String() string {
	switch b {
	case BuiltinNew:
		return "resource-new"
	case BuiltinRep:
		return "resource-rep"
	case BuiltinDrop:
		return "resource-drop"
	default:
		return "unknown"
	}
}

// NewName returns the export name for resource.new of a resource.
// Example: "blob" -> "[resource-new]blob".
func NewName(resource string) string { return prefixResourceNew + resource }

// RepName returns the export name for resource.rep of a resource.
func RepName(resource string) string { return prefixResourceRep + resource }

// DropName returns the export name for resource.drop of a resource.
func DropName(resource string) string { return prefixResourceDrop + resource }

// ParseName splits a mangled built-in export name into the operation
// and resource name. Returns ok=false for names that are not resource
// built-ins.
func ParseName(name string) (op Builtin, resource string, ok bool) {
	switch {
	case strings.HasPrefix(name, prefixResourceNew):
		return BuiltinNew, name[len(prefixResourceNew):], true
	case strings.HasPrefix(name, prefixResourceRep):
		return BuiltinRep, name[len(prefixResourceRep):], true
	case strings.HasPrefix(name, prefixResourceDrop):
		return BuiltinDrop, name[len(prefixResourceDrop):], true
	default:
		return 0, "", false
	}
}
