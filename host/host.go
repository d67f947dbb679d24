package host

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/rep-table/canon"
	"github.com/wippyai/rep-table/rep"
)

// ResourceDef describes one resource type whose canonical built-ins
// should be exported to the guest.
type ResourceDef struct {
	Dtor   func(rep uint32)
	Name   string
	TypeID uint32
}

// DefFor builds a ResourceDef from a registered WIT resource type.
func DefFor(reg *canon.TypeRegistry, td *wit.TypeDef, dtor func(rep uint32)) (ResourceDef, error) {
	id, ok := reg.ID(td)
	if !ok {
		return ResourceDef{}, fmt.Errorf("resource type not registered")
	}
	return ResourceDef{
		Name:   reg.Name(id),
		TypeID: id,
		Dtor:   dtor,
	}, nil
}

// Instantiate builds and instantiates a host module exporting
// [resource-new], [resource-rep] and [resource-drop] for each resource
// definition, all backed by store.
//
// An invalid handle from the guest is a protocol violation: the
// built-in logs it and closes the calling module with exit code 1,
// which surfaces as a failed call on the guest side. The host process
// itself never crashes on a bad handle.
func Instantiate(ctx context.Context, r wazero.Runtime, moduleName string, store *canon.Store, defs []ResourceDef) (api.Module, error) {
	builder := r.NewHostModuleBuilder(moduleName)
	Register(builder, store, defs)

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", moduleName, err)
	}
	return mod, nil
}

// Register adds the built-in exports for each resource definition to an
// existing host module builder, for embeddings that mix resource
// built-ins with other host functions in one module.
func Register(builder wazero.HostModuleBuilder, store *canon.Store, defs []ResourceDef) {
	i32 := []api.ValueType{api.ValueTypeI32}

	for _, def := range defs {
		store.TableWithDtor(def.TypeID, def.Dtor)

		builder.NewFunctionBuilder().
			WithGoModuleFunction(resourceNewFunc(store, def), i32, i32).
			Export(NewName(def.Name))
		builder.NewFunctionBuilder().
			WithGoModuleFunction(resourceRepFunc(store, def), i32, i32).
			Export(RepName(def.Name))
		builder.NewFunctionBuilder().
			WithGoModuleFunction(resourceDropFunc(store, def), i32, nil).
			Export(DropName(def.Name))
	}
}

func resourceNewFunc(store *canon.Store, def ResourceDef) api.GoModuleFunction {
	return api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
		h := canon.ResourceNew(store, def.TypeID, uint32(stack[0]))
		stack[0] = uint64(h)
	})
}

func resourceRepFunc(store *canon.Store, def ResourceDef) api.GoModuleFunction {
	return api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
		repValue, err := canon.ResourceRep(store, def.TypeID, rep.Handle(stack[0]))
		if err != nil {
			trap(ctx, mod, def.Name, "resource-rep", err)
			return
		}
		stack[0] = uint64(repValue)
	})
}

func resourceDropFunc(store *canon.Store, def ResourceDef) api.GoModuleFunction {
	return api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
		if err := canon.ResourceDrop(store, def.TypeID, rep.Handle(stack[0])); err != nil {
			trap(ctx, mod, def.Name, "resource-drop", err)
		}
	})
}

// trap closes the calling module with exit code 1.
func trap(ctx context.Context, mod api.Module, resource, op string, err error) {
	Logger().Warn("trapping guest on resource built-in",
		zap.String("resource", resource),
		zap.String("op", op),
		zap.Error(err))
	if mod != nil {
		_ = mod.CloseWithExitCode(ctx, 1)
	}
}
