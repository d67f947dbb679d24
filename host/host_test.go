package host

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/rep-table/canon"
)

func TestBuiltinsRoundTrip(t *testing.T) {
	ctx := context.Background()
	// The compiler engine cannot invoke host-module exports directly;
	// the interpreter is required for calling the built-ins in-process.
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	store := canon.NewStore()
	mod, err := Instantiate(ctx, r, "test:resources", store, []ResourceDef{
		{Name: "blob", TypeID: 1},
	})
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}

	newFn := mod.ExportedFunction("[resource-new]blob")
	repFn := mod.ExportedFunction("[resource-rep]blob")
	dropFn := mod.ExportedFunction("[resource-drop]blob")
	if newFn == nil || repFn == nil || dropFn == nil {
		t.Fatal("built-in exports missing")
	}

	res, err := newFn.Call(ctx, 42)
	if err != nil {
		t.Fatalf("resource-new failed: %v", err)
	}
	handle := res[0]

	res, err = repFn.Call(ctx, handle)
	if err != nil {
		t.Fatalf("resource-rep failed: %v", err)
	}
	if res[0] != 42 {
		t.Errorf("resource-rep = %d, want 42", res[0])
	}

	if _, err := dropFn.Call(ctx, handle); err != nil {
		t.Fatalf("resource-drop failed: %v", err)
	}

	if store.Live() != 0 {
		t.Errorf("Live = %d after drop, want 0", store.Live())
	}
}

func TestBuiltinsRunDestructor(t *testing.T) {
	ctx := context.Background()
	// The compiler engine cannot invoke host-module exports directly;
	// the interpreter is required for calling the built-ins in-process.
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	var dropped []uint32
	store := canon.NewStore()
	mod, err := Instantiate(ctx, r, "test:resources", store, []ResourceDef{
		{Name: "blob", TypeID: 1, Dtor: func(rep uint32) { dropped = append(dropped, rep) }},
	})
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}

	res, err := mod.ExportedFunction("[resource-new]blob").Call(ctx, 7)
	if err != nil {
		t.Fatalf("resource-new failed: %v", err)
	}
	if _, err := mod.ExportedFunction("[resource-drop]blob").Call(ctx, res[0]); err != nil {
		t.Fatalf("resource-drop failed: %v", err)
	}

	if len(dropped) != 1 || dropped[0] != 7 {
		t.Errorf("destructor runs = %v, want [7]", dropped)
	}
}

func TestInvalidHandleTrapsGuest(t *testing.T) {
	ctx := context.Background()
	// The compiler engine cannot invoke host-module exports directly;
	// the interpreter is required for calling the built-ins in-process.
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	store := canon.NewStore()
	mod, err := Instantiate(ctx, r, "test:resources", store, []ResourceDef{
		{Name: "blob", TypeID: 1},
	})
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}

	// Handle 99 was never issued; the call must fail, not the host.
	if _, err := mod.ExportedFunction("[resource-rep]blob").Call(ctx, 99); err == nil {
		t.Error("resource-rep on bogus handle succeeded, want trap")
	}
}

func TestMultipleResourceTypes(t *testing.T) {
	ctx := context.Background()
	// The compiler engine cannot invoke host-module exports directly;
	// the interpreter is required for calling the built-ins in-process.
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	store := canon.NewStore()
	mod, err := Instantiate(ctx, r, "test:resources", store, []ResourceDef{
		{Name: "blob", TypeID: 1},
		{Name: "file", TypeID: 2},
	})
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}

	res1, err := mod.ExportedFunction("[resource-new]blob").Call(ctx, 10)
	if err != nil {
		t.Fatalf("new blob failed: %v", err)
	}
	res2, err := mod.ExportedFunction("[resource-new]file").Call(ctx, 20)
	if err != nil {
		t.Fatalf("new file failed: %v", err)
	}

	// Independent handle spaces: both first handles are 0.
	if res1[0] != 0 || res2[0] != 0 {
		t.Errorf("first handles = %d, %d, want 0, 0", res1[0], res2[0])
	}

	got, err := mod.ExportedFunction("[resource-rep]file").Call(ctx, res2[0])
	if err != nil || got[0] != 20 {
		t.Errorf("rep file = %v, %v, want 20, nil", got, err)
	}
}

func TestDefFor(t *testing.T) {
	reg := canon.NewTypeRegistry()
	name := "blob"
	td := &wit.TypeDef{Name: &name, Kind: &wit.Resource{}}

	if _, err := DefFor(reg, td, nil); err == nil {
		t.Error("DefFor accepted unregistered type")
	}

	id, err := reg.Register(td)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	def, err := DefFor(reg, td, nil)
	if err != nil {
		t.Fatalf("DefFor failed: %v", err)
	}
	if def.Name != "blob" || def.TypeID != id {
		t.Errorf("DefFor = %+v, want name blob, type %d", def, id)
	}
}
