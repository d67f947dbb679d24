package canon

import (
	"errors"
	"testing"

	"github.com/wippyai/rep-table/rep"
)

func TestStoreTablePerType(t *testing.T) {
	store := NewStore()

	t1 := store.Table(1)
	t2 := store.Table(2)
	if t1 == t2 {
		t.Error("distinct type IDs share a table")
	}
	if store.Table(1) != t1 {
		t.Error("Table(1) not stable across calls")
	}
}

func TestStoreIndependentHandleSpaces(t *testing.T) {
	store := NewStore()

	h1 := ResourceNew(store, 1, 100)
	h2 := ResourceNew(store, 2, 200)

	// Each type gets its own table, so both start at handle 0.
	if h1 != 0 || h2 != 0 {
		t.Errorf("first handles = %d, %d, want 0, 0", h1, h2)
	}

	rep1, err := ResourceRep(store, 1, h1)
	if err != nil || rep1 != 100 {
		t.Errorf("ResourceRep(type 1) = %d, %v, want 100, nil", rep1, err)
	}
	rep2, err := ResourceRep(store, 2, h2)
	if err != nil || rep2 != 200 {
		t.Errorf("ResourceRep(type 2) = %d, %v, want 200, nil", rep2, err)
	}
}

func TestResourceDropRunsDtorOnce(t *testing.T) {
	store := NewStore()

	var dropped []uint32
	store.TableWithDtor(7, func(rep uint32) {
		dropped = append(dropped, rep)
	})

	h := ResourceNew(store, 7, 42)
	if err := ResourceDrop(store, 7, h); err != nil {
		t.Fatalf("ResourceDrop failed: %v", err)
	}
	if len(dropped) != 1 || dropped[0] != 42 {
		t.Errorf("destructor runs = %v, want [42]", dropped)
	}

	// Double drop fails and must not run the destructor again.
	if err := ResourceDrop(store, 7, h); !errors.Is(err, rep.ErrInvalidHandle) {
		t.Errorf("double ResourceDrop: err = %v, want ErrInvalidHandle", err)
	}
	if len(dropped) != 1 {
		t.Errorf("destructor ran %d times, want 1", len(dropped))
	}
}

func TestResourceDropClonedHandle(t *testing.T) {
	store := NewStore()

	var drops int
	store.TableWithDtor(3, func(uint32) { drops++ })

	h := ResourceNew(store, 3, 9)
	if err := store.Table(3).Clone(h); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	if err := ResourceDrop(store, 3, h); err != nil {
		t.Fatalf("first ResourceDrop failed: %v", err)
	}
	if drops != 0 {
		t.Fatalf("destructor ran before last reference dropped")
	}

	if err := ResourceDrop(store, 3, h); err != nil {
		t.Fatalf("second ResourceDrop failed: %v", err)
	}
	if drops != 1 {
		t.Errorf("destructor ran %d times, want 1", drops)
	}
}

func TestStoreLive(t *testing.T) {
	store := NewStore()

	ResourceNew(store, 1, 1)
	ResourceNew(store, 1, 2)
	h := ResourceNew(store, 2, 3)

	if store.Live() != 3 {
		t.Errorf("Live = %d, want 3", store.Live())
	}

	if err := ResourceDrop(store, 2, h); err != nil {
		t.Fatalf("ResourceDrop failed: %v", err)
	}
	if store.Live() != 2 {
		t.Errorf("Live after drop = %d, want 2", store.Live())
	}
}
