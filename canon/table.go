package canon

import (
	"errors"
	"fmt"
	"sync"

	"github.com/wippyai/rep-table/rep"
)

var (
	// ErrOutstandingBorrow is returned by Drop while the guest still
	// holds borrows of the handle.
	ErrOutstandingBorrow = errors.New("cannot drop resource with outstanding borrows")

	// ErrNoActiveBorrow is returned by EndBorrow when the handle has no
	// borrow to return.
	ErrNoActiveBorrow = errors.New("no active borrow for handle")
)

// entry tracks one owned resource. rep is the guest-chosen
// representation value (typically a guest memory pointer); refCount
// counts own handles, lendCount active borrows.
type entry struct {
	rep       uint32
	refCount  int32
	lendCount int32
}

// ResourceTable manages the owned handles of a single resource type.
// It layers the canonical ABI's own/borrow bookkeeping over a
// rep.Table: the slot is vacated only when the last own handle is
// dropped, and a handle with outstanding borrows refuses to drop.
//
// ResourceTable serializes its own access, so one table may be shared
// by host functions running on behalf of concurrent guest instances.
type ResourceTable struct {
	dtor  func(rep uint32)
	table *rep.Table[*entry]
	mu    sync.Mutex
}

// NewResourceTable creates an empty table with an optional destructor.
func NewResourceTable(dtor func(rep uint32)) *ResourceTable {
	return &ResourceTable{
		dtor:  dtor,
		table: rep.NewTable[*entry](),
	}
}

// New creates an owned resource with ref count 1.
func (t *ResourceTable) New(repValue uint32) rep.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.table.Add(&entry{rep: repValue, refCount: 1})
}

// Rep returns the representation value for a live handle.
func (t *ResourceTable) Rep(h rep.Handle) (uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.table.Get(h)
	if err != nil {
		return 0, fmt.Errorf("resource.rep: %w", err)
	}
	return e.rep, nil
}

// Drop releases one own handle. When the last own handle goes, the
// slot is vacated and needsDtor reports whether the caller must run
// the destructor with the returned rep.
func (t *ResourceTable) Drop(h rep.Handle) (repValue uint32, needsDtor bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.table.Get(h)
	if err != nil {
		return 0, false, fmt.Errorf("resource.drop: %w", err)
	}

	if e.lendCount > 0 {
		return 0, false, fmt.Errorf("resource.drop: handle %d: %w", h, ErrOutstandingBorrow)
	}

	e.refCount--
	if e.refCount > 0 {
		return 0, false, nil
	}

	if _, err := t.table.Remove(h); err != nil {
		return 0, false, fmt.Errorf("resource.drop: %w", err)
	}
	return e.rep, t.dtor != nil, nil
}

// Borrow lends the resource to the guest for the duration of a call.
// The handle cannot be dropped until EndBorrow is called.
func (t *ResourceTable) Borrow(h rep.Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.table.Get(h)
	if err != nil {
		return fmt.Errorf("resource.borrow: %w", err)
	}
	e.lendCount++
	return nil
}

// EndBorrow returns a borrow taken with Borrow.
func (t *ResourceTable) EndBorrow(h rep.Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.table.Get(h)
	if err != nil {
		return fmt.Errorf("resource.end-borrow: %w", err)
	}
	if e.lendCount <= 0 {
		return fmt.Errorf("resource.end-borrow: handle %d: %w", h, ErrNoActiveBorrow)
	}
	e.lendCount--
	return nil
}

// Clone adds an own handle reference, for duplicating owned handles.
func (t *ResourceTable) Clone(h rep.Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.table.Get(h)
	if err != nil {
		return fmt.Errorf("resource.clone: %w", err)
	}
	e.refCount++
	return nil
}

// Len returns the count of live resources for diagnostics.
func (t *ResourceTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.table.Len()
}

// RunDestructor invokes the destructor if one was configured. Called
// by ResourceDrop after Drop reports needsDtor.
func (t *ResourceTable) RunDestructor(repValue uint32) {
	if t.dtor != nil {
		t.dtor(repValue)
	}
}
