package rep

import (
	"errors"
	"fmt"
)

// Handle is an index into a Table, standing in for a resource instance
// across the canonical ABI boundary. Handles are dense, start at 0, and
// are recycled after removal: a handle identifies its instance only
// between the Add that issued it and the matching Remove.
type Handle uint32

// MaxSlots bounds the table so every handle fits the canonical ABI's
// 32-bit handle encoding with room to spare.
const MaxSlots = 1 << 28

// noVacant marks an empty free list.
const noVacant = ^Handle(0)

// ErrInvalidHandle is matched (via errors.Is) by every error returned
// from Get and Remove. It signals a boundary contract violation by the
// caller - a handle that was never issued, already removed, or out of
// range - not an internal bug.
var ErrInvalidHandle = errors.New("invalid handle")

// InvalidHandleError reports the offending handle value.
type InvalidHandleError struct {
	Handle Handle
}

func (e *InvalidHandleError) Error() string {
	return fmt.Sprintf("rep: invalid handle %d", e.Handle)
}

// Is reports a match for the ErrInvalidHandle sentinel.
func (e *InvalidHandleError) Is(target error) bool {
	return target == ErrInvalidHandle
}

// slot holds either a live value or a link to the next vacant slot.
// The two states share storage; occupied is the tag.
type slot[T any] struct {
	value    T
	next     Handle
	occupied bool
}

// Table assigns stable integer handles to values of type T. The slot
// index is the handle; vacated slots are threaded onto a LIFO free list
// headed by firstVacant, so the most recently removed handle is the
// next one reused.
//
// A Table is unsynchronized: it models a per-component-instance table
// touched by one guest call stack at a time. Wrap it in Guarded, or use
// one Table per instance, when native threads share it.
type Table[T any] struct {
	slots       []slot[T]
	firstVacant Handle
	live        int
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{firstVacant: noVacant}
}

// Add stores v and returns its handle, reusing the most recently
// vacated slot when one exists. Add always succeeds; it panics only if
// the table would outgrow MaxSlots, which is treated like any other
// fatal allocation failure in the host.
func (t *Table[T]) Add(v T) Handle {
	if t.firstVacant != noVacant {
		h := t.firstVacant
		s := &t.slots[h]
		t.firstVacant = s.next
		s.value = v
		s.next = 0
		s.occupied = true
		t.live++
		return h
	}

	if len(t.slots) >= MaxSlots {
		panic(fmt.Sprintf("rep: table exceeds %d slots", MaxSlots))
	}

	t.slots = append(t.slots, slot[T]{value: v, occupied: true})
	t.live++
	return Handle(len(t.slots) - 1)
}

// Get returns the value stored under h without removing it.
func (t *Table[T]) Get(h Handle) (T, error) {
	if int64(h) >= int64(len(t.slots)) || !t.slots[h].occupied {
		var zero T
		return zero, &InvalidHandleError{Handle: h}
	}
	return t.slots[h].value, nil
}

// Remove vacates h and returns the value it held, transferring
// ownership back to the caller. The slot becomes the head of the free
// list and the table keeps no reference to the value.
func (t *Table[T]) Remove(h Handle) (T, error) {
	if int64(h) >= int64(len(t.slots)) || !t.slots[h].occupied {
		var zero T
		return zero, &InvalidHandleError{Handle: h}
	}

	s := &t.slots[h]
	v := s.value

	var zero T
	s.value = zero
	s.occupied = false
	s.next = t.firstVacant
	t.firstVacant = h
	t.live--

	return v, nil
}

// Len returns the number of live values.
func (t *Table[T]) Len() int {
	return t.live
}

// Cap returns the number of slots, occupied and vacant.
func (t *Table[T]) Cap() int {
	return len(t.slots)
}

// Each calls fn for every live value in handle order until fn returns
// false. The table must not be mutated during iteration.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	for i := range t.slots {
		if t.slots[i].occupied {
			if !fn(Handle(i), t.slots[i].value) {
				return
			}
		}
	}
}

// NextVacant reports the slot the next Add will reuse, or false when
// the free list is empty and Add will append. Diagnostic use only.
func (t *Table[T]) NextVacant() (Handle, bool) {
	if t.firstVacant == noVacant {
		return 0, false
	}
	return t.firstVacant, true
}

// VacantAfter follows the free-list link stored in a vacant slot.
// Diagnostic use only; returns false for occupied or out-of-range
// slots, or when h ends the list.
func (t *Table[T]) VacantAfter(h Handle) (Handle, bool) {
	if int64(h) >= int64(len(t.slots)) || t.slots[h].occupied {
		return 0, false
	}
	if t.slots[h].next == noVacant {
		return 0, false
	}
	return t.slots[h].next, true
}
