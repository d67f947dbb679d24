package rep

// EventType classifies resource lifecycle events.
type EventType uint8

const (
	EventAdded EventType = iota
	EventRemoved
)

// Event describes one lifecycle transition in a tracked table.
type Event struct {
	Value  any
	Handle Handle
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnTableEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnTableEvent(e Event) { f(e) }

// Dropper is optionally implemented by values that need cleanup when
// the table itself disposes of them (Clear/Close). A plain Remove
// transfers ownership out and never calls Drop - final disposal belongs
// to the caller at that point.
type Dropper interface {
	Drop()
}

// Tracked wraps a Table with lifecycle observers and drop accounting.
// Removal is always explicit; nothing in this package runs off a
// finalizer, so the removed count is deterministic at any point in a
// test or trace.
type Tracked[T any] struct {
	table     Table[T]
	observers []Observer
	removed   int
}

// NewTracked creates an empty tracked table.
func NewTracked[T any]() *Tracked[T] {
	t := &Tracked[T]{}
	t.table.firstVacant = noVacant
	return t
}

// Add stores v and notifies observers.
func (t *Tracked[T]) Add(v T) Handle {
	h := t.table.Add(v)
	t.notify(Event{Type: EventAdded, Handle: h, Value: v})
	return h
}

// Get returns the value stored under h.
func (t *Tracked[T]) Get(h Handle) (T, error) {
	return t.table.Get(h)
}

// Remove vacates h, notifies observers, and returns the value.
func (t *Tracked[T]) Remove(h Handle) (T, error) {
	v, err := t.table.Remove(h)
	if err != nil {
		return v, err
	}
	t.removed++
	t.notify(Event{Type: EventRemoved, Handle: h, Value: v})
	return v, nil
}

// Len returns the number of live values.
func (t *Tracked[T]) Len() int { return t.table.Len() }

// Cap returns the number of slots, occupied and vacant.
func (t *Tracked[T]) Cap() int { return t.table.Cap() }

// Removed returns how many values have been removed over the table's
// lifetime, including those dropped by Clear.
func (t *Tracked[T]) Removed() int { return t.removed }

// Each calls fn for every live value in handle order.
func (t *Tracked[T]) Each(fn func(Handle, T) bool) { t.table.Each(fn) }

// NextVacant reports the slot the next Add will reuse.
func (t *Tracked[T]) NextVacant() (Handle, bool) { return t.table.NextVacant() }

// VacantAfter follows the free-list link stored in a vacant slot.
func (t *Tracked[T]) VacantAfter(h Handle) (Handle, bool) { return t.table.VacantAfter(h) }

// Subscribe adds an observer for lifecycle events.
func (t *Tracked[T]) Subscribe(o Observer) {
	t.observers = append(t.observers, o)
}

// Unsubscribe removes a previously subscribed observer.
func (t *Tracked[T]) Unsubscribe(o Observer) {
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Clear removes every live value, calling Drop on values that
// implement Dropper. Used when the owning instance is torn down.
func (t *Tracked[T]) Clear() {
	var handles []Handle
	t.table.Each(func(h Handle, _ T) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		v, err := t.Remove(h)
		if err != nil {
			continue
		}
		if d, ok := any(v).(Dropper); ok {
			d.Drop()
		}
	}
}

func (t *Tracked[T]) notify(e Event) {
	for _, o := range t.observers {
		o.OnTableEvent(e)
	}
}
