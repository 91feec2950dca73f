package closure

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cPlayIt/motoko/errors"
	"github.com/cPlayIt/motoko/trap"
)

// noFree terminates the free list.
const noFree = -1

// slot is either occupied (live, value set) or free (next links to the
// following free slot).
type slot[V any] struct {
	value V
	next  int
	live  bool
}

// Table is a growable slot table with free-list reuse.
type Table[V any] struct {
	slots     []slot[V]
	observers []Observer
	free      int
	live      int
}

// New creates an empty table.
func New[V any](opts ...Option) *Table[V] {
	o := options{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Table[V]{
		free:      noFree,
		observers: o.observers,
	}
	t.extend(o.capacity)
	return t
}

// Remember stores v and returns its handle.
func (t *Table[V]) Remember(v V) Handle {
	if t.free == noFree {
		t.grow()
	}

	idx := t.free
	s := &t.slots[idx]
	t.free = s.next
	s.value = v
	s.next = noFree
	s.live = true
	t.live++

	h := Handle(idx)
	t.notify(Event{Type: EventRemembered, Handle: h, Value: v, Cap: len(t.slots)})
	return h
}

// Recall returns the value stored under h and frees the slot.
// A handle that is out of range or already free raises a trap.
func (t *Table[V]) Recall(h Handle) V {
	idx := int(h)
	if idx >= len(t.slots) {
		trap.Raise(errors.HandleViolation(uint32(h),
			fmt.Sprintf("out of range (capacity %d)", len(t.slots))))
	}

	s := &t.slots[idx]
	if !s.live {
		trap.Raise(errors.HandleViolation(uint32(h), "slot is free"))
	}

	v := s.value
	var zero V
	s.value = zero
	s.live = false
	s.next = t.free
	t.free = idx
	t.live--

	t.notify(Event{Type: EventRecalled, Handle: h, Value: v, Cap: len(t.slots)})
	return v
}

// Count returns the number of outstanding handles.
func (t *Table[V]) Count() int {
	return t.live
}

// Cap returns the number of slots.
func (t *Table[V]) Cap() int {
	return len(t.slots)
}

// Each calls fn for every live slot in handle order until fn returns false.
func (t *Table[V]) Each(fn func(Handle, V) bool) {
	for i := range t.slots {
		if t.slots[i].live {
			if !fn(Handle(i), t.slots[i].value) {
				return
			}
		}
	}
}

// Dump writes the live slots of the table to w.
func (t *Table[V]) Dump(w io.Writer) error {
	if t.live == 0 {
		_, err := fmt.Fprintln(w, "Closure table empty")
		return err
	}

	if _, err := fmt.Fprintf(w, "Closure table: %d live, capacity %d\n", t.live, len(t.slots)); err != nil {
		return err
	}

	var err error
	t.Each(func(h Handle, v V) bool {
		_, err = fmt.Fprintf(w, "%d: %v\n", h, v)
		return err == nil
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, "End of closure table")
	return err
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[V]) Subscribe(o Observer) {
	t.observers = append(t.observers, o)
}

// grow doubles the capacity. Only called with an empty free list.
func (t *Table[V]) grow() {
	old := len(t.slots)
	t.extend(max(old, 1))

	Logger().Debug("closure table grown",
		zap.Int("from", old),
		zap.Int("to", len(t.slots)),
		zap.Int("live", t.live),
	)
	t.notify(Event{Type: EventGrown, Cap: len(t.slots)})
}

// extend appends n free slots linked in index order ahead of the current
// free list.
func (t *Table[V]) extend(n int) {
	start := len(t.slots)
	t.slots = append(t.slots, make([]slot[V], n)...)
	for i := start; i < len(t.slots)-1; i++ {
		t.slots[i].next = i + 1
	}
	t.slots[len(t.slots)-1].next = t.free
	t.free = start
}

func (t *Table[V]) notify(e Event) {
	for _, o := range t.observers {
		o.OnClosureEvent(e)
	}
}
