// Package resource holds the client-side state shared by every CRUD resource kind: an
// insertion-ordered collection, one focused item, and a loading flag.
//
// Collections never talk to the network. Stores call the remote service and only then
// apply the confirmed result here, so every mutation is pessimistic.
package resource

import (
	"context"
	"sync"
)

// Identifiable is implemented by resources keyed by an opaque, comparable id. Clone
// returns a deep copy; the collection stores and hands out clones only, so callers
// never share memory with its state.
type Identifiable[ID comparable, T any] interface {
	ResourceID() ID
	Clone() T
}

// Snapshot is a point-in-time copy of a collection's state.
type Snapshot[ID comparable, T Identifiable[ID, T]] struct {
	Items   []T
	Focused *T
	Loading bool
}

// Collection is safe for concurrent use. The mutex only guards state swaps; it is never
// held across a remote call, so concurrent operations interleave and the last confirmed
// response wins.
type Collection[ID comparable, T Identifiable[ID, T]] struct {
	mu      sync.Mutex
	items   []T
	focused *T
	loading bool

	subMu   sync.Mutex
	subs    map[int]func(Snapshot[ID, T])
	nextSub int
}

func NewCollection[ID comparable, T Identifiable[ID, T]]() *Collection[ID, T] {
	return &Collection[ID, T]{
		subs: make(map[int]func(Snapshot[ID, T])),
	}
}

// Track runs fn with the loading flag raised and lowers it when fn returns, panics
// included. The flag is a single boolean: with two calls in flight, the first to settle
// lowers it.
func (c *Collection[ID, T]) Track(ctx context.Context, fn func(ctx context.Context) error) error {
	c.setLoading(true)
	defer c.setLoading(false)
	return fn(ctx)
}

func (c *Collection[ID, T]) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// ReplaceAll swaps the whole sequence, keeping server order. Duplicate ids keep their
// first occurrence. A focused item whose id appears in items is refreshed to that value.
func (c *Collection[ID, T]) ReplaceAll(items []T) {
	next := make([]T, 0, len(items))
	seen := make(map[ID]struct{}, len(items))
	for _, it := range items {
		id := it.ResourceID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		next = append(next, it.Clone())
	}

	c.mu.Lock()
	c.items = next
	if c.focused != nil {
		if i := indexOf(c.items, (*c.focused).ResourceID()); i >= 0 {
			v := c.items[i].Clone()
			c.focused = &v
		}
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Focus makes item the focused resource. Membership and order of the sequence are not
// changed, but an element with the same id is refreshed so the two never diverge.
func (c *Collection[ID, T]) Focus(item T) {
	c.mu.Lock()
	v := item.Clone()
	c.focused = &v
	if i := indexOf(c.items, item.ResourceID()); i >= 0 {
		c.items[i] = item.Clone()
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// ClearFocus drops the focused item.
func (c *Collection[ID, T]) ClearFocus() {
	c.mu.Lock()
	c.focused = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Prepend inserts item at the head of the sequence (newest first). An existing element
// with the same id is dropped to keep ids unique. When focus is true the item also
// becomes the focused resource; otherwise the focused item is only refreshed if it
// already had this id.
func (c *Collection[ID, T]) Prepend(item T, focus bool) {
	id := item.ResourceID()

	c.mu.Lock()
	next := make([]T, 0, len(c.items)+1)
	next = append(next, item.Clone())
	for _, it := range c.items {
		if it.ResourceID() != id {
			next = append(next, it)
		}
	}
	c.items = next
	if focus || (c.focused != nil && (*c.focused).ResourceID() == id) {
		v := item.Clone()
		c.focused = &v
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Replace swaps the element with item's id and, iff it has the same id, the focused
// item, in one critical section. It reports whether anything was replaced.
func (c *Collection[ID, T]) Replace(item T) bool {
	id := item.ResourceID()

	c.mu.Lock()
	replaced := false
	if i := indexOf(c.items, id); i >= 0 {
		c.items[i] = item.Clone()
		replaced = true
	}
	if c.focused != nil && (*c.focused).ResourceID() == id {
		v := item.Clone()
		c.focused = &v
		replaced = true
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if replaced {
		c.notify(snap)
	}
	return replaced
}

// Remove deletes the element with id and clears the focused item if it had that id.
func (c *Collection[ID, T]) Remove(id ID) bool {
	c.mu.Lock()
	removed := false
	if i := indexOf(c.items, id); i >= 0 {
		next := make([]T, 0, len(c.items)-1)
		next = append(next, c.items[:i]...)
		next = append(next, c.items[i+1:]...)
		c.items = next
		removed = true
	}
	if c.focused != nil && (*c.focused).ResourceID() == id {
		c.focused = nil
		removed = true
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if removed {
		c.notify(snap)
	}
	return removed
}

// Items returns a deep copy of the sequence.
func (c *Collection[ID, T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneAll(c.items)
}

// Get returns the element with id, if present.
func (c *Collection[ID, T]) Get(id ID) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := indexOf(c.items, id); i >= 0 {
		return c.items[i].Clone(), true
	}
	var zero T
	return zero, false
}

// Focused returns the focused item, if any.
func (c *Collection[ID, T]) Focused() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.focused == nil {
		var zero T
		return zero, false
	}
	return (*c.focused).Clone(), true
}

func (c *Collection[ID, T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Collection[ID, T]) Snapshot() Snapshot[ID, T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Reset empties the collection, e.g. after logout.
func (c *Collection[ID, T]) Reset() {
	c.mu.Lock()
	c.items = nil
	c.focused = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Subscribe registers fn to receive a snapshot after every state change. Calls happen
// synchronously on the goroutine that changed the state. The returned func unsubscribes.
func (c *Collection[ID, T]) Subscribe(fn func(Snapshot[ID, T])) (cancel func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

func (c *Collection[ID, T]) snapshotLocked() Snapshot[ID, T] {
	s := Snapshot[ID, T]{
		Items:   cloneAll(c.items),
		Loading: c.loading,
	}
	if c.focused != nil {
		v := (*c.focused).Clone()
		s.Focused = &v
	}
	return s
}

func cloneAll[ID comparable, T Identifiable[ID, T]](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func (c *Collection[ID, T]) notify(s Snapshot[ID, T]) {
	c.subMu.Lock()
	fns := make([]func(Snapshot[ID, T]), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func indexOf[ID comparable, T Identifiable[ID, T]](items []T, id ID) int {
	for i, it := range items {
		if it.ResourceID() == id {
			return i
		}
	}
	return -1
}
