// Package optimistic applies local edits immediately and reconciles them
// with the outcome of the remote write that follows.
package optimistic

import (
	"context"
	"errors"
	"sync"
)

// ErrGone is returned by Apply when the target is not in local state.
var ErrGone = errors.New("mutation target not found")

// Mutation describes one optimistically edited value.
//
// Key identifies the value (entity and field); writes to the same key are
// sequenced against each other. Get reads the current local value and
// reports false when the entity is gone. Set writes a local value and reports
// false when the entity is gone. Commit performs the remote write and returns
// the canonical value.
//
// KeepLocal marks values that aggregate other entities, such as a whole list.
// A successful commit then leaves local state as it is and only records it as
// the confirmed baseline, so edits made to the parts in the meantime survive.
type Mutation[V any] struct {
	Key       string
	Get       func() (V, bool)
	Set       func(V) bool
	Commit    func(ctx context.Context, next V) (V, error)
	KeepLocal bool
}

// Pending performs the remote half of a mutation and reconciles local state
// with its outcome. It returns the remote error, if any.
type Pending func(ctx context.Context) error

type inflight struct {
	id    uint64
	value any
}

type keyState struct {
	// baseline is the last value the store is known to hold.
	baseline  any
	inflight  []inflight
	confirmed uint64
}

// Coordinator tracks in-flight mutations per key.
type Coordinator struct {
	mu     sync.Mutex
	nextID uint64
	keys   map[string]*keyState
}

func NewCoordinator() *Coordinator {
	return &Coordinator{keys: make(map[string]*keyState)}
}

// InFlight returns the number of mutations awaiting a remote outcome.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, st := range c.keys {
		n += len(st.inflight)
	}
	return n
}

// Apply writes next locally and returns the pending remote commit.
//
// When the commit succeeds, the canonical value replaces the local one unless
// a newer write to the same key is still in flight or already confirmed, or
// the mutation keeps its local value.
// When it fails, the key is restored to the newest remaining in-flight value,
// or to the last confirmed value, unless a newer write supersedes it. A
// completion whose entity is gone is dropped.
func Apply[V any](c *Coordinator, m Mutation[V], next V) (Pending, error) {
	c.mu.Lock()
	cur, ok := m.Get()
	if !ok {
		c.mu.Unlock()
		return nil, ErrGone
	}
	st := c.keys[m.Key]
	if st == nil {
		st = &keyState{baseline: cur}
		c.keys[m.Key] = st
	}
	c.nextID++
	id := c.nextID
	st.inflight = append(st.inflight, inflight{id: id, value: next})
	m.Set(next)
	c.mu.Unlock()

	return func(ctx context.Context) error {
		canonical, err := m.Commit(ctx, next)
		settle(c, m, id, canonical, err)
		return err
	}, nil
}

func settle[V any](c *Coordinator, m Mutation[V], id uint64, canonical V, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.keys[m.Key]
	if st == nil {
		return
	}
	for i, f := range st.inflight {
		if f.id == id {
			st.inflight = append(st.inflight[:i], st.inflight[i+1:]...)
			break
		}
	}
	superseded := false
	for _, f := range st.inflight {
		if f.id > id {
			superseded = true
			break
		}
	}

	switch {
	case id < st.confirmed:
		// A newer write already landed.
	case err == nil && m.KeepLocal:
		st.confirmed = id
		if cur, ok := m.Get(); ok {
			st.baseline = cur
		}
	case err == nil:
		st.confirmed = id
		st.baseline = canonical
		if !superseded {
			m.Set(canonical)
		}
	case !superseded:
		restore := st.baseline
		if n := len(st.inflight); n > 0 {
			restore = st.inflight[n-1].value
		}
		if v, ok := restore.(V); ok {
			m.Set(v)
		}
	}

	if len(st.inflight) == 0 {
		delete(c.keys, m.Key)
	}
}
