// Package optimistic holds the state protocol shared by every entity
// collection: an ordered list of items plus pending-operation flags, mutated
// optimistically before a remote call and then confirmed with the server's
// answer or reverted.
//
// Each operation follows idle -> pending -> confirmed|reverted. Begin*
// methods apply the local mutation and return a Token; Confirm and Revert
// settle that token. Items are treated as immutable values: the container
// replaces elements and never writes into an element's nested slices, so
// State copies share those slices safely.
package optimistic

import (
	"slices"
	"sync"

	apperrors "nebibs/internal/platform/errors"
)

type OpKind int

const (
	OpCreate OpKind = iota + 1
	OpUpdate
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// State is a copy of the container contents. Error is empty when no error is
// recorded.
type State[T any] struct {
	Items             []T
	Loading           bool
	Error             string
	Creating          bool
	UpdatingID        string
	DeletingID        string
	OptimisticRemoved *T
}

// Snapshot is the persisted subset of State. In-flight flags are not
// persisted because no call survives a restart.
type Snapshot[T any] struct {
	Items []T    `cbor:"items"`
	Error string `cbor:"error"`
}

// Messages are recorded when a failure carries no message of its own.
type Messages struct {
	Fetch  string
	Create string
	Update string
	Delete string
}

type Options[T any] struct {
	IDOf     func(T) string
	IsTemp   func(id string) bool
	Messages Messages
}

// Token identifies one pending operation.
type Token struct {
	kind   OpKind
	id     string
	seq    uint64
	merged bool
}

func (t Token) Kind() OpKind { return t.kind }

// ID is the entity id the operation targets. For creates it is the
// placeholder id, or empty when no placeholder was inserted.
func (t Token) ID() string { return t.id }

// Outcome reports how Confirm settled a token.
type Outcome int

const (
	// Applied means the server value replaced or removed the local item.
	Applied Outcome = iota
	// Inserted means no matching local item existed, so the server value
	// was prepended.
	Inserted
	// Missing means an update confirmation found no item with its id.
	Missing
	// Stale means a newer update for the same id was already confirmed and
	// this result was discarded.
	Stale
)

type priorKey struct {
	id  string
	seq uint64
}

type Container[T any] struct {
	opts Options[T]

	mu    sync.Mutex
	state State[T]
	// issued and applied hold per-id update sequence numbers.
	issued  map[string]uint64
	applied map[string]uint64
	// prior holds the pre-merge item for updates that applied a local merge.
	prior map[priorKey]T

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

func New[T any](opts Options[T]) *Container[T] {
	if opts.IDOf == nil {
		panic("optimistic: Options.IDOf is required")
	}
	if opts.IsTemp == nil {
		opts.IsTemp = func(string) bool { return false }
	}
	return &Container[T]{
		opts:    opts,
		state:   State[T]{Items: []T{}},
		issued:  map[string]uint64{},
		applied: map[string]uint64{},
		prior:   map[priorKey]T{},
		subs:    map[int]func(){},
	}
}

// State returns a copy of the current state.
func (c *Container[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked()
}

// Find returns the item with the given id.
func (c *Container[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexLocked(id); idx >= 0 {
		return c.state.Items[idx], true
	}
	var zero T
	return zero, false
}

// Subscribe registers fn to be called after every state transition. The
// returned function removes the subscription.
func (c *Container[T]) Subscribe(fn func()) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	key := c.nextSub
	c.nextSub++
	c.subs[key] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, key)
	}
}

func (c *Container[T]) BeginFetch() {
	c.mutate(func(s *State[T]) {
		s.Loading = true
		s.Error = ""
	})
}

// ConfirmFetch replaces the collection wholesale, preserving server order.
func (c *Container[T]) ConfirmFetch(items []T) {
	c.mutate(func(s *State[T]) {
		s.Loading = false
		s.Error = ""
		s.Items = nonNil(slices.Clone(items))
	})
}

// FailFetch keeps the existing items.
func (c *Container[T]) FailFetch(err error) {
	c.mutate(func(s *State[T]) {
		s.Loading = false
		s.Error = apperrors.Message(err, c.opts.Messages.Fetch)
	})
}

// BeginCreate prepends placeholder, when given, and marks a create in
// flight.
func (c *Container[T]) BeginCreate(placeholder *T) Token {
	tok := Token{kind: OpCreate}
	c.mutate(func(s *State[T]) {
		if placeholder != nil {
			tok.id = c.opts.IDOf(*placeholder)
			s.Items = append([]T{*placeholder}, s.Items...)
		}
		s.Creating = true
	})
	return tok
}

// BeginUpdate marks id as updating. When merge is non-nil it is applied to
// the current item immediately and undone by Revert.
func (c *Container[T]) BeginUpdate(id string, merge func(T) T) Token {
	tok := Token{kind: OpUpdate, id: id}
	c.mutate(func(s *State[T]) {
		c.issued[id]++
		tok.seq = c.issued[id]
		s.UpdatingID = id
		if merge == nil {
			return
		}
		if idx := c.indexLocked(id); idx >= 0 {
			c.prior[priorKey{id: id, seq: tok.seq}] = s.Items[idx]
			s.Items = slices.Clone(s.Items)
			s.Items[idx] = merge(s.Items[idx])
			tok.merged = true
		}
	})
	return tok
}

// BeginDelete removes id locally and remembers the removed item so a failed
// delete can restore it. Only one removed item is tracked at a time.
func (c *Container[T]) BeginDelete(id string) Token {
	tok := Token{kind: OpDelete, id: id}
	c.mutate(func(s *State[T]) {
		if idx := c.indexLocked(id); idx >= 0 {
			removed := s.Items[idx]
			s.OptimisticRemoved = &removed
			s.Items = slices.Delete(slices.Clone(s.Items), idx, idx+1)
		}
		s.DeletingID = id
	})
	return tok
}

// Confirm merges the server result for tok. server is ignored for deletes.
func (c *Container[T]) Confirm(tok Token, server T) Outcome {
	outcome := Applied
	c.mutate(func(s *State[T]) {
		switch tok.kind {
		case OpCreate:
			s.Creating = false
			idx := -1
			if tok.id != "" {
				idx = c.indexLocked(tok.id)
			}
			if idx < 0 {
				idx = c.firstTempLocked()
			}
			if idx < 0 {
				s.Items = append([]T{server}, s.Items...)
				outcome = Inserted
				return
			}
			s.Items = slices.Clone(s.Items)
			s.Items[idx] = server
		case OpUpdate:
			s.UpdatingID = ""
			delete(c.prior, priorKey{id: tok.id, seq: tok.seq})
			if tok.seq < c.applied[tok.id] {
				outcome = Stale
				return
			}
			c.applied[tok.id] = tok.seq
			idx := c.indexLocked(c.opts.IDOf(server))
			if idx < 0 {
				outcome = Missing
				return
			}
			s.Items = slices.Clone(s.Items)
			s.Items[idx] = server
		case OpDelete:
			s.DeletingID = ""
			s.OptimisticRemoved = nil
			s.Items = slices.DeleteFunc(slices.Clone(s.Items), func(item T) bool {
				return c.opts.IDOf(item) == tok.id
			})
		}
	})
	return outcome
}

// Revert undoes the optimistic mutation of tok and records err.
func (c *Container[T]) Revert(tok Token, err error) {
	c.mutate(func(s *State[T]) {
		switch tok.kind {
		case OpCreate:
			s.Creating = false
			s.Error = apperrors.Message(err, c.opts.Messages.Create)
			s.Items = slices.DeleteFunc(slices.Clone(s.Items), func(item T) bool {
				return c.opts.IsTemp(c.opts.IDOf(item))
			})
		case OpUpdate:
			s.UpdatingID = ""
			s.Error = apperrors.Message(err, c.opts.Messages.Update)
			key := priorKey{id: tok.id, seq: tok.seq}
			prev, ok := c.prior[key]
			delete(c.prior, key)
			if !ok || !tok.merged || tok.seq < c.issued[tok.id] {
				return
			}
			if idx := c.indexLocked(tok.id); idx >= 0 {
				s.Items = slices.Clone(s.Items)
				s.Items[idx] = prev
			}
		case OpDelete:
			s.DeletingID = ""
			s.Error = apperrors.Message(err, c.opts.Messages.Delete)
			if s.OptimisticRemoved != nil {
				s.Items = append(slices.Clone(s.Items), *s.OptimisticRemoved)
				s.OptimisticRemoved = nil
			}
		}
	})
}

func (c *Container[T]) ClearError() {
	c.mutate(func(s *State[T]) {
		s.Error = ""
	})
}

func (c *Container[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{Items: slices.Clone(c.state.Items), Error: c.state.Error}
}

// Restore replaces items and error with a persisted snapshot and resets all
// in-flight flags.
func (c *Container[T]) Restore(snap Snapshot[T]) {
	c.mutate(func(s *State[T]) {
		*s = State[T]{Items: nonNil(slices.Clone(snap.Items)), Error: snap.Error}
	})
}

func (c *Container[T]) mutate(fn func(*State[T])) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()
	c.notify()
}

func (c *Container[T]) notify() {
	c.subMu.Lock()
	keys := make([]int, 0, len(c.subs))
	for k := range c.subs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fns := make([]func(), 0, len(keys))
	for _, k := range keys {
		fns = append(fns, c.subs[k])
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (c *Container[T]) copyLocked() State[T] {
	out := c.state
	out.Items = slices.Clone(c.state.Items)
	if c.state.OptimisticRemoved != nil {
		removed := *c.state.OptimisticRemoved
		out.OptimisticRemoved = &removed
	}
	return out
}

func (c *Container[T]) indexLocked(id string) int {
	return slices.IndexFunc(c.state.Items, func(item T) bool {
		return c.opts.IDOf(item) == id
	})
}

func (c *Container[T]) firstTempLocked() int {
	return slices.IndexFunc(c.state.Items, func(item T) bool {
		return c.opts.IsTemp(c.opts.IDOf(item))
	})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
