// Package store owns the ordered field collection edited by a session.
//
// The store is not safe for concurrent use; callers serialise access the
// same way a single event loop would. Every mutation leaves the collection
// consistent before subscribers are notified.
package store

import (
	"errors"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// ErrIndexOutOfRange reports an operation on a position that does not exist.
var ErrIndexOutOfRange = errors.New("store: index out of range")

// EventKind identifies the mutation that produced an Event.
type EventKind int

const (
	EventAppend EventKind = iota + 1
	EventReplace
	EventRemove
	EventMove
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventAppend:
		return "append"
	case EventReplace:
		return "replace"
	case EventRemove:
		return "remove"
	case EventMove:
		return "move"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes a committed mutation. Index is set for append, replace and
// remove; From and To are set for move.
type Event struct {
	Kind  EventKind
	Index int
	From  int
	To    int
}

// Listener observes committed mutations.
type Listener func(Event)

// Store is the ordered collection of field descriptors.
type Store struct {
	fields    []model.Descriptor
	listeners []subscription
	nextID    int
}

type subscription struct {
	id int
	fn Listener
}

// New seeds a store with a copy of the initial fields.
func New(initial []model.Descriptor) *Store {
	return &Store{fields: model.CloneAll(initial)}
}

// Subscribe registers a listener and returns a function that removes it.
// Listeners run synchronously in registration order.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Len reports the number of fields.
func (s *Store) Len() int {
	return len(s.fields)
}

// At returns a copy of the field at index.
func (s *Store) At(index int) (model.Descriptor, error) {
	if !s.valid(index) {
		return model.Descriptor{}, ErrIndexOutOfRange
	}
	return s.fields[index].Clone(), nil
}

// All returns a copy of the collection in order.
func (s *Store) All() []model.Descriptor {
	out := model.CloneAll(s.fields)
	if out == nil {
		out = []model.Descriptor{}
	}
	return out
}

// Append adds a field to the end of the collection. Callers validate first.
func (s *Store) Append(field model.Descriptor) {
	s.fields = append(s.fields, field.Clone())
	s.emit(Event{Kind: EventAppend, Index: len(s.fields) - 1})
}

// ReplaceAt swaps the field at index.
func (s *Store) ReplaceAt(index int, field model.Descriptor) error {
	if !s.valid(index) {
		return ErrIndexOutOfRange
	}
	s.fields[index] = field.Clone()
	s.emit(Event{Kind: EventReplace, Index: index})
	return nil
}

// RemoveAt deletes the field at index.
func (s *Store) RemoveAt(index int) error {
	if !s.valid(index) {
		return ErrIndexOutOfRange
	}
	s.fields = append(s.fields[:index], s.fields[index+1:]...)
	s.emit(Event{Kind: EventRemove, Index: index})
	return nil
}

// MoveTo removes the field at from and reinserts it at to, where to is a
// position in the already shortened sequence. It returns false without
// touching the collection when from equals to or either index is invalid.
func (s *Store) MoveTo(from, to int) bool {
	if from == to || !s.valid(from) || !s.valid(to) {
		return false
	}
	moved := s.fields[from]
	rest := append(s.fields[:from:from], s.fields[from+1:]...)

	out := make([]model.Descriptor, 0, len(s.fields))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	s.fields = out

	s.emit(Event{Kind: EventMove, From: from, To: to})
	return true
}

// Reset replaces the whole collection.
func (s *Store) Reset(fields []model.Descriptor) {
	s.fields = model.CloneAll(fields)
	s.emit(Event{Kind: EventReset})
}

func (s *Store) valid(index int) bool {
	return index >= 0 && index < len(s.fields)
}

func (s *Store) emit(evt Event) {
	listeners := append([]subscription(nil), s.listeners...)
	for _, sub := range listeners {
		sub.fn(evt)
	}
}

// TrackIndex maps a position observed before evt to the position of the same
// element after it. ok is false when the element no longer exists (removed,
// or the collection was reset).
func TrackIndex(index int, evt Event) (int, bool) {
	switch evt.Kind {
	case EventRemove:
		switch {
		case evt.Index == index:
			return -1, false
		case evt.Index < index:
			return index - 1, true
		}
		return index, true
	case EventMove:
		if index == evt.From {
			return evt.To, true
		}
		shifted := index
		if evt.From < shifted {
			shifted--
		}
		if evt.To <= shifted {
			shifted++
		}
		return shifted, true
	case EventReset:
		return -1, false
	default:
		return index, true
	}
}
