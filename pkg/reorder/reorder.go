// Package reorder turns drag gestures over the rendered list into store
// moves.
//
// A gesture carries only the source position. The moved field is read from
// the store by index when the drop lands, never from a snapshot taken at
// drag start.
package reorder

import (
	"errors"

	"github.com/goliatone/go-fieldeditor/pkg/store"
)

// ErrNoGesture is returned when Over or Drop arrive without Begin.
var ErrNoGesture = errors.New("reorder: no drag in progress")

// Result describes the outcome of a drop.
type Result struct {
	From  int
	To    int
	Moved bool
}

// Engine tracks one drag gesture at a time.
type Engine struct {
	store  *store.Store
	source int
	target int
	active bool
}

// New binds an engine to s.
func New(s *store.Store) *Engine {
	return &Engine{store: s, source: -1, target: -1}
}

// Begin starts a drag from source. Starting a new drag replaces any gesture
// in progress.
func (e *Engine) Begin(source int) error {
	if source < 0 || source >= e.store.Len() {
		e.reset()
		return store.ErrIndexOutOfRange
	}
	e.source = source
	e.target = source
	e.active = true
	return nil
}

// Over records the position currently hovered.
func (e *Engine) Over(target int) error {
	if !e.active {
		return ErrNoGesture
	}
	e.target = target
	return nil
}

// Drop ends the gesture at target and moves the field when target differs
// from the source. Invalid targets leave the store untouched.
func (e *Engine) Drop(target int) (Result, error) {
	if !e.active {
		return Result{}, ErrNoGesture
	}
	from := e.source
	e.reset()

	res := Result{From: from, To: target}
	if from == target {
		return res, nil
	}
	res.Moved = e.store.MoveTo(from, target)
	return res, nil
}

// Cancel abandons the gesture.
func (e *Engine) Cancel() {
	e.reset()
}

// Active reports whether a drag is in progress and returns its source and
// hovered target.
func (e *Engine) Active() (source, target int, ok bool) {
	if !e.active {
		return -1, -1, false
	}
	return e.source, e.target, true
}

func (e *Engine) reset() {
	e.source = -1
	e.target = -1
	e.active = false
}
