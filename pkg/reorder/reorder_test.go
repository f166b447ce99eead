package reorder

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/store"
)

func abc() *store.Store {
	return store.New([]model.Descriptor{{Name: "a"}, {Name: "b"}, {Name: "c"}})
}

func order(s *store.Store) []string {
	var out []string
	for _, f := range s.All() {
		out = append(out, f.Name)
	}
	return out
}

func TestEngine_DropMoves(t *testing.T) {
	s := abc()
	e := New(s)

	if err := e.Begin(2); err != nil {
		t.Fatalf("begin: %v", err)
	}
	_ = e.Over(1)
	if src, tgt, ok := e.Active(); !ok || src != 2 || tgt != 1 {
		t.Fatalf("unexpected gesture state %d %d %v", src, tgt, ok)
	}
	res, err := e.Drop(0)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if diff := cmp.Diff(Result{From: 2, To: 0, Moved: true}, res); diff != "" {
		t.Fatalf("result (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, order(s)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if _, _, ok := e.Active(); ok {
		t.Fatalf("gesture should end on drop")
	}
}

func TestEngine_DropOnSelfIsNoop(t *testing.T) {
	s := abc()
	var events int
	s.Subscribe(func(store.Event) { events++ })

	e := New(s)
	_ = e.Begin(1)
	res, _ := e.Drop(1)
	if res.Moved || events != 0 {
		t.Fatalf("expected no mutation, got %+v with %d events", res, events)
	}
}

func TestEngine_ReadsCurrentStore(t *testing.T) {
	s := abc()
	e := New(s)
	_ = e.Begin(0)
	if err := s.ReplaceAt(0, model.Descriptor{Name: "z"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	_, _ = e.Drop(2)
	if diff := cmp.Diff([]string{"b", "c", "z"}, order(s)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestEngine_Guards(t *testing.T) {
	s := abc()
	e := New(s)
	if err := e.Over(1); !errors.Is(err, ErrNoGesture) {
		t.Fatalf("want ErrNoGesture, got %v", err)
	}
	if _, err := e.Drop(1); !errors.Is(err, ErrNoGesture) {
		t.Fatalf("want ErrNoGesture, got %v", err)
	}
	if err := e.Begin(3); !errors.Is(err, store.ErrIndexOutOfRange) {
		t.Fatalf("want ErrIndexOutOfRange, got %v", err)
	}

	_ = e.Begin(0)
	e.Cancel()
	if _, err := e.Drop(2); !errors.Is(err, ErrNoGesture) {
		t.Fatalf("cancel should end the gesture, got %v", err)
	}

	_ = e.Begin(0)
	res, err := e.Drop(9)
	if err != nil || res.Moved {
		t.Fatalf("invalid target should be a silent no-op: %+v %v", res, err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, order(s)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}
