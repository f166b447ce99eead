package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

func field(name string) model.Descriptor {
	return model.Descriptor{Name: name, Label: name, Type: model.FieldTypeString}
}

func names(s *Store) []string {
	var out []string
	for _, f := range s.All() {
		out = append(out, f.Name)
	}
	return out
}

func TestStore_AppendReplaceRemove(t *testing.T) {
	s := New(nil)
	s.Append(field("a"))
	s.Append(field("b"))
	s.Append(field("c"))

	if err := s.ReplaceAt(1, field("bb")); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "bb", "c"}, names(s)); diff != "" {
		t.Fatalf("after replace (-want +got):\n%s", diff)
	}

	if err := s.RemoveAt(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, names(s)); diff != "" {
		t.Fatalf("after remove (-want +got):\n%s", diff)
	}
}

func TestStore_IndexErrors(t *testing.T) {
	s := New([]model.Descriptor{field("a")})

	if err := s.ReplaceAt(1, field("x")); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("replace: expected ErrIndexOutOfRange, got %v", err)
	}
	if err := s.RemoveAt(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("remove: expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := s.At(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("at: expected ErrIndexOutOfRange, got %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, names(s)); diff != "" {
		t.Fatalf("store mutated by failed calls (-want +got):\n%s", diff)
	}
}

func TestStore_MoveTo(t *testing.T) {
	cases := []struct {
		name     string
		from, to int
		want     []string
		moved    bool
	}{
		{name: "last to first", from: 2, to: 0, want: []string{"c", "a", "b"}, moved: true},
		{name: "first to last", from: 0, to: 2, want: []string{"b", "c", "a"}, moved: true},
		{name: "adjacent", from: 0, to: 1, want: []string{"b", "a", "c"}, moved: true},
		{name: "same index", from: 1, to: 1, want: []string{"a", "b", "c"}},
		{name: "invalid source", from: 5, to: 0, want: []string{"a", "b", "c"}},
		{name: "invalid target", from: 0, to: 3, want: []string{"a", "b", "c"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New([]model.Descriptor{field("a"), field("b"), field("c")})
			if got := s.MoveTo(tc.from, tc.to); got != tc.moved {
				t.Fatalf("moved: want %v, got %v", tc.moved, got)
			}
			if diff := cmp.Diff(tc.want, names(s)); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_MoveIsReversible(t *testing.T) {
	initial := []string{"a", "b", "c", "d", "e"}
	for i := range initial {
		for j := range initial {
			if i == j {
				continue
			}
			var fields []model.Descriptor
			for _, n := range initial {
				fields = append(fields, field(n))
			}
			s := New(fields)
			s.MoveTo(i, j)
			s.MoveTo(j, i)
			if diff := cmp.Diff(initial, names(s)); diff != "" {
				t.Fatalf("moveTo(%d,%d) then moveTo(%d,%d) (-want +got):\n%s", i, j, j, i, diff)
			}
		}
	}
}

func TestStore_AllReturnsCopy(t *testing.T) {
	s := New([]model.Descriptor{{Name: "a", Options: []string{"x"}}})
	view := s.All()
	view[0].Name = "mutated"
	view[0].Options[0] = "y"

	got, _ := s.At(0)
	if got.Name != "a" || got.Options[0] != "x" {
		t.Fatalf("store leaked internal state: %+v", got)
	}
}

func TestStore_SubscribeReceivesEvents(t *testing.T) {
	s := New(nil)
	var events []Event
	unsubscribe := s.Subscribe(func(evt Event) {
		if evt.Kind == EventAppend && s.Len() != evt.Index+1 {
			t.Fatalf("listener observed inconsistent store")
		}
		events = append(events, evt)
	})

	s.Append(field("a"))
	s.Append(field("b"))
	s.MoveTo(1, 0)
	_ = s.RemoveAt(0)
	s.Reset(nil)
	unsubscribe()
	s.Append(field("ignored"))

	want := []Event{
		{Kind: EventAppend, Index: 0},
		{Kind: EventAppend, Index: 1},
		{Kind: EventMove, From: 1, To: 0},
		{Kind: EventRemove, Index: 0},
		{Kind: EventReset},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTrackIndex(t *testing.T) {
	cases := []struct {
		name  string
		index int
		evt   Event
		want  int
		ok    bool
	}{
		{"removed itself", 1, Event{Kind: EventRemove, Index: 1}, -1, false},
		{"removed before", 2, Event{Kind: EventRemove, Index: 0}, 1, true},
		{"removed after", 0, Event{Kind: EventRemove, Index: 2}, 0, true},
		{"moved itself", 0, Event{Kind: EventMove, From: 0, To: 2}, 2, true},
		{"shifted right", 0, Event{Kind: EventMove, From: 2, To: 0}, 1, true},
		{"shifted left", 2, Event{Kind: EventMove, From: 0, To: 2}, 1, true},
		{"untouched", 3, Event{Kind: EventMove, From: 0, To: 1}, 3, true},
		{"reset", 0, Event{Kind: EventReset}, -1, false},
		{"replace", 1, Event{Kind: EventReplace, Index: 1}, 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := TrackIndex(tc.index, tc.evt)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("want (%d,%v), got (%d,%v)", tc.want, tc.ok, got, ok)
			}
		})
	}
}
