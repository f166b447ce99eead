package editor

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/store"
	"github.com/goliatone/go-fieldeditor/pkg/validation"
)

func seeded() *store.Store {
	return store.New([]model.Descriptor{
		{Name: "title", Label: "Title", Type: model.FieldTypeString},
		{Name: "customer", Label: "Customer", Type: model.FieldTypeLink, LinkDoctype: "Customer"},
		{Name: "lines", Label: "Lines", Type: model.FieldTypeTable, ChildDoctype: "Invoice Line"},
	})
}

func TestEditor_AddLifecycle(t *testing.T) {
	s := store.New(nil)
	e := New(s)

	if err := e.OpenForAdd(); err != nil {
		t.Fatalf("open: %v", err)
	}
	form := e.Form()
	if form.Type != model.DefaultType() || form.Required || form.Unique || form.Readonly {
		t.Fatalf("unexpected defaults: %+v", form)
	}
	if e.Group() != GroupNone {
		t.Fatalf("generic default type should show no group, got %v", e.Group())
	}

	_ = e.Update(func(in *validation.Input) {
		in.Name = "company"
		in.Label = "Company"
		in.Required = true
	})
	saved, err := e.Save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if e.Mode() != ModeClosed {
		t.Fatalf("expected closed after save, got %v", e.Mode())
	}
	want := []model.Descriptor{{Name: "company", Label: "Company", Type: model.FieldTypeString, Required: true}}
	if diff := cmp.Diff(want, s.All()); diff != "" {
		t.Fatalf("store mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want[0], saved); diff != "" {
		t.Fatalf("saved mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_FailedSaveKeepsSessionOpen(t *testing.T) {
	s := seeded()
	e := New(s)
	_ = e.OpenForAdd()
	_, _ = e.ChangeType(model.FieldTypeSelect)
	_ = e.Update(func(in *validation.Input) {
		in.Name = "status"
		in.Label = "Status"
	})

	_, err := e.Save()
	if !errors.Is(err, validation.ErrMissingOptions) {
		t.Fatalf("want ErrMissingOptions, got %v", err)
	}
	if e.Mode() != ModeAdd {
		t.Fatalf("session should stay open, got %v", e.Mode())
	}
	if s.Len() != 3 {
		t.Fatalf("store mutated by failed save: %d fields", s.Len())
	}
}

func TestEditor_EditPrepopulatesAfterDropdowns(t *testing.T) {
	s := seeded()
	e := New(s, WithChoices(Choices{Doctypes: []string{"Customer", "Supplier"}, ChildDoctypes: []string{"Invoice Line"}}))

	if err := e.OpenForEdit(1); err != nil {
		t.Fatalf("open: %v", err)
	}
	if e.Group() != GroupLink {
		t.Fatalf("want link group, got %v", e.Group())
	}
	link := e.LinkChoices()
	if !link.Ready() || link.Selected() != "Customer" {
		t.Fatalf("link dropdown not pre-selected: ready=%v selected=%q", link.Ready(), link.Selected())
	}
	if diff := cmp.Diff([]string{"Customer", "Supplier"}, link.Options()); diff != "" {
		t.Fatalf("link options (-want +got):\n%s", diff)
	}
	if e.Form().LinkDoctype != "Customer" {
		t.Fatalf("form not populated: %+v", e.Form())
	}

	_ = e.Update(func(in *validation.Input) { in.LinkDoctype = "Supplier" })
	if _, err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := s.At(1)
	if got.LinkDoctype != "Supplier" || s.Len() != 3 {
		t.Fatalf("replace failed: %+v", got)
	}
}

func TestEditor_KeepsValueMissingFromChoices(t *testing.T) {
	s := seeded()
	e := New(s, WithChoices(Choices{ChildDoctypes: []string{"Other"}}))
	_ = e.OpenForEdit(2)
	if got := e.ChildChoices().Selected(); got != "Invoice Line" {
		t.Fatalf("stored value should be kept, got %q", got)
	}
}

func TestEditor_ChangeTypeGroups(t *testing.T) {
	e := New(store.New(nil))
	if _, err := e.ChangeType(model.FieldTypeLink); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("want ErrNotOpen, got %v", err)
	}
	_ = e.OpenForAdd()

	cases := map[model.FieldType]Group{
		model.FieldTypeLink:        GroupLink,
		model.FieldTypeSelect:      GroupOptions,
		model.FieldTypeMultiselect: GroupOptions,
		model.FieldTypeTable:       GroupTable,
		model.FieldTypeComputed:    GroupComputed,
		model.FieldTypeDate:        GroupNone,
	}
	for fieldType, want := range cases {
		got, err := e.ChangeType(fieldType)
		if err != nil || got != want {
			t.Fatalf("ChangeType(%s): want %v, got %v (%v)", fieldType, want, got, err)
		}
	}
}

func TestEditor_OpenGuards(t *testing.T) {
	e := New(seeded())
	if err := e.OpenForEdit(7); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("want ErrIndexOutOfRange, got %v", err)
	}
	if e.Mode() != ModeClosed {
		t.Fatalf("failed open should stay closed")
	}
	_ = e.OpenForAdd()
	if err := e.OpenForEdit(0); !errors.Is(err, ErrAlreadyOpen) {
		t.Fatalf("want ErrAlreadyOpen, got %v", err)
	}
	e.Dismiss()
	if err := e.OpenForEdit(0); err != nil {
		t.Fatalf("reopen after dismiss: %v", err)
	}
	e.Cancel()
	if e.Mode() != ModeClosed || e.Form() != (validation.Input{}) {
		t.Fatalf("cancel should discard the form: %+v", e.Snapshot())
	}
}

func TestEditor_TracksIndexAcrossMutations(t *testing.T) {
	s := seeded()
	e := New(s)
	_ = e.OpenForEdit(2)

	s.MoveTo(2, 0)
	if idx, ok := e.Index(); !ok || idx != 0 {
		t.Fatalf("after move: want 0, got %d (%v)", idx, ok)
	}
	_ = s.RemoveAt(2)
	if idx, ok := e.Index(); !ok || idx != 0 {
		t.Fatalf("after unrelated remove: want 0, got %d (%v)", idx, ok)
	}

	_ = e.Update(func(in *validation.Input) { in.Label = "Line Items" })
	if _, err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := s.At(0)
	if got.Name != "lines" || got.Label != "Line Items" {
		t.Fatalf("saved to wrong position: %+v", s.All())
	}
}

func TestEditor_InvalidatedWhenEditedFieldRemoved(t *testing.T) {
	s := seeded()
	lost := -1
	e := New(s, WithInvalidationHandler(func(index int) { lost = index }))
	_ = e.OpenForEdit(1)

	_ = s.RemoveAt(1)
	if e.Mode() != ModeClosed || lost != 1 {
		t.Fatalf("expected invalidation of index 1, mode=%v lost=%d", e.Mode(), lost)
	}
	if _, err := e.Save(); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("want ErrNotOpen, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("unexpected store size %d", s.Len())
	}
}

func TestEditor_EditKeepsUnknownKeys(t *testing.T) {
	var imported model.Descriptor
	if err := json.Unmarshal([]byte(`{"name":"qty","label":"Qty","type":"integer","precision":2,"required":"yes"}`), &imported); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s := store.New([]model.Descriptor{imported})
	e := New(s)
	_ = e.OpenForEdit(0)
	_ = e.Update(func(in *validation.Input) { in.Required = true })
	saved, err := e.Save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	encoded, _ := json.Marshal(saved)
	want := `{"name":"qty","label":"Qty","type":"integer","required":true,"precision":2}`
	if diff := cmp.Diff(want, string(encoded)); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_StrictOptions(t *testing.T) {
	s := seeded()
	e := New(s, WithUniqueNames(), WithAllowedTypes(), WithFormulaCheck(), WithChoices(Choices{FieldTypes: []string{"string", "computed"}}))

	_ = e.OpenForAdd()
	_ = e.Update(func(in *validation.Input) { in.Name, in.Label = "title", "Again" })
	if _, err := e.Save(); !errors.Is(err, validation.ErrDuplicateName) {
		t.Fatalf("want ErrDuplicateName, got %v", err)
	}
	_ = e.Update(func(in *validation.Input) { in.Name, in.Type = "when", model.FieldTypeDate })
	if _, err := e.Save(); !errors.Is(err, validation.ErrUnknownType) {
		t.Fatalf("want ErrUnknownType, got %v", err)
	}
	_ = e.Update(func(in *validation.Input) { in.Type, in.Formula = model.FieldTypeComputed, "1 +" })
	if _, err := e.Save(); !errors.Is(err, validation.ErrInvalidFormula) {
		t.Fatalf("want ErrInvalidFormula, got %v", err)
	}
	e.Cancel()

	_ = e.OpenForEdit(0)
	if _, err := e.Save(); err != nil {
		t.Fatalf("re-saving a field under its own name: %v", err)
	}
}
