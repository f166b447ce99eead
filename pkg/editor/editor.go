// Package editor implements the add/edit lifecycle for a single field.
//
// The editor is either Closed or Open. Open sessions are for adding a new
// field or editing the field at a store index. Save validates the form and
// commits to the store; Cancel and Dismiss discard the form. At most one
// session is live.
package editor

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/store"
	"github.com/goliatone/go-fieldeditor/pkg/validation"
)

var (
	// ErrAlreadyOpen is returned when opening while a session is live.
	ErrAlreadyOpen = errors.New("editor: a session is already open")
	// ErrNotOpen is returned by form operations on a closed editor.
	ErrNotOpen = errors.New("editor: no open session")
	// ErrIndexOutOfRange is returned when editing a position that does not exist.
	ErrIndexOutOfRange = store.ErrIndexOutOfRange
)

// Mode is the editor state.
type Mode int

const (
	ModeClosed Mode = iota
	ModeAdd
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "add"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Group identifies the visible variant-specific input group.
type Group int

const (
	GroupNone Group = iota
	GroupLink
	GroupOptions
	GroupTable
	GroupComputed
)

func (g Group) String() string {
	return model.Variant(g).String()
}

// GroupFor maps a field type to the input group it shows.
func GroupFor(t model.FieldType) Group {
	switch t.Variant() {
	case model.VariantLink:
		return GroupLink
	case model.VariantOptions:
		return GroupOptions
	case model.VariantTable:
		return GroupTable
	case model.VariantComputed:
		return GroupComputed
	default:
		return GroupNone
	}
}

// Option configures an Editor.
type Option func(*Editor)

// WithChoices sets the host lists used to populate dropdowns.
func WithChoices(choices Choices) Option {
	return func(e *Editor) {
		e.choices = choices
	}
}

// WithUniqueNames rejects saves that reuse another field's name.
func WithUniqueNames() Option {
	return func(e *Editor) {
		e.uniqueNames = true
	}
}

// WithAllowedTypes rejects saves whose type is not in the host type list.
func WithAllowedTypes() Option {
	return func(e *Editor) {
		e.allowedTypes = true
	}
}

// WithFormulaCheck rejects computed fields whose formula does not parse.
func WithFormulaCheck() Option {
	return func(e *Editor) {
		e.formulaCheck = true
	}
}

// WithInvalidationHandler is called when the field being edited disappears
// from the store and the session is closed as a result.
func WithInvalidationHandler(fn func(index int)) Option {
	return func(e *Editor) {
		e.onInvalidate = fn
	}
}

// Snapshot is a read-only view of the editor.
type Snapshot struct {
	Mode  Mode
	Index int
	Group Group
	Form  validation.Input
}

// Editor is the add/edit state machine bound to a store.
type Editor struct {
	store   *store.Store
	choices Choices

	uniqueNames  bool
	allowedTypes bool
	formulaCheck bool
	onInvalidate func(index int)

	mode  Mode
	index int
	form  validation.Input
	group Group
	base  model.Descriptor

	typeSelect  Dropdown
	linkTarget  Dropdown
	childTarget Dropdown

	unsubscribe func()
}

// New binds an editor to s.
func New(s *store.Store, opts ...Option) *Editor {
	e := &Editor{store: s, index: -1}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.unsubscribe = s.Subscribe(e.track)
	return e
}

// Close detaches the editor from its store.
func (e *Editor) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// Mode reports the current state.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Index returns the edited position; ok is false unless editing.
func (e *Editor) Index() (int, bool) {
	if e.mode != ModeEdit {
		return -1, false
	}
	return e.index, true
}

// Group returns the visible variant group.
func (e *Editor) Group() Group {
	return e.group
}

// Form returns a copy of the transient form.
func (e *Editor) Form() validation.Input {
	return e.form
}

// Snapshot returns the full editor state.
func (e *Editor) Snapshot() Snapshot {
	index, _ := e.Index()
	return Snapshot{Mode: e.mode, Index: index, Group: e.group, Form: e.form}
}

// TypeChoices, LinkChoices and ChildChoices expose the dropdowns.
func (e *Editor) TypeChoices() *Dropdown  { return &e.typeSelect }
func (e *Editor) LinkChoices() *Dropdown  { return &e.linkTarget }
func (e *Editor) ChildChoices() *Dropdown { return &e.childTarget }

// OpenForAdd opens an empty form.
func (e *Editor) OpenForAdd() error {
	if e.mode != ModeClosed {
		return ErrAlreadyOpen
	}
	e.mode = ModeAdd
	e.index = -1
	e.base = model.Descriptor{}
	e.form = validation.Input{Type: model.DefaultType()}
	e.group = GroupFor(e.form.Type)
	e.populate(nil)
	return nil
}

// OpenForEdit opens the form pre-populated from the field at index. Dropdown
// values are applied after the dropdowns have been populated.
func (e *Editor) OpenForEdit(index int) error {
	if e.mode != ModeClosed {
		return ErrAlreadyOpen
	}
	current, err := e.store.At(index)
	if err != nil {
		return fmt.Errorf("editor: open field %d: %w", index, ErrIndexOutOfRange)
	}

	e.mode = ModeEdit
	e.index = index
	e.base = current
	e.form = validation.InputFromDescriptor(current)
	e.form.LinkDoctype, e.form.ChildDoctype = "", ""
	e.group = GroupFor(current.Type)

	e.populate(func() {
		e.typeSelect.Select(string(current.Type))
		e.linkTarget.Select(current.LinkDoctype)
		e.childTarget.Select(current.ChildDoctype)
		e.form.LinkDoctype = current.LinkDoctype
		e.form.ChildDoctype = current.ChildDoctype
	})
	return nil
}

func (e *Editor) populate(then func()) {
	types := e.choices.FieldTypes
	if len(types) == 0 {
		for _, t := range model.Types() {
			types = append(types, string(t))
		}
	}

	e.typeSelect.Populate(types, func() {
		e.linkTarget.Populate(e.choices.Doctypes, func() {
			e.childTarget.Populate(e.choices.ChildDoctypes, func() {
				if then == nil {
					e.typeSelect.Select(string(e.form.Type))
					return
				}
				then()
			})
		})
	})
}

// ChangeType switches the form type and returns the group now visible.
func (e *Editor) ChangeType(t model.FieldType) (Group, error) {
	if e.mode == ModeClosed {
		return GroupNone, ErrNotOpen
	}
	e.form.Type = t
	e.typeSelect.Select(string(t))
	e.group = GroupFor(t)
	return e.group, nil
}

// Update edits the transient form in place. A type change through Update
// also switches the visible group.
func (e *Editor) Update(fn func(*validation.Input)) error {
	if e.mode == ModeClosed {
		return ErrNotOpen
	}
	if fn == nil {
		return nil
	}
	before := e.form
	fn(&e.form)
	if e.form.Type != before.Type {
		e.typeSelect.Select(string(e.form.Type))
		e.group = GroupFor(e.form.Type)
	}
	if e.form.LinkDoctype != before.LinkDoctype {
		e.linkTarget.Select(e.form.LinkDoctype)
	}
	if e.form.ChildDoctype != before.ChildDoctype {
		e.childTarget.Select(e.form.ChildDoctype)
	}
	return nil
}

// Save validates the form and commits it. On a validation failure the
// session stays open and the store is untouched.
func (e *Editor) Save() (model.Descriptor, error) {
	if e.mode == ModeClosed {
		return model.Descriptor{}, ErrNotOpen
	}

	saved, err := validation.Validate(e.form, e.validationOptions()...)
	if err != nil {
		return model.Descriptor{}, err
	}

	if e.mode == ModeEdit {
		saved = keepUnknown(saved, e.base)
		if err := e.store.ReplaceAt(e.index, saved); err != nil {
			return model.Descriptor{}, fmt.Errorf("editor: save field %d: %w", e.index, err)
		}
	} else {
		e.store.Append(saved)
	}

	e.reset()
	return saved, nil
}

// Cancel closes the session without touching the store.
func (e *Editor) Cancel() {
	e.reset()
}

// Dismiss is the backdrop close; it behaves like Cancel.
func (e *Editor) Dismiss() {
	e.reset()
}

func (e *Editor) validationOptions() []validation.Option {
	var opts []validation.Option
	if e.uniqueNames {
		opts = append(opts, validation.WithUniqueNames(e.store.All(), e.index))
	}
	if e.allowedTypes {
		types := model.StringsToTypes(e.choices.FieldTypes)
		if len(types) == 0 {
			types = model.Types()
		}
		opts = append(opts, validation.WithAllowedTypes(types))
	}
	if e.formulaCheck {
		opts = append(opts, validation.WithFormulaCheck())
	}
	return opts
}

func (e *Editor) track(evt store.Event) {
	if e.mode != ModeEdit {
		return
	}
	next, ok := store.TrackIndex(e.index, evt)
	if ok {
		e.index = next
		return
	}
	lost := e.index
	e.reset()
	if e.onInvalidate != nil {
		e.onInvalidate(lost)
	}
}

func (e *Editor) reset() {
	e.mode = ModeClosed
	e.index = -1
	e.form = validation.Input{}
	e.group = GroupNone
	e.base = model.Descriptor{}
	e.typeSelect.reset()
	e.linkTarget.reset()
	e.childTarget.reset()
}

// keepUnknown carries keys the form cannot edit over from the original
// descriptor.
func keepUnknown(saved, original model.Descriptor) model.Descriptor {
	for _, key := range original.Unknown() {
		if saved.Extra == nil {
			saved.Extra = make(map[string]json.RawMessage)
		}
		saved.Extra[key] = append(json.RawMessage(nil), original.Extra[key]...)
	}
	return saved
}
