// Package session owns one editing session: the field store, the editor,
// the reorder engine and the schema buffer, plus the host capabilities they
// report through.
//
// Every operation that changes the collection re-renders the view and
// re-serializes the buffer before it returns, so the buffer a host reads
// always matches the committed fields.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-fieldeditor/pkg/bridge"
	"github.com/goliatone/go-fieldeditor/pkg/editor"
	"github.com/goliatone/go-fieldeditor/pkg/environment"
	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/reorder"
	"github.com/goliatone/go-fieldeditor/pkg/store"
	"github.com/goliatone/go-fieldeditor/pkg/validation"
)

// ErrDeleteDeclined is returned when the operator does not confirm a delete.
var ErrDeleteDeclined = errors.New("session: delete not confirmed")

// Option configures a Session.
type Option func(*Session)

// WithConfirmer sets the capability asked before destructive actions.
// Without one every delete is declined.
func WithConfirmer(c Confirmer) Option {
	return func(s *Session) {
		if c != nil {
			s.confirmer = c
		}
	}
}

// WithAlerter sets where validation and import messages go.
func WithAlerter(a Alerter) Option {
	return func(s *Session) {
		if a != nil {
			s.alerter = a
		}
	}
}

// WithClipboard enables copy on export.
func WithClipboard(c Clipboard) Option {
	return func(s *Session) {
		s.clipboard = c
	}
}

// WithView registers the list renderer.
func WithView(v View) Option {
	return func(s *Session) {
		s.view = v
	}
}

// WithEditorOptions passes options through to the editor.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(s *Session) {
		s.editorOpts = append(s.editorOpts, opts...)
	}
}

// Result reports a user-facing operation outcome.
type Result struct {
	OK      bool
	Message string
	Err     error
}

// ExportResult carries the exported text and whether it reached the
// clipboard. When Copied is false the host shows Text instead.
type ExportResult struct {
	Text    string
	Copied  bool
	Message string
	Err     error
}

// Session is the explicit editor state shared by all operations.
type Session struct {
	mu sync.Mutex

	env     environment.Environment
	store   *store.Store
	editor  *editor.Editor
	reorder *reorder.Engine
	bridge  *bridge.Bridge

	confirmer  Confirmer
	alerter    Alerter
	clipboard  Clipboard
	view       View
	editorOpts []editor.Option

	invalidated int
}

// New starts a session from env. The initial buffer is synchronized
// immediately.
func New(env environment.Environment, opts ...Option) (*Session, error) {
	s := &Session{
		env:         env,
		confirmer:   declineAll{},
		alerter:     silentAlerter{},
		invalidated: -1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.store = store.New(env.Fields)
	editorOpts := append([]editor.Option{
		editor.WithChoices(editor.Choices{
			FieldTypes:    env.FieldTypes,
			Doctypes:      env.Doctypes,
			ChildDoctypes: env.ChildDoctypes,
		}),
		editor.WithInvalidationHandler(func(index int) { s.invalidated = index }),
	}, s.editorOpts...)
	s.editor = editor.New(s.store, editorOpts...)
	s.reorder = reorder.New(s.store)
	s.bridge = bridge.New(s.store)
	s.bridge.SetBuffer(env.Buffer)

	if _, err := s.bridge.Sync(); err != nil {
		return nil, fmt.Errorf("session: initial sync: %w", err)
	}
	return s, nil
}

// Environment returns the data the session was started with.
func (s *Session) Environment() environment.Environment {
	return s.env
}

// Fields returns the committed collection.
func (s *Session) Fields() []model.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

// Buffer returns the schema buffer text.
func (s *Session) Buffer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bridge.Buffer()
}

// Editor returns the editor state.
func (s *Session) Editor() editor.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Snapshot()
}

// Choices returns the dropdown options of the open editor.
func (s *Session) Choices() (types, links, children []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.TypeChoices().Options(), s.editor.LinkChoices().Options(), s.editor.ChildChoices().Options()
}

// Render redraws the view without changing anything.
func (s *Session) Render(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(ctx)
}

// SyncNow rewrites the buffer; hosts call it right before submission.
func (s *Session) SyncNow() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bridge.Sync()
}

// OpenForAdd opens the editor with an empty form.
func (s *Session) OpenForAdd(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.OpenForAdd()
}

// OpenForEdit opens the editor on the field at index.
func (s *Session) OpenForEdit(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.OpenForEdit(index)
}

// ChangeType switches the form type.
func (s *Session) ChangeType(t model.FieldType) (editor.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.ChangeType(t)
}

// UpdateForm edits the open form.
func (s *Session) UpdateForm(fn func(*validation.Input)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Update(fn)
}

// Save commits the open form. Validation failures are alerted and returned;
// the editor stays open and nothing changes.
func (s *Session) Save(ctx context.Context) (model.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.editor.Save()
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			s.alert(ctx, verr.Message)
		}
		return model.Descriptor{}, err
	}
	return saved, s.commit(ctx)
}

// Cancel closes the editor without saving.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Cancel()
}

// Dismiss closes the editor from its backdrop.
func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Dismiss()
}

// Delete removes the field at index after the operator confirms. A field
// open in the editor is closed along with it.
func (s *Session) Delete(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	field, err := s.store.At(index)
	if err != nil {
		return fmt.Errorf("session: delete field %d: %w", index, err)
	}

	label := field.Label
	if label == "" {
		label = field.Name
	}
	ok, err := s.confirmer.Confirm(ctx, fmt.Sprintf("Delete field %q?", label))
	if err != nil {
		return fmt.Errorf("session: confirm delete: %w", err)
	}
	if !ok {
		return ErrDeleteDeclined
	}

	s.invalidated = -1
	if err := s.store.RemoveAt(index); err != nil {
		return fmt.Errorf("session: delete field %d: %w", index, err)
	}
	if s.invalidated >= 0 {
		logger.Verbose("session: closed editor on deleted field", s.invalidated)
	}
	return s.commit(ctx)
}

// BeginDrag starts a reorder gesture.
func (s *Session) BeginDrag(source int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reorder.Begin(source)
}

// DragOver records the hovered position.
func (s *Session) DragOver(target int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reorder.Over(target)
}

// Drop completes the gesture.
func (s *Session) Drop(ctx context.Context, target int) (reorder.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.reorder.Drop(target)
	if err != nil || !res.Moved {
		return res, err
	}
	return res, s.commit(ctx)
}

// CancelDrag abandons the gesture.
func (s *Session) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reorder.Cancel()
}

// Move reorders without a gesture.
func (s *Session) Move(ctx context.Context, from, to int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.MoveTo(from, to) {
		return false, nil
	}
	return true, s.commit(ctx)
}

// Import replaces the collection with the fields in text. Failures leave
// the collection as it was.
func (s *Session) Import(ctx context.Context, text string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.bridge.Import(text)
	if err != nil {
		res := Result{Err: err, Message: importMessage(err)}
		s.alert(ctx, res.Message)
		return res
	}
	if err := s.render(ctx); err != nil {
		logger.Warning("session: render after import:", err)
	}

	res := Result{OK: true, Message: fmt.Sprintf("Imported %d field(s)", n)}
	s.alert(ctx, res.Message)
	return res
}

// Export renders the collection and tries the clipboard. Without a
// clipboard, or when copying fails, the text is returned for display.
func (s *Session) Export(ctx context.Context) ExportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.bridge.Export()
	if err != nil {
		return ExportResult{Err: err, Message: "Export failed: " + err.Error()}
	}
	if s.clipboard == nil {
		return ExportResult{Text: text, Message: "Copy the JSON below"}
	}
	if err := s.clipboard.Copy(ctx, text); err != nil {
		logger.Verbose("session: clipboard copy failed:", err)
		return ExportResult{Text: text, Err: err, Message: "Clipboard unavailable, copy the JSON below"}
	}
	return ExportResult{Text: text, Copied: true, Message: "Schema copied to clipboard"}
}

func (s *Session) commit(ctx context.Context) error {
	if _, err := s.bridge.Sync(); err != nil {
		return fmt.Errorf("session: sync buffer: %w", err)
	}
	if err := s.render(ctx); err != nil {
		logger.Warning("session: render:", err)
	}
	return nil
}

func (s *Session) render(ctx context.Context) error {
	if s.view == nil {
		return nil
	}
	return s.view.Render(ctx, s.store.All())
}

func (s *Session) alert(ctx context.Context, message string) {
	if message == "" {
		return
	}
	if err := s.alerter.Alert(ctx, message); err != nil {
		logger.Verbose("session: alert failed:", err)
	}
}

func importMessage(err error) string {
	var parseErr *bridge.ParseError
	switch {
	case errors.As(err, &parseErr):
		return "Invalid JSON: " + parseErr.Err.Error()
	case errors.Is(err, bridge.ErrUnrecognizedShape):
		return "Unrecognized format: expected an array of fields or an object with a \"fields\" array"
	default:
		return "Import failed: " + err.Error()
	}
}
