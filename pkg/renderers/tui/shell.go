package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-fieldeditor/pkg/editor"
	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/render"
	"github.com/goliatone/go-fieldeditor/pkg/session"
	"github.com/goliatone/go-fieldeditor/pkg/validation"
)

// Menu entries, in display order.
const (
	ActionAdd    = "Add field"
	ActionEdit   = "Edit field"
	ActionDelete = "Delete field"
	ActionMove   = "Move field"
	ActionImport = "Import JSON"
	ActionExport = "Export JSON"
	ActionBuffer = "Show schema"
	ActionQuit   = "Quit"
)

var menu = []string{ActionAdd, ActionEdit, ActionDelete, ActionMove, ActionImport, ActionExport, ActionBuffer, ActionQuit}

var flagOptions = []string{"required", "unique", "readonly"}

// Shell is an interactive terminal editor over a session. It also serves
// as the session's confirmer, alerter and view.
type Shell struct {
	driver  PromptDriver
	theme   Theme
	colored bool
	list    *render.TextRenderer
}

var (
	_ session.Confirmer = (*Shell)(nil)
	_ session.Alerter   = (*Shell)(nil)
	_ session.View      = (*Shell)(nil)
)

// New constructs a shell. Without a driver it prompts on the terminal.
func New(options ...Option) *Shell {
	s := &Shell{theme: DefaultTheme(), colored: true}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver()
	}
	s.list = render.NewText(s.colored)
	return s
}

// SessionOptions wires the shell into a session as its capabilities.
func (s *Shell) SessionOptions() []session.Option {
	return []session.Option{
		session.WithConfirmer(s),
		session.WithAlerter(s),
		session.WithView(s),
	}
}

// Confirm implements session.Confirmer.
func (s *Shell) Confirm(ctx context.Context, message string) (bool, error) {
	return s.driver.Confirm(ctx, ConfirmConfig{Message: message})
}

// Alert implements session.Alerter.
func (s *Shell) Alert(ctx context.Context, message string) error {
	return s.driver.Info(ctx, s.theme.InfoPrefix+" "+message)
}

// Render implements session.View.
func (s *Shell) Render(ctx context.Context, fields []model.Descriptor) error {
	out, err := s.list.Render(ctx, fields, render.DefaultOptions())
	if err != nil {
		return err
	}
	return s.driver.Info(ctx, strings.TrimRight(string(out), "\n"))
}

// Run shows the list and loops over the menu until the operator quits or
// aborts.
func (s *Shell) Run(ctx context.Context, sess *session.Session) error {
	if err := sess.Render(ctx); err != nil {
		return err
	}
	for {
		choice, err := s.driver.Select(ctx, SelectConfig{Message: "What next?", Options: menu})
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(menu) || menu[choice] == ActionQuit {
			return nil
		}

		err = s.Do(ctx, sess, menu[choice])
		if err == nil {
			continue
		}
		// A failed action never leaves a form or a drag open.
		sess.Cancel()
		sess.CancelDrag()
		switch {
		case errors.Is(err, ErrAborted):
		case errors.Is(err, context.Canceled):
			return err
		default:
			s.fail(ctx, err)
		}
	}
}

// Do performs one menu action.
func (s *Shell) Do(ctx context.Context, sess *session.Session, action string) error {
	switch action {
	case ActionAdd:
		if err := sess.OpenForAdd(ctx); err != nil {
			return err
		}
		return s.fillAndSave(ctx, sess)
	case ActionEdit:
		index, err := s.pickField(ctx, sess, "Edit which field?")
		if err != nil {
			return err
		}
		if err := sess.OpenForEdit(ctx, index); err != nil {
			return err
		}
		return s.fillAndSave(ctx, sess)
	case ActionDelete:
		index, err := s.pickField(ctx, sess, "Delete which field?")
		if err != nil {
			return err
		}
		err = sess.Delete(ctx, index)
		if errors.Is(err, session.ErrDeleteDeclined) {
			return s.driver.Info(ctx, s.theme.InfoPrefix+" Kept")
		}
		return err
	case ActionMove:
		return s.move(ctx, sess)
	case ActionImport:
		text, err := s.driver.TextArea(ctx, TextAreaConfig{
			Message: "Paste fields JSON",
			Help:    `An array of fields or an object with a "fields" array`,
		})
		if err != nil {
			return err
		}
		sess.Import(ctx, text)
		return nil
	case ActionExport:
		res := sess.Export(ctx)
		if res.Err != nil && res.Text == "" {
			return res.Err
		}
		if err := s.driver.Info(ctx, s.theme.InfoPrefix+" "+res.Message); err != nil {
			return err
		}
		if !res.Copied {
			return s.driver.Info(ctx, res.Text)
		}
		return nil
	case ActionBuffer:
		return s.driver.Info(ctx, sess.Buffer())
	}
	return fmt.Errorf("tui: unknown action %q", action)
}

// fillAndSave walks the open form and saves it. A rejected save has already
// been alerted; the operator may retry with the values kept.
func (s *Shell) fillAndSave(ctx context.Context, sess *session.Session) error {
	for {
		if err := s.fillForm(ctx, sess); err != nil {
			sess.Cancel()
			return err
		}
		_, err := sess.Save(ctx)
		if err == nil {
			return nil
		}
		var verr *validation.Error
		if !errors.As(err, &verr) {
			sess.Cancel()
			return err
		}
		retry, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Fix and try again?", Default: true})
		if err != nil {
			sess.Cancel()
			return err
		}
		if !retry {
			sess.Cancel()
			return nil
		}
	}
}

func (s *Shell) fillForm(ctx context.Context, sess *session.Session) error {
	form := sess.Editor().Form
	types, links, children := sess.Choices()

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      "Type",
		Options:      types,
		DefaultIndex: indexOf(types, string(form.Type)),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(types) {
		return fmt.Errorf("tui: type choice %d out of range", idx)
	}
	group, err := sess.ChangeType(model.FieldType(types[idx]))
	if err != nil {
		return err
	}

	label, err := s.driver.Input(ctx, InputConfig{Message: "Label", Default: form.Label})
	if err != nil {
		return err
	}
	suggested := form.Name
	if suggested == "" {
		suggested = model.NameFromLabel(label)
	}
	name, err := s.driver.Input(ctx, InputConfig{
		Message: "Name",
		Default: suggested,
		Help:    "lowercase letters and underscores",
	})
	if err != nil {
		return err
	}
	form.Label, form.Name = label, name

	switch group {
	case editor.GroupLink:
		form.LinkDoctype, err = s.pickOrType(ctx, "Links to", links, form.LinkDoctype)
	case editor.GroupOptions:
		form.Options, err = s.driver.Input(ctx, InputConfig{
			Message: "Options",
			Default: form.Options,
			Help:    "comma separated",
		})
	case editor.GroupTable:
		form.ChildDoctype, err = s.pickOrType(ctx, "Rows of", children, form.ChildDoctype)
	case editor.GroupComputed:
		form.Formula, err = s.driver.Input(ctx, InputConfig{
			Message: "Formula",
			Default: form.Formula,
			Help:    "e.g. round(price * qty, 2)",
		})
	}
	if err != nil {
		return err
	}

	var defaults []int
	for i, set := range []bool{form.Required, form.Unique, form.Readonly} {
		if set {
			defaults = append(defaults, i)
		}
	}
	flags, err := s.driver.MultiSelect(ctx, SelectConfig{Message: "Flags", Options: flagOptions, Defaults: defaults})
	if err != nil {
		return err
	}
	form.Required, form.Unique, form.Readonly = false, false, false
	for _, i := range flags {
		switch i {
		case 0:
			form.Required = true
		case 1:
			form.Unique = true
		case 2:
			form.Readonly = true
		}
	}

	if form.Default, err = s.driver.Input(ctx, InputConfig{Message: "Default", Default: form.Default}); err != nil {
		return err
	}
	if form.Description, err = s.driver.Input(ctx, InputConfig{Message: "Description", Default: form.Description}); err != nil {
		return err
	}

	return sess.UpdateForm(func(in *validation.Input) {
		typ := in.Type
		*in = form
		in.Type = typ
	})
}

// pickOrType selects from choices, falling back to free text when the host
// supplied none. A current value missing from choices is offered first.
func (s *Shell) pickOrType(ctx context.Context, message string, choices []string, current string) (string, error) {
	if len(choices) == 0 {
		return s.driver.Input(ctx, InputConfig{Message: message, Default: current})
	}
	options := choices
	if current != "" && indexOf(choices, current) < 0 {
		logger.Verbose("tui: keeping value outside the choices:", current)
		options = append([]string{current}, choices...)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: indexOf(options, current)})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("tui: choice %d out of range", idx)
	}
	return options[idx], nil
}

func (s *Shell) pickField(ctx context.Context, sess *session.Session, message string) (int, error) {
	fields := sess.Fields()
	if len(fields) == 0 {
		return -1, ErrNoFields
	}
	options := make([]string, len(fields))
	for i, f := range fields {
		options[i] = fmt.Sprintf("%d. %s (%s)", i+1, f.Label, f.Name)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return -1, err
	}
	if idx < 0 || idx >= len(fields) {
		return -1, fmt.Errorf("tui: field choice %d out of range", idx)
	}
	return idx, nil
}

// move runs a drag gesture: pick up, hover, drop.
func (s *Shell) move(ctx context.Context, sess *session.Session) error {
	from, err := s.pickField(ctx, sess, "Move which field?")
	if err != nil {
		return err
	}
	if err := sess.BeginDrag(from); err != nil {
		return err
	}
	to, err := s.pickField(ctx, sess, "Drop at which position?")
	if err != nil {
		sess.CancelDrag()
		return err
	}
	if err := sess.DragOver(to); err != nil {
		sess.CancelDrag()
		return err
	}
	res, err := sess.Drop(ctx, to)
	if err != nil {
		return err
	}
	if !res.Moved {
		return s.driver.Info(ctx, s.theme.InfoPrefix+" Nothing moved")
	}
	return nil
}

func (s *Shell) fail(ctx context.Context, err error) {
	if infoErr := s.driver.Info(ctx, s.theme.ErrorPrefix+" "+err.Error()); infoErr != nil {
		logger.Warning("tui: report error:", infoErr)
	}
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
