package session

import (
	"context"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Alerter surfaces a message to the operator.
type Alerter interface {
	Alert(ctx context.Context, message string) error
}

// Clipboard copies text for the operator.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// View redraws the field list.
type View interface {
	Render(ctx context.Context, fields []model.Descriptor) error
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(ctx context.Context, message string) error

func (f AlertFunc) Alert(ctx context.Context, message string) error {
	return f(ctx, message)
}

// ViewFunc adapts a function to View.
type ViewFunc func(ctx context.Context, fields []model.Descriptor) error

func (f ViewFunc) Render(ctx context.Context, fields []model.Descriptor) error {
	return f(ctx, fields)
}

type declineAll struct{}

func (declineAll) Confirm(context.Context, string) (bool, error) { return false, nil }

type silentAlerter struct{}

func (silentAlerter) Alert(context.Context, string) error { return nil }
