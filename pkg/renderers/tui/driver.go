package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig configures a single line prompt. Validator rejects an answer
// and asks again.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig configures a yes/no question.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures Select and MultiSelect. Answers are indices into
// Options.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	// Defaults preselects entries of a MultiSelect.
	Defaults []int
	Help     string
	PageSize int
}

// TextAreaConfig configures a multi-line prompt, used for pasted JSON.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// PromptDriver asks the operator questions. Implementations return
// ErrAborted when the operator gives up on a prompt.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

// SurveyOption configures the survey backed driver.
type SurveyOption func(*surveyDriver)

// WithStdio binds prompts to the given streams instead of the process
// terminal. Info messages go to out.
func WithStdio(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) SurveyOption {
	return func(d *surveyDriver) {
		d.in, d.out, d.errOut = in, out, errOut
	}
}

// WithPageSize caps how many options a select shows at once.
func WithPageSize(n int) SurveyOption {
	return func(d *surveyDriver) {
		if n > 0 {
			d.pageSize = n
		}
	}
}

type surveyDriver struct {
	in       terminal.FileReader
	out      terminal.FileWriter
	errOut   io.Writer
	pageSize int
}

// NewSurveyDriver prompts on the process terminal unless WithStdio says
// otherwise.
func NewSurveyDriver(opts ...SurveyOption) PromptDriver {
	d := &surveyDriver{in: os.Stdin, out: os.Stdout, errOut: os.Stderr, pageSize: 10}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// ask runs one prompt. Ctrl+C surfaces as ErrAborted.
func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, answer any, opts ...survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts = append(opts, survey.WithStdio(d.in, d.out, d.errOut))
	err := survey.AskOne(prompt, answer, opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func (d *surveyDriver) pages(n int) int {
	if n > 0 {
		return n
	}
	return d.pageSize
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var text string
	var opts []survey.AskOpt
	if check := cfg.Validator; check != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return check(s)
		}))
	}
	err := d.ask(ctx, &survey.Input{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &text, opts...)
	return text, err
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var yes bool
	err := d.ask(ctx, &survey.Confirm{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &yes)
	return yes, err
}

// Select answers with the chosen index; survey fills an int response with
// the option position directly.
func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{
		Message:  cfg.Message,
		Options:  cfg.Options,
		Help:     cfg.Help,
		PageSize: d.pages(cfg.PageSize),
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.DefaultIndex
	}
	choice := -1
	if err := d.ask(ctx, prompt, &choice); err != nil {
		return -1, err
	}
	return choice, nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	prompt := &survey.MultiSelect{
		Message:  cfg.Message,
		Options:  cfg.Options,
		Help:     cfg.Help,
		PageSize: d.pages(cfg.PageSize),
	}
	var defaults []int
	for _, i := range cfg.Defaults {
		if i >= 0 && i < len(cfg.Options) {
			defaults = append(defaults, i)
		}
	}
	if len(defaults) > 0 {
		prompt.Default = defaults
	}
	var chosen []int
	if err := d.ask(ctx, prompt, &chosen); err != nil {
		return nil, err
	}
	return chosen, nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	var text string
	err := d.ask(ctx, &survey.Multiline{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &text)
	return text, err
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}
