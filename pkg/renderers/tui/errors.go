package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoFields is returned by actions that pick an existing field when
	// the collection is empty.
	ErrNoFields = errors.New("tui: no fields to choose from")
)
