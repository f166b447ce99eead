package editor

import (
	"github.com/untillpro/goutils/logger"
)

// Dropdown is a choice control whose options are populated from host data
// before a value can be selected.
type Dropdown struct {
	options  []string
	selected string
	ready    bool
}

// Populate replaces the option list and clears the selection, then runs then
// once the list is in place. Pre-selection belongs in then.
func (d *Dropdown) Populate(options []string, then func()) {
	d.options = append([]string(nil), options...)
	d.selected = ""
	d.ready = true
	if then != nil {
		then()
	}
}

// Select sets the current value. A value missing from the options is kept
// anyway (it came from stored data) and reported as false.
func (d *Dropdown) Select(value string) bool {
	if !d.ready {
		logger.Verbose("editor: selection before population:", value)
	}
	d.selected = value
	if value == "" {
		return true
	}
	for _, option := range d.options {
		if option == value {
			return true
		}
	}
	logger.Verbose("editor: value not among choices:", value)
	return false
}

// Options returns the populated option list.
func (d *Dropdown) Options() []string {
	return append([]string(nil), d.options...)
}

// Selected returns the current value.
func (d *Dropdown) Selected() string {
	return d.selected
}

// Ready reports whether Populate has completed.
func (d *Dropdown) Ready() bool {
	return d.ready
}

func (d *Dropdown) reset() {
	*d = Dropdown{}
}

// Choices are the host supplied lists the editor offers. They are read once
// at startup.
type Choices struct {
	FieldTypes    []string
	Doctypes      []string
	ChildDoctypes []string
}
