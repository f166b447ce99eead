// Package testsupport holds fixtures shared by the package tests.
package testsupport

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// SampleFields returns a collection with one field of every variant plus a
// couple of generic ones. Each call returns fresh values.
func SampleFields() []model.Descriptor {
	return []model.Descriptor{
		{Name: "title", Label: "Title", Type: model.FieldTypeString, Required: true, Description: "Shown in lists"},
		{Name: "issued_on", Label: "Issued On", Type: model.FieldTypeDate, Default: "today"},
		{Name: "customer", Label: "Customer", Type: model.FieldTypeLink, LinkDoctype: "Customer", Unique: true},
		{Name: "status", Label: "Status", Type: model.FieldTypeSelect, Options: []string{"draft", "sent", "paid"}},
		{Name: "lines", Label: "Lines", Type: model.FieldTypeTable, ChildDoctype: "Invoice Line"},
		{Name: "total", Label: "Total", Type: model.FieldTypeComputed, Formula: "round(subtotal * 1.2, 2)", Readonly: true},
	}
}

// RequireFields fails the test when got differs from want.
func RequireFields(t *testing.T, want, got []model.Descriptor) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

// CaptureTemplateOutput runs a render that also writes to a writer and
// returns both the result and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
