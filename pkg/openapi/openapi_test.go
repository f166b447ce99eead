package openapi_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/openapi"
	"github.com/goliatone/go-fieldeditor/pkg/testsupport"
)

func TestDocument_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fields := testsupport.SampleFields()

	doc, err := openapi.Document(ctx, fields, openapi.WithComponent("Sales Invoice"), openapi.WithTitle("Invoice"))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.Components == nil || doc.Components.Schemas["Sales_Invoice"] == nil {
		t.Fatalf("expected Sales_Invoice component")
	}

	raw, err := openapi.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"x-fieldeditor-formula": "round(subtotal * 1.2, 2)"`) {
		t.Fatalf("formula extension missing:\n%s", raw)
	}

	got, err := openapi.Parse(ctx, raw, "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	testsupport.RequireFields(t, fields, got)

	named, err := openapi.Parse(ctx, raw, "Sales Invoice")
	if err != nil {
		t.Fatalf("parse named: %v", err)
	}
	if len(named) != len(fields) {
		t.Fatalf("expected %d fields, got %d", len(fields), len(named))
	}
}

func TestSchema_Shapes(t *testing.T) {
	schema := openapi.Schema([]model.Descriptor{
		{Name: "amount", Label: "Amount", Type: model.FieldTypeCurrency, Required: true},
		{Name: "tags", Label: "Tags", Type: model.FieldTypeMultiselect, Options: []string{"a", "b"}},
		{Name: "amount", Label: "Duplicate", Type: model.FieldTypeString},
		{Name: "", Label: "Nameless", Type: model.FieldTypeString},
	})

	if diff := cmp.Diff([]string{"amount"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"amount", "tags"}, schema.Extensions[openapi.ExtOrder]); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	amount := schema.Properties["amount"].Value
	if !amount.Type.Is("number") || amount.Format != "double" || amount.Title != "Amount" {
		t.Fatalf("unexpected amount schema: %+v", amount)
	}
	tags := schema.Properties["tags"].Value
	if !tags.Type.Is("array") || tags.Items == nil {
		t.Fatalf("unexpected tags schema: %+v", tags)
	}
	if diff := cmp.Diff([]any{"a", "b"}, tags.Items.Value.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

const externalDoc = `
openapi: 3.0.3
info:
  title: External
  version: "1"
paths: {}
components:
  schemas:
    Invoice:
      type: object
      required: [number]
      properties:
        number:
          type: integer
        status:
          type: string
          enum: [draft, paid]
        tags:
          type: array
          items:
            type: string
        issued:
          type: string
          format: date
`

func TestParse_InfersTypes(t *testing.T) {
	got, err := openapi.Parse(context.Background(), []byte(externalDoc), "Invoice")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []model.Descriptor{
		{Name: "issued", Label: "Issued", Type: model.FieldTypeDate},
		{Name: "number", Label: "Number", Type: model.FieldTypeInteger, Required: true},
		{Name: "status", Label: "Status", Type: model.FieldTypeSelect, Options: []string{"draft", "paid"}},
		{Name: "tags", Label: "Tags", Type: model.FieldTypeMultiselect},
	}
	testsupport.RequireFields(t, want, got)
}

func TestParse_ComponentSelection(t *testing.T) {
	doc := externalDoc + `    Customer:
      type: object
      properties:
        name:
          type: string
`
	ctx := context.Background()
	if _, err := openapi.Parse(ctx, []byte(doc), ""); !errors.Is(err, openapi.ErrNoComponent) {
		t.Fatalf("expected ErrNoComponent for ambiguous document, got %v", err)
	}
	if _, err := openapi.Parse(ctx, []byte(doc), "Supplier"); !errors.Is(err, openapi.ErrNoComponent) {
		t.Fatalf("expected ErrNoComponent for missing component, got %v", err)
	}
	if _, err := openapi.Parse(ctx, []byte("openapi: ["), ""); err == nil {
		t.Fatal("expected load error")
	}
}

func TestComponentName(t *testing.T) {
	for in, want := range map[string]string{
		"Invoice Line": "Invoice_Line",
		"  ":           openapi.DefaultComponent,
		"a/b.c":        "a_b.c",
	} {
		if got := openapi.ComponentName(in); got != want {
			t.Fatalf("ComponentName(%q) = %q, want %q", in, got, want)
		}
	}
}
