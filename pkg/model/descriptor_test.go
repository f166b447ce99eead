package model_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

func TestDescriptor_MarshalOmitsEmptyAttributes(t *testing.T) {
	d := model.Descriptor{
		Name:     "company",
		Label:    "Company",
		Type:     model.FieldTypeString,
		Required: true,
	}

	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"company","label":"Company","type":"string","required":true}`
	if string(got) != want {
		t.Fatalf("unexpected projection:\nwant %s\ngot  %s", want, got)
	}
}

func TestDescriptor_MarshalVariantAttributes(t *testing.T) {
	d := model.Descriptor{
		Name:    "status",
		Label:   "Status",
		Type:    model.FieldTypeSelect,
		Options: []string{"open", "closed"},
	}

	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"status","label":"Status","type":"select","options":["open","closed"]}`
	if string(got) != want {
		t.Fatalf("unexpected projection:\nwant %s\ngot  %s", want, got)
	}
}

func TestDescriptor_UnmarshalKeepsUnknownAndMistypedKeys(t *testing.T) {
	input := `{"name":5,"label":"Qty","type":"decimal","max_digits":10,"required":"yes","options":null}`

	var d model.Descriptor
	if err := json.Unmarshal([]byte(input), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if d.Name != "" || d.Label != "Qty" || d.Type != model.FieldTypeDecimal || d.Required {
		t.Fatalf("unexpected typed fields: %+v", d)
	}
	if diff := cmp.Diff([]string{"max_digits"}, d.Unknown()); diff != "" {
		t.Fatalf("unknown keys mismatch (-want +got):\n%s", diff)
	}
	for _, key := range []string{"name", "required", "options", "max_digits"} {
		if _, ok := d.Extra[key]; !ok {
			t.Fatalf("expected %q preserved in Extra", key)
		}
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var want, got map[string]any
	if err := json.Unmarshal([]byte(input), &want); err != nil {
		t.Fatalf("decode input: %v", err)
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDescriptor_TypedFieldWinsOverExtra(t *testing.T) {
	d := model.Descriptor{
		Name:  "code",
		Label: "Code",
		Type:  model.FieldTypeString,
		Extra: map[string]json.RawMessage{"name": json.RawMessage(`42`)},
	}

	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"code","label":"Code","type":"string"}`
	if string(got) != want {
		t.Fatalf("unexpected projection:\nwant %s\ngot  %s", want, got)
	}
}

func TestDescriptor_CloneIsDeep(t *testing.T) {
	original := model.Descriptor{
		Name:    "tags",
		Options: []string{"a"},
		Extra:   map[string]json.RawMessage{"x": json.RawMessage(`1`)},
	}
	clone := original.Clone()
	clone.Options[0] = "b"
	clone.Extra["x"] = json.RawMessage(`2`)

	if original.Options[0] != "a" || string(original.Extra["x"]) != "1" {
		t.Fatalf("clone shares state with original: %+v", original)
	}
}

func TestFieldType_Variant(t *testing.T) {
	cases := map[model.FieldType]model.Variant{
		model.FieldTypeString:      model.VariantNone,
		model.FieldTypeEmail:       model.VariantNone,
		model.FieldTypeLink:        model.VariantLink,
		model.FieldTypeSelect:      model.VariantOptions,
		model.FieldTypeMultiselect: model.VariantOptions,
		model.FieldTypeTable:       model.VariantTable,
		model.FieldTypeComputed:    model.VariantComputed,
		model.FieldType("custom"):  model.VariantNone,
	}
	for typ, want := range cases {
		if got := typ.Variant(); got != want {
			t.Errorf("%s: want %s, got %s", typ, want, got)
		}
	}
	if model.DefaultType() != model.FieldTypeString {
		t.Fatalf("default type should be the first generic type")
	}
	if model.FieldType("custom").IsBuiltin() {
		t.Fatalf("custom type should not be builtin")
	}
}

func TestLabelHelpers(t *testing.T) {
	if got := model.LabelFromName("company_name"); got != "Company Name" {
		t.Fatalf("LabelFromName: got %q", got)
	}
	if got := model.NameFromLabel("  Invoice Total 2 "); got != "invoice_total" {
		t.Fatalf("NameFromLabel: got %q", got)
	}
}
