package environment

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

func TestParse_JSON(t *testing.T) {
	env, err := Parse([]byte(`{
  "fields": [{"name":"title","label":"Title","type":"string","width":2}],
  "field_types": ["string", " link ", "string", ""],
  "doctypes": ["Customer"],
  "child_doctypes": ["Invoice Line"],
  "buffer": "{\"doctype\":\"Invoice\"}"
}`), "env.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"string", "link"}, env.FieldTypes); diff != "" {
		t.Fatalf("field types (-want +got):\n%s", diff)
	}
	if len(env.Fields) != 1 || env.Fields[0].Name != "title" {
		t.Fatalf("fields not decoded: %+v", env.Fields)
	}
	if diff := cmp.Diff([]string{"width"}, env.Fields[0].Unknown()); diff != "" {
		t.Fatalf("unknown keys (-want +got):\n%s", diff)
	}
	if env.Buffer != `{"doctype":"Invoice"}` {
		t.Fatalf("buffer mismatch: %q", env.Buffer)
	}
}

func TestParse_YAML(t *testing.T) {
	env, err := Parse([]byte(`
fields:
  - name: customer
    label: Customer
    type: link
    link_doctype: Customer
    required: true
  - name: status
    label: Status
    type: select
    options: [open, closed]
field_types: [string, link, select]
doctypes: [Customer, Supplier]
child_doctypes: []
`), "env.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []model.Descriptor{
		{Name: "customer", Label: "Customer", Type: model.FieldTypeLink, LinkDoctype: "Customer", Required: true},
		{Name: "status", Label: "Status", Type: model.FieldTypeSelect, Options: []string{"open", "closed"}},
	}
	if diff := cmp.Diff(want, env.Fields); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Customer", "Supplier"}, env.Doctypes); diff != "" {
		t.Fatalf("doctypes (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	for name, data := range map[string]string{
		"empty":    "  ",
		"invalid":  "fields: [unclosed",
		"sequence": "- a\n- b\n",
	} {
		if _, err := Parse([]byte(data), name); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFS_Merges(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json":     {Data: []byte(`{"fields":[{"name":"a","label":"A","type":"string"}],"doctypes":["Customer"]}`)},
		"b/b.yaml":   {Data: []byte("fields:\n  - name: b\n    label: B\n    type: date\ndoctypes: [Customer, Item]\n")},
		"readme.txt": {Data: []byte("ignored")},
	}
	env, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var names []string
	for _, f := range env.Fields {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"a", "b"}, names); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Customer", "Item"}, env.Doctypes); diff != "" {
		t.Fatalf("doctypes (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yml")
	if err := os.WriteFile(path, []byte("doctypes: [Project]\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	env, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"Project"}, env.Doctypes); diff != "" {
		t.Fatalf("doctypes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.Types(), env.Types()); diff != "" {
		t.Fatalf("types should fall back to the built-in vocabulary (-want +got):\n%s", diff)
	}
}

func TestDefault(t *testing.T) {
	env := Default()
	if diff := cmp.Diff(model.Types(), env.Types()); diff != "" {
		t.Fatalf("default types (-want +got):\n%s", diff)
	}
	if len(env.Fields) != 0 {
		t.Fatalf("default environment should have no fields")
	}
}
