package fieldeditor_test

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	fieldeditor "github.com/goliatone/go-fieldeditor"
	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/validation"
)

func TestLoadEnvironment(t *testing.T) {
	env, err := fieldeditor.LoadEnvironment("")
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if len(env.FieldTypes) != len(model.Types()) {
		t.Fatalf("default field types: %v", env.FieldTypes)
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "doctypes: [Customer]\nfields:\n  - name: title\n    label: Title\n    type: string\n")
	writeFile(t, filepath.Join(dir, "b.json"), `{"doctypes":["Supplier","Customer"]}`)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	env, err = fieldeditor.LoadEnvironment(dir)
	if err != nil {
		t.Fatalf("dir: %v", err)
	}
	if diff := cmp.Diff([]string{"Customer", "Supplier"}, env.Doctypes); diff != "" {
		t.Fatalf("doctypes mismatch (-want +got):\n%s", diff)
	}
	if len(env.Fields) != 1 || env.Fields[0].Name != "title" {
		t.Fatalf("fields: %+v", env.Fields)
	}

	single, err := fieldeditor.LoadEnvironment(filepath.Join(dir, "b.json"))
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if len(single.Fields) != 0 {
		t.Fatalf("unexpected fields: %+v", single.Fields)
	}

	if _, err := fieldeditor.LoadEnvironment(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected missing file error")
	}
}

func TestNewHTMLSession(t *testing.T) {
	var out bytes.Buffer
	sess, err := fieldeditor.NewHTMLSession(fieldeditor.Environment{}, &out, nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	ctx := context.Background()
	if err := sess.OpenForAdd(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := sess.UpdateForm(func(in *validation.Input) {
		in.Name, in.Label = "company", "Company"
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := sess.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(out.String(), `data-name="company"`) {
		t.Fatalf("html not rendered:\n%s", out.String())
	}
	if !strings.Contains(sess.Buffer(), `"name": "company"`) {
		t.Fatalf("buffer not synced: %s", sess.Buffer())
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	data, err := fs.ReadFile(fieldeditor.EmbeddedTemplates(), "templates/field_list.tpl")
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	if !strings.Contains(string(data), "fe-rows") {
		t.Fatalf("unexpected template:\n%s", data)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
