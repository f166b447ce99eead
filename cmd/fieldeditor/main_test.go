package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const invoiceBuffer = `{
  "doctype": "Invoice",
  "fields": [
    {"name": "title", "label": "Title", "type": "string", "required": true},
    {"name": "status", "label": "Status", "type": "select", "options": ["draft", "paid"]}
  ]
}`

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(append([]string{"fieldeditor"}, args...), "test", &out)
	err := cmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheck(t *testing.T) {
	require := require.New(t)

	buffer := writeTemp(t, "schema.json", invoiceBuffer)
	out, err := runCmd(t, "check", "--buffer", buffer)
	require.NoError(err)
	require.Equal("ok: 2 field(s)\n", out)

	env := writeTemp(t, "env.yaml", `
field_types: [string, link]
fields:
  - {name: title, label: Title, type: string}
  - {name: title, label: Again, type: string}
  - {name: customer, label: Customer, type: link}
`)
	out, err = runCmd(t, "check", "--env", env)
	require.ErrorIs(err, errIssuesFound)
	require.Contains(out, "fields[1] (title)")
	require.Contains(out, "fields[2] (customer)")
}

func TestExport(t *testing.T) {
	require := require.New(t)
	buffer := writeTemp(t, "schema.json", invoiceBuffer)

	out, err := runCmd(t, "export", "--buffer", buffer)
	require.NoError(err)
	require.Contains(out, `"doctype": "Invoice"`)
	require.Contains(out, `"name": "status"`)

	out, err = runCmd(t, "export", "--buffer", buffer, "--format", "yaml")
	require.NoError(err)
	require.Contains(out, "doctype: Invoice\n")
	require.Contains(out, "name: title")
	require.Contains(out, "required: true")
	require.NotContains(out, "{")

	_, err = runCmd(t, "export", "--buffer", buffer, "--format", "toml")
	require.Error(err)
}

func TestOpenAPIAndImport(t *testing.T) {
	require := require.New(t)
	buffer := writeTemp(t, "schema.json", invoiceBuffer)
	docPath := filepath.Join(t.TempDir(), "openapi.json")

	_, err := runCmd(t, "openapi", "--buffer", buffer, "--component", "Invoice", "--output", docPath)
	require.NoError(err)
	doc, err := os.ReadFile(docPath)
	require.NoError(err)
	require.Contains(string(doc), `"Invoice"`)

	out, err := runCmd(t, "import", docPath)
	require.NoError(err)
	require.Contains(out, `"name": "title"`)
	require.Contains(out, `"options": [`)

	_, err = runCmd(t, "import", docPath, "--component", "Customer")
	require.Error(err)
}

func TestCodegen(t *testing.T) {
	buffer := writeTemp(t, "schema.json", invoiceBuffer)

	out, err := runCmd(t, "codegen", "--buffer", buffer, "--struct", "Invoice", "--package", "invoices")
	require.NoError(t, err)
	require.Contains(t, out, "package invoices")
	require.Contains(t, out, "type Invoice struct")
	require.Contains(t, out, "type InvoiceStatus string")
}

func TestRender(t *testing.T) {
	require := require.New(t)
	buffer := writeTemp(t, "schema.json", invoiceBuffer)

	out, err := runCmd(t, "render", "--buffer", buffer)
	require.NoError(err)
	require.Equal(" 1. Title (title) string [required]\n 2. Status (status) select options draft, paid\n", out)

	out, err = runCmd(t, "render", "--buffer", buffer, "-r", "html", "--variant", "dark", "--subset", "variant:options")
	require.NoError(err)
	require.Contains(out, `data-variant="dark"`)
	require.Contains(out, `data-name="status"`)
	require.NotContains(out, `data-name="title"`)
	require.Contains(out, `name="schema"`)

	_, err = runCmd(t, "render", "--buffer", buffer, "-r", "jsx")
	require.Error(err)
}
