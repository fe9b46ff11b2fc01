package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uigen/pkg/util"
)

const smallRegistryJSON = `{
  // comments and trailing commas are allowed
  "name": "small",
  "version": "0.1.0",
  "package": "@small/ui",
  "components": [
    {
      "id": "chip",
      "export_name": "Chip",
      "props": [
        {"name": "tone", "type": "enum", "values": ["soft", "solid"], "default": "soft"},
        {"name": "count", "type": "string|number"},
      ],
      "children": {"allowed_types": "text"},
    },
  ],
}`

const smallRegistryYAML = `
name: small
version: 0.1.0
package: "@small/ui"
components:
  - id: chip
    export_name: Chip
    props:
      - name: tone
        type: enum
        values: [soft, solid]
        required: true
    children:
      allowed_types: none
`

func TestDefault(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "@heroui/react", r.Package)
	assert.Equal(t, []string{"alert", "badge", "button", "card", "input"}, r.IDs())

	button, ok := r.Lookup("button")
	require.True(t, ok)
	variant, ok := button.Prop("variant")
	require.True(t, ok)
	assert.Equal(t, KindEnum, variant.Type.Kind)
	assert.Equal(t, []string{"primary", "secondary", "danger", "ghost"}, variant.Type.Values)

	alert, _ := r.Lookup("alert")
	assert.Equal(t, []string{"status"}, alert.RequiredProps())

	input, _ := r.Lookup("input")
	assert.Equal(t, ChildrenNone, input.Children.AllowedTypes)

	badge, _ := r.Lookup("badge")
	assert.Equal(t, ChildrenText, badge.Children.AllowedTypes)
}

func TestLoadFromBytes_JSONC(t *testing.T) {
	r, err := LoadFromBytes([]byte(smallRegistryJSON), util.DocumentJSON)
	require.NoError(t, err)

	chip, ok := r.Lookup("chip")
	require.True(t, ok)
	tone, _ := chip.Prop("tone")
	assert.Equal(t, "soft", tone.Default)
	count, _ := chip.Prop("count")
	assert.Equal(t, KindUnion, count.Type.Kind)
}

func TestLoadFromBytes_YAML(t *testing.T) {
	r, err := LoadFromBytes([]byte(smallRegistryYAML), util.DocumentYAML)
	require.NoError(t, err)

	chip, ok := r.Lookup("chip")
	require.True(t, ok)
	assert.Equal(t, []string{"tone"}, chip.RequiredProps())
	assert.Equal(t, ChildrenNone, chip.Children.AllowedTypes)
}

func TestLoadFromBytes_SchemaViolation(t *testing.T) {
	tests := map[string]string{
		"missing components": `{"name": "x", "version": "1", "package": "p"}`,
		"unknown field":      `{"name": "x", "version": "1", "package": "p", "components": [], "extra": 1}`,
		"bad children":       `{"name": "x", "version": "1", "package": "p", "components": [{"id": "a", "export_name": "A", "props": [], "children": {"allowed_types": "all"}}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(doc), util.DocumentJSON)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema validation failed")
		})
	}
}

func TestLoadFromBytes_InvalidPropType(t *testing.T) {
	doc := `{"name": "x", "version": "1", "package": "p", "components": [
	  {"id": "a", "export_name": "A", "props": [{"name": "when", "type": "date"}], "children": {"allowed_types": "any"}}
	]}`
	_, err := LoadFromBytes([]byte(doc), util.DocumentJSON)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPropType))
}

func TestLoadFromBytes_Inconsistent(t *testing.T) {
	doc := `{"name": "x", "version": "1", "package": "p", "components": [
	  {"id": "a", "export_name": "A", "props": [], "children": {"allowed_types": "any"}},
	  {"id": "a", "export_name": "B", "props": [], "children": {"allowed_types": "any"}}
	]}`
	_, err := LoadFromBytes([]byte(doc), util.DocumentJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallRegistryYAML), 0o644))

	r, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "small", r.Name)

	_, err = LoadFromFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read registry file")
}
