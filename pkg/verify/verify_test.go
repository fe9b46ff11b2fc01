package verify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uigen/pkg/generator"
	"github.com/gnana997/uigen/pkg/parser"
	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/spec"
	"github.com/gnana997/uigen/pkg/tokens"
)

func TestVerify_GeneratedButton(t *testing.T) {
	v := newVerifier(t, parser.DialectTSX)

	code := "import { Button } from \"@heroui/react\";\n\n<Button variant=\"primary\" />"
	report, err := v.Verify(code, "Button")
	require.NoError(t, err)

	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
	assert.Equal(t, "tsx", report.Dialect)
	assert.Equal(t, 3, report.Summary.LineCount)
	assert.Equal(t, []string{"@heroui/react"}, report.Summary.Imports)
	require.Len(t, report.Summary.Components, 1)
	assert.Equal(t, "Button", report.Summary.Components[0].Name)
	assert.Equal(t, []string{"variant"}, report.Summary.Components[0].Props)
}

func TestVerify_NestedComponents(t *testing.T) {
	v := newVerifier(t, parser.DialectTSX)

	code := strings.Join([]string{
		`import { Button, Card } from "@heroui/react";`,
		``,
		`<Card variant="secondary">`,
		`  <Button size="sm">Go</Button>`,
		`  <Button size="lg">Stop</Button>`,
		`</Card>`,
	}, "\n")
	report, err := v.Verify(code, "Card")
	require.NoError(t, err)

	assert.True(t, report.Valid, "issues: %v", report.Issues)
	require.Len(t, report.Summary.Components, 3)
	assert.Equal(t, "Card", report.Summary.Components[0].Name)
	assert.Equal(t, 2, report.Summary.Components[0].Children)
	assert.Equal(t, 4, report.Summary.Components[1].Line)
}

func TestVerify_MissingImport(t *testing.T) {
	v := newVerifier(t, parser.DialectTSX)

	report, err := v.Verify(`<Button variant="primary" />`, "Button")
	require.NoError(t, err)

	assert.False(t, report.Valid)
	assertIssue(t, report.Issues, spec.LevelError, "Component 'Button' is used but not imported")
}

func TestVerify_WrongRoot(t *testing.T) {
	v := newVerifier(t, parser.DialectTSX)

	code := "import { Button } from \"@heroui/react\";\n\n<Button />"
	report, err := v.Verify(code, "Card")
	require.NoError(t, err)

	assert.False(t, report.Valid)
	assertIssue(t, report.Issues, spec.LevelError, "Root element is 'Button', expected 'Card'")
}

func TestVerify_NoElement(t *testing.T) {
	v := newVerifier(t, parser.DialectTSX)

	report, err := v.Verify(`const x = 1;`, "Button")
	require.NoError(t, err)

	assert.False(t, report.Valid)
	assertIssue(t, report.Issues, spec.LevelError, "Generated code does not render 'Button'")
}

func TestVerify_SyntaxError(t *testing.T) {
	v := newVerifier(t, parser.DialectTSX)

	code := "import { Button } from \"@heroui/react\";\n\n<Button variant=\"primary\">"
	report, err := v.Verify(code, "")
	require.NoError(t, err)

	assert.False(t, report.Valid)
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, spec.LevelError, report.Issues[0].Level)
	assert.Equal(t, "code", report.Issues[0].Path)
}

func TestVerify_UnusedImportIsWarning(t *testing.T) {
	v := newVerifier(t, parser.DialectTSX)

	code := "import { Button, Card } from \"@heroui/react\";\n\n<Button />"
	report, err := v.Verify(code, "Button")
	require.NoError(t, err)

	assert.True(t, report.Valid)
	assertIssue(t, report.Issues, spec.LevelWarning, "Import 'Card' from '@heroui/react' is unused")
}

func TestVerify_SideEffectImport(t *testing.T) {
	v := newVerifier(t, parser.DialectTSX)

	code := strings.Join([]string{
		`import { Button } from "@heroui/react";`,
		`import "@heroui/styles/tokens.css";`,
		``,
		`<Button style={{ "--color-bg": "var(--accent-500)" }} />`,
	}, "\n")
	report, err := v.Verify(code, "Button")
	require.NoError(t, err)

	assert.True(t, report.Valid, "issues: %v", report.Issues)
	assert.Equal(t, []string{"@heroui/react", "@heroui/styles/tokens.css"}, report.Summary.Imports)
}

func TestVerify_JSXDialect(t *testing.T) {
	v := newVerifier(t, parser.DialectJSX)

	code := "import { Badge } from \"@heroui/react\";\n\n<Badge color=\"success\">New</Badge>"
	report, err := v.Verify(code, "Badge")
	require.NoError(t, err)

	assert.True(t, report.Valid, "issues: %v", report.Issues)
	assert.Equal(t, "jsx", report.Dialect)
}

func TestVerifyResult_GeneratedCode(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)
	tok, err := tokens.Default()
	require.NoError(t, err)
	gen := generator.New(reg, tok)

	pm := parser.NewManager(nil, 2)
	defer pm.Close()
	v := New(pm, parser.DialectTSX, reg)

	inputs := []string{
		`{"component":{"id":"button","variant":"danger"},"children":{"type":"text","content":"Delete"}}`,
		`{"component":{"id":"input"},"props":{"name":{"value":"email","source":"literal"},"isRequired":{"value":true,"source":"literal"}}}`,
		`{"component":{"id":"card"},"design":{"colors":{"bg":"accent-500"},"spacing":{"gap":"spacing-4"}},"children":{"type":"slot"}}`,
		`{"component":{"id":"alert"},"props":{"status":{"value":"success","source":"literal"}}}`,
	}
	for _, in := range inputs {
		r := gen.GenerateJSON([]byte(in))
		require.True(t, r.Success, "input %s: %v", in, r.Issues())

		report, err := v.VerifyResult(r)
		require.NoError(t, err)
		require.NotNil(t, report)
		assert.True(t, report.Valid, "code:\n%s\nissues: %v", r.Code, report.Issues)
	}

	failed := gen.GenerateJSON([]byte(`{"component":{"id":"nope"}}`))
	report, err := v.VerifyResult(failed)
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestExtract_Attributes(t *testing.T) {
	pm := parser.NewManager(nil, 1)
	defer pm.Close()

	source := []byte(`<Input name="email" isRequired isDisabled={true} onChange={handleChange} />`)
	tree, err := pm.Parse(source, parser.DialectTSX)
	require.NoError(t, err)
	defer tree.Close()

	ext := Extract(tree, source)
	require.Len(t, ext.Usages, 1)
	u := ext.Usages[0]
	assert.Equal(t, "Input", u.Name)
	assert.False(t, u.HasChildren)
	assert.Equal(t, 1, u.Line)
	assert.Equal(t, 1, u.Column)

	want := []Attribute{
		{Name: "name", Value: "email"},
		{Name: "isRequired", Value: "true", Expression: true},
		{Name: "isDisabled", Value: "true", Expression: true},
		{Name: "onChange", Value: "handleChange", Expression: true},
	}
	assert.Equal(t, want, u.Attributes)

	a, ok := u.Attribute("onChange")
	assert.True(t, ok)
	assert.Equal(t, "handleChange", a.Value)
	_, ok = u.Attribute("missing")
	assert.False(t, ok)
}

func TestExtract_ImportsAndParents(t *testing.T) {
	pm := parser.NewManager(nil, 1)
	defer pm.Close()

	source := []byte(strings.Join([]string{
		`import { Card, Button as Btn } from "@heroui/react";`,
		`import "@heroui/styles/tokens.css";`,
		`<Card><div><Btn /></div></Card>`,
	}, "\n"))
	tree, err := pm.Parse(source, parser.DialectTSX)
	require.NoError(t, err)
	defer tree.Close()

	ext := Extract(tree, source)
	require.Len(t, ext.Imports, 2)
	assert.Equal(t, []string{"Card", "Btn"}, ext.Imports[0].Names)
	assert.True(t, ext.Imports[1].SideEffect())
	assert.True(t, ext.Imported("Btn"))
	assert.False(t, ext.Imported("Button"))

	require.Len(t, ext.Usages, 2)
	assert.True(t, ext.Usages[0].HasChildren)
	assert.Equal(t, "Card", ext.Usages[1].Parent)
	assert.Len(t, ext.TopLevel(), 1)
}

// --- Helpers ---

func newVerifier(t *testing.T, dialect parser.Dialect) *Verifier {
	t.Helper()
	pm := parser.NewManager(nil, 2)
	t.Cleanup(func() { pm.Close() })
	return New(pm, dialect, nil)
}

func assertIssue(t *testing.T, issues []spec.Issue, level spec.Level, message string) {
	t.Helper()
	for _, is := range issues {
		if is.Level == level && is.Message == message {
			return
		}
	}
	t.Errorf("no %s issue %q in %v", level, message, issues)
}
