package generator

import (
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/spec"
	"github.com/gnana997/uigen/pkg/tokens"
	"github.com/gnana997/uigen/pkg/validator"
)

// --- Helpers ---

var fixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func testGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	tok, err := tokens.Default()
	require.NoError(t, err)
	opts = append([]Option{WithClock(func() time.Time { return fixedTime })}, opts...)
	return New(reg, tok, opts...)
}

type countingAPI struct {
	calls  atomic.Int32
	report validator.APIReport
}

func (c *countingAPI) Validate(*spec.Spec) validator.APIReport {
	c.calls.Add(1)
	return c.report
}

type countingTokens struct {
	calls  atomic.Int32
	result spec.StageResult
}

func (c *countingTokens) Validate(*spec.Spec) spec.StageResult {
	c.calls.Add(1)
	return c.result
}

func passingAPI() *countingAPI {
	return &countingAPI{report: validator.APIReport{Component: spec.Passed(), Props: spec.Passed(), Children: spec.Passed()}}
}

func failing() spec.StageResult {
	return spec.NewStageResult([]spec.Issue{{Level: spec.LevelError, Message: "boom"}})
}

func assertUntouched(t *testing.T, stages ...spec.StageResult) {
	t.Helper()
	for _, st := range stages {
		assert.Equal(t, spec.Passed(), st)
	}
}

func assertFailedWithoutCode(t *testing.T, res *Result) {
	t.Helper()
	assert.False(t, res.Success)
	assert.Equal(t, "", res.Code)
	assert.Equal(t, []string{}, res.Imports)
}

// --- Happy path ---

func TestGenerate_RoundTripVariant(t *testing.T) {
	g := testGenerator(t)
	res := g.GenerateJSON([]byte(`{"component": {"id": "button"}, "props": {"variant": {"value": "primary", "source": "literal"}}}`))

	require.True(t, res.Success, "%+v", res.Issues())
	assert.Contains(t, res.Code, `variant="primary"`)
	assert.Equal(t, []string{`import { Button } from "@heroui/react";`}, res.Imports)
	assert.Equal(t, "import { Button } from \"@heroui/react\";\n\n<Button variant=\"primary\" />", res.Code)
	assert.True(t, res.Validation.Overall.Valid)
	assert.Empty(t, res.Validation.Overall.Issues)
	assert.Equal(t, fixedTime, res.Metadata.GeneratedAt)
	assert.Equal(t, ComplexitySimple, res.Metadata.EstimatedComplexity)
	assert.Equal(t, "uigen/heroui@3.0.0+tokens/heroui@3.0.0", res.Metadata.Engine)
	assert.Len(t, res.Metadata.Fingerprint, 64)
	require.NotNil(t, res.Specification)
	assert.Equal(t, "button", res.Specification.Component.ID)

	// The default-value warning does not block generation.
	require.Len(t, res.Validation.Props.Issues, 1)
	assert.Equal(t, spec.LevelWarning, res.Validation.Props.Issues[0].Level)
}

func TestGenerate_FullComponent(t *testing.T) {
	g := testGenerator(t)
	res := g.GenerateJSON([]byte(`{
		"component": {"id": "card", "variant": "secondary"},
		"props": {"className": {"value": "p-4", "source": "literal"}},
		"children": {"type": "complex", "content": [
			{"type": "text", "content": "Welcome"},
			{"type": "component", "content": {"id": "button", "props": {"size": "sm"}, "text": "Start"}}
		]},
		"design": {"colors": {"surface": {"family": "background", "shade": 50}}, "spacing": {"gap": "spacing-2"}}
	}`))

	require.True(t, res.Success, "%+v", res.Issues())
	want := strings.Join([]string{
		`import { Card, Button } from "@heroui/react";`,
		`import "@heroui/styles/tokens.css";`,
		`import "@heroui/styles/spacing.css";`,
		``,
		`<Card variant="secondary" className="p-4" style={{ "--color-surface": "var(--background-50)", "--spacing-gap": "var(--spacing-2)" }}>`,
		`  Welcome`,
		`  <Button size="sm">Start</Button>`,
		`</Card>`,
	}, "\n")
	assert.Equal(t, want, res.Code)
	// 1 prop + 3 complex children + 2 design entries
	assert.Equal(t, ComplexityModerate, res.Metadata.EstimatedComplexity)
}

func TestGenerate_Deterministic(t *testing.T) {
	g := testGenerator(t)
	doc := []byte(`{"component": {"id": "alert"}, "props": {
		"status": {"value": "warning", "source": "literal"},
		"title": {"value": "Heads up", "source": "literal"}
	}, "children": {"type": "text", "content": "Disk almost full"}}`)

	first := g.GenerateJSON(doc)
	require.True(t, first.Success)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again := g.GenerateJSON(doc)
		againJSON, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, string(firstJSON), string(againJSON))
	}
}

func TestGenerate_PropOrderPreserved(t *testing.T) {
	g := testGenerator(t)
	res := g.GenerateJSON([]byte(`{"component": {"id": "input"}, "props": {
		"placeholder": {"value": "Email", "source": "literal"},
		"type": {"value": "email", "source": "literal"},
		"isRequired": {"value": true, "source": "literal"}
	}}`))
	require.True(t, res.Success)
	assert.Contains(t, res.Code, `<Input placeholder="Email" type="email" isRequired={true} />`)
}

// --- Failure stages ---

func TestGenerate_UnknownComponent(t *testing.T) {
	g := testGenerator(t)
	res := g.Generate(map[string]any{"component": map[string]any{"id": "nonexistent-widget"}})

	assertFailedWithoutCode(t, res)
	assert.True(t, res.Validation.Spec.Valid)
	assert.False(t, res.Validation.Component.Valid)
	assert.Contains(t, res.Validation.Component.Issues[0].Message, "nonexistent-widget")
	assertUntouched(t, res.Validation.Props, res.Validation.Tokens, res.Validation.Children, res.Validation.Overall)
	assert.Equal(t, StageComponent, res.FailedStage())
}

func TestGenerate_RequiredPropOmitted(t *testing.T) {
	g := testGenerator(t)
	res := g.GenerateJSON([]byte(`{"component": {"id": "alert"}, "children": {"type": "text", "content": "x"}}`))

	assertFailedWithoutCode(t, res)
	assert.False(t, res.Validation.Component.Valid)
	assertUntouched(t, res.Validation.Tokens, res.Validation.Overall)
}

func TestGenerate_TokenRange(t *testing.T) {
	g := testGenerator(t)
	res := g.GenerateJSON([]byte(`{"component": {"id": "button"}, "design": {"colors": {"fg": {"family": "foreground", "shade": 999}}}}`))

	assertFailedWithoutCode(t, res)
	assert.True(t, res.Validation.Component.Valid)
	assert.False(t, res.Validation.Tokens.Valid)
	require.Len(t, res.Validation.Tokens.Issues, 1)
	assert.Contains(t, res.Validation.Tokens.Issues[0].Suggestion, "50, 100, 200, 300, 400, 500, 600, 700, 800, 900")
	assertUntouched(t, res.Validation.Overall)
}

func TestGenerate_SpecStageShortCircuits(t *testing.T) {
	api := passingAPI()
	tok := &countingTokens{result: spec.Passed()}
	g := testGenerator(t, WithAPIChecker(api), WithTokenChecker(tok))

	res := g.Generate(map[string]any{"props": map[string]any{}})

	assertFailedWithoutCode(t, res)
	assert.False(t, res.Validation.Spec.Valid)
	assert.Nil(t, res.Specification)
	assert.Zero(t, api.calls.Load())
	assert.Zero(t, tok.calls.Load())
	assertUntouched(t, res.Validation.Component, res.Validation.Props, res.Validation.Tokens, res.Validation.Children, res.Validation.Overall)
}

func TestGenerate_APIStageShortCircuits(t *testing.T) {
	api := passingAPI()
	api.report.Children = failing()
	tok := &countingTokens{result: spec.Passed()}
	g := testGenerator(t, WithAPIChecker(api), WithTokenChecker(tok))

	res := g.Generate(map[string]any{"component": map[string]any{"id": "button"}})

	assertFailedWithoutCode(t, res)
	assert.Equal(t, int32(1), api.calls.Load())
	assert.Zero(t, tok.calls.Load())
	assert.False(t, res.Validation.Children.Valid)
	assertUntouched(t, res.Validation.Tokens, res.Validation.Overall)
}

func TestGenerate_TokenStageShortCircuits(t *testing.T) {
	tok := &countingTokens{result: failing()}
	g := testGenerator(t, WithTokenChecker(tok))

	res := g.Generate(map[string]any{"component": map[string]any{"id": "button"}})

	assertFailedWithoutCode(t, res)
	assert.Equal(t, int32(1), tok.calls.Load())
	assertUntouched(t, res.Validation.Overall)
}

func TestGenerate_GenerationErrorBecomesOverallIssue(t *testing.T) {
	g := testGenerator(t)
	// Passes every validator, but a variable must name an identifier.
	res := g.GenerateJSON([]byte(`{"component": {"id": "button"}, "props": {"onPress": {"value": "() => go()", "source": "variable"}}}`))

	assertFailedWithoutCode(t, res)
	assert.True(t, res.Validation.Tokens.Valid)
	assert.False(t, res.Validation.Overall.Valid)
	require.Len(t, res.Validation.Overall.Issues, 1)
	assert.Contains(t, res.Validation.Overall.Issues[0].Message, "unrepresentable specification")
	assert.Equal(t, StageOverall, res.FailedStage())
}

func TestGenerate_EngineRejectsUnvalidatedComponent(t *testing.T) {
	// A passing fake lets an unknown component through to the engines.
	g := testGenerator(t, WithAPIChecker(passingAPI()))
	res := g.Generate(map[string]any{"component": map[string]any{"id": "ghost-widget"}})

	assertFailedWithoutCode(t, res)
	assert.False(t, res.Validation.Overall.Valid)
	assert.Contains(t, res.Validation.Overall.Issues[0].Message, "ghost-widget")
}

func TestGenerate_NestedComponentChecked(t *testing.T) {
	g := testGenerator(t)
	for _, content := range []string{
		`{"id": "button", "props": {"bogus prop={x}": "y"}}`,
		`{"id": "button", "props": {"variant": "not-a-variant"}}`,
		`{"id": "input", "text": "inside a void element"}`,
		`{"id": "alert"}`,
	} {
		res := g.GenerateJSON([]byte(`{"component": {"id": "card"}, "children": {"type": "component", "content": ` + content + `}}`))
		assertFailedWithoutCode(t, res)
		assert.True(t, res.Validation.Children.Valid, content)
		assert.Equal(t, StageOverall, res.FailedStage(), content)
	}
}

func TestGenerate_DesignTokenOnEnumProp(t *testing.T) {
	g := testGenerator(t)
	res := g.GenerateJSON([]byte(`{"component": {"id": "button"}, "props": {"variant": {"value": "danger-500", "source": "design-token"}}}`))

	assertFailedWithoutCode(t, res)
	assert.False(t, res.Validation.Props.Valid)
	assert.Equal(t, StageProps, res.FailedStage())
	assertUntouched(t, res.Validation.Tokens, res.Validation.Overall)
}

// --- No-throw ---

func TestGenerate_NeverPanics(t *testing.T) {
	cyclic := map[string]any{}
	cyclic["self"] = cyclic
	cyclicProps := map[string]any{"component": map[string]any{"id": "button"}}
	cyclicProps["props"] = map[string]any{"x": map[string]any{"value": cyclic, "source": "literal"}}

	inputs := map[string]any{
		"nil":           nil,
		"string":        "button",
		"number":        42,
		"bool":          true,
		"array":         []any{map[string]any{"component": "button"}},
		"func":          func() {},
		"channel":       make(chan int),
		"cyclic":        cyclic,
		"cyclic props":  cyclicProps,
		"deep children": map[string]any{"component": map[string]any{"id": "card"}, "children": map[string]any{"type": "complex", "content": deepList(200)}},
		"component num": map[string]any{"component": 7},
		"props array":   map[string]any{"component": map[string]any{"id": "button"}, "props": []any{1}},
	}

	g := testGenerator(t)
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			var res *Result
			require.NotPanics(t, func() { res = g.Generate(input) })
			require.NotNil(t, res)
			assertFailedWithoutCode(t, res)
		})
	}

	for _, doc := range []string{``, `null`, `[`, `{"component":`, `"text"`, `{"component": {"id": 5}}`} {
		res := g.GenerateJSON([]byte(doc))
		require.NotNil(t, res)
		assert.False(t, res.Success)
		assert.False(t, res.Validation.Spec.Valid, doc)
	}
}

func deepList(depth int) any {
	var v any = "leaf"
	for i := 0; i < depth; i++ {
		v = []any{v}
	}
	return v
}

// --- Caller ownership ---

func TestGenerate_DoesNotAliasInput(t *testing.T) {
	g := testGenerator(t)
	input := map[string]any{
		"component": map[string]any{"id": "button"},
		"props":     map[string]any{"variant": map[string]any{"value": "ghost", "source": "literal"}},
	}
	res := g.Generate(input)
	require.True(t, res.Success)

	input["props"].(map[string]any)["variant"].(map[string]any)["value"] = "danger"
	prop, ok := res.Specification.Props.Get("variant")
	require.True(t, ok)
	assert.Equal(t, "ghost", prop.Value)
}

// --- Concurrency ---

func TestGenerate_Concurrent(t *testing.T) {
	g := testGenerator(t)
	docs := [][]byte{
		[]byte(`{"component": {"id": "button"}, "props": {"variant": {"value": "ghost", "source": "literal"}}}`),
		[]byte(`{"component": {"id": "badge"}, "children": {"type": "text", "content": "New"}}`),
		[]byte(`{"component": {"id": "alert"}}`),
	}
	want := make([]string, len(docs))
	for i, d := range docs {
		want[i] = g.GenerateJSON(d).Code
	}

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				n := (w + i) % len(docs)
				assert.Equal(t, want[n], g.GenerateJSON(docs[n]).Code)
			}
		}(w)
	}
	wg.Wait()
}

// --- Result helpers ---

func TestResultClone(t *testing.T) {
	g := testGenerator(t)
	res := g.GenerateJSON([]byte(`{"component": {"id": "button"}, "props": {"size": {"value": "md", "source": "literal"}}}`))
	require.True(t, res.Success)

	c := res.Clone()
	c.Imports[0] = "changed"
	c.Validation.Props.Issues[0].Message = "changed"
	assert.NotEqual(t, "changed", res.Imports[0])
	assert.NotEqual(t, "changed", res.Validation.Props.Issues[0].Message)
}
