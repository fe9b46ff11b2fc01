package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- ReadFile ---

func TestReadFile_Small(t *testing.T) {
	path := filepath.Join(t.TempDir(), "button.uigen.json")
	content := `{"component": {"id": "button"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestReadFile_LargeIsMapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	content := strings.Repeat("0123456789abcdef", mmapThreshold/16+100)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, len(content), len(data))
	assert.Equal(t, content, string(data))
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ReadFile(dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestReadFile_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.yaml")
	content := strings.Repeat("k: v\n", mmapThreshold/4)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := ReadFile(path)
			assert.NoError(t, err)
			assert.Equal(t, len(content), len(data))
		}()
	}
	wg.Wait()
}

// --- Documents ---

func TestDetectDocumentFormat(t *testing.T) {
	tests := map[string]DocumentFormat{
		"a.json":       DocumentJSON,
		"a.jsonc":      DocumentJSON,
		"a.uigen.yaml": DocumentYAML,
		"A.YML":        DocumentYAML,
		"noext":        DocumentJSON,
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectDocumentFormat(path), path)
	}
}

func TestToJSON_JSONC(t *testing.T) {
	in := []byte(`{
  // the component
  "component": {"id": "button",},
  /* props */ "props": {},
}`)
	out, err := ToJSON(in, DocumentJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"component": {"id": "button"}, "props": {}}`, string(out))
}

func TestToJSON_YAMLKeepsKeyOrder(t *testing.T) {
	in := []byte(`
props:
  zeta: {value: 1, source: literal}
  alpha: {value: "a", source: literal}
  mid: {value: true, source: literal}
`)
	out, err := ToJSON(in, DocumentYAML)
	require.NoError(t, err)

	s := string(out)
	assert.Less(t, strings.Index(s, `"zeta"`), strings.Index(s, `"alpha"`))
	assert.Less(t, strings.Index(s, `"alpha"`), strings.Index(s, `"mid"`))
	assert.JSONEq(t, `{"props": {
		"zeta": {"value": 1, "source": "literal"},
		"alpha": {"value": "a", "source": "literal"},
		"mid": {"value": true, "source": "literal"}}}`, s)
}

func TestToJSON_YAMLScalarsAndAliases(t *testing.T) {
	in := []byte(`
base: &base {source: literal, value: sm}
size: *base
list: [1, 2.5, null, "007", yes]
empty:
`)
	out, err := ToJSON(in, DocumentYAML)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"base": {"source": "literal", "value": "sm"},
		"size": {"source": "literal", "value": "sm"},
		"list": [1, 2.5, null, "007", "yes"],
		"empty": null}`, string(out))
}

func TestToJSON_YAMLEmptyAndInvalid(t *testing.T) {
	out, err := ToJSON([]byte(""), DocumentYAML)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	_, err = ToJSON([]byte("a: [1"), DocumentYAML)
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestValidateDocument(t *testing.T) {
	schema, err := CompileSchema("https://uigen.dev/schema/test.json", []byte(`{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string", "minLength": 1}}
	}`))
	require.NoError(t, err)

	assert.NoError(t, ValidateDocument(schema, []byte(`{"name": "heroui"}`)))
	assert.ErrorContains(t, ValidateDocument(schema, []byte(`{"name": ""}`)), "schema validation failed")
	assert.ErrorContains(t, ValidateDocument(schema, []byte(`{`)), "failed to parse JSON")

	_, err = CompileSchema("https://uigen.dev/schema/bad.json", []byte(`{"type": 12}`))
	assert.Error(t, err)
}

// --- Logger ---

func TestParseLogLevelAndFormat(t *testing.T) {
	level, err := ParseLogLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, level)

	level, err = ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, level)

	_, err = ParseLogLevel("trace")
	assert.Error(t, err)

	format, err := ParseLogFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	_, err = ParseLogFormat("xml")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "stage", "props")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"stage":"props"`)

	NopLogger().Error("discarded")
}

func TestGetOptimalPoolSize(t *testing.T) {
	size := GetOptimalPoolSize()
	assert.GreaterOrEqual(t, size, 4)
	assert.LessOrEqual(t, size, 32)
	assert.Equal(t, 3, GetOptimalPoolSizeWithOverride(3))
	assert.Equal(t, size, GetOptimalPoolSizeWithOverride(0))
}
