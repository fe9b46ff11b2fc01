package mcplog

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeParams(t *testing.T) {
	longSpec := strings.Repeat("x", 200)

	assert.Empty(t, SanitizeParams(nil))
	assert.Equal(t, map[string]any{"id": "button"}, SanitizeParams(map[string]any{"id": "button"}))
	assert.Equal(t,
		map[string]any{"spec_len": 200, "family": "accent"},
		SanitizeParams(map[string]any{"spec": longSpec, "family": "accent"}))
	assert.Equal(t,
		map[string]any{"verify": true, "extra": nil},
		SanitizeParams(map[string]any{"verify": true, "extra": nil}))
	assert.Equal(t,
		map[string]any{"spec_keys": 2},
		SanitizeParams(map[string]any{"spec": map[string]any{"component": map[string]any{}, "props": nil}}))
}

func TestResponseBytes(t *testing.T) {
	assert.Zero(t, ResponseBytes(nil))
	assert.Greater(t, ResponseBytes(mcp.NewToolResultText("hello")), len("hello"))
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestEntry_GenerateCall(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	spec := `{"component": {"id": "button"}, "props": {"size": {"value": "sm", "source": "literal"}}, "padding": "..."}`
	result := mcp.NewToolResultText(`{"success": false, "failed_stage": "props"}`)

	e := Entry(Call{
		Tool:   "generate_component",
		Args:   map[string]any{"spec": spec, "verify": true},
		Start:  start,
		End:    start.Add(42 * time.Millisecond),
		Result: result,
	})

	assert.Equal(t, "2026-03-01T12:00:00Z", e.Ts)
	assert.Len(t, e.RequestID, 36)
	assert.Equal(t, "generate_component", e.Tool)
	assert.Equal(t, "button", e.Component)
	assert.Equal(t, len(spec), e.Params["spec_len"])
	assert.NotContains(t, e.Params, "spec")
	assert.Equal(t, int64(42), e.DurationMs)
	assert.Equal(t, ResponseBytes(result), e.ResponseBytes)
	assert.Equal(t, e.ResponseBytes/4, e.TokensEst)
	require.NotNil(t, e.Outcome)
	assert.False(t, *e.Outcome)
	assert.False(t, e.IsError)
	assert.Nil(t, e.Error)
}

func TestEntry_ObjectSpecAndValidOutcome(t *testing.T) {
	now := time.Now()
	e := Entry(Call{
		Tool:   "validate_spec",
		Args:   map[string]any{"spec": map[string]any{"component": map[string]any{"id": "card"}}},
		Start:  now,
		End:    now,
		Result: mcp.NewToolResultText(`{"valid": true}`),
	})

	assert.Equal(t, "card", e.Component)
	assert.Equal(t, 1, e.Params["spec_keys"])
	require.NotNil(t, e.Outcome)
	assert.True(t, *e.Outcome)
}

func TestEntry_Errors(t *testing.T) {
	now := time.Now()

	e := Entry(Call{Tool: "get_component_api", Args: map[string]any{"id": "nope"}, Start: now, End: now,
		Result: mcp.NewToolResultError(`component not found: "nope"`)})
	assert.True(t, e.IsError)
	assert.Nil(t, e.Error)
	assert.Nil(t, e.Outcome)
	assert.Empty(t, e.Component)

	e = Entry(Call{Tool: "list_components", Start: now, End: now, Err: errors.New("boom")})
	assert.True(t, e.IsError)
	require.NotNil(t, e.Error)
	assert.Equal(t, "boom", *e.Error)
	assert.Zero(t, e.ResponseBytes)
}

func TestEntry_UnparseableSpec(t *testing.T) {
	now := time.Now()
	e := Entry(Call{Tool: "validate_spec", Args: map[string]any{"spec": "component: {id: x}"}, Start: now, End: now,
		Result: mcp.NewToolResultText("[]")})
	assert.Empty(t, e.Component)
	assert.Nil(t, e.Outcome)
}

func TestLogger_WriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	ok := true
	entries := []LogEntry{
		{Tool: "list_components", Params: map[string]any{}, DurationMs: 5, ResponseBytes: 100, TokensEst: 25},
		{Tool: "generate_component", Component: "button", Params: map[string]any{"spec_len": 1200}, DurationMs: 42, Outcome: &ok},
		{Tool: "get_component_api", Params: map[string]any{"id": "nope"}, DurationMs: 3, IsError: true},
	}
	for i := range entries {
		entries[i].Ts = time.Now().UTC().Format(time.RFC3339)
		entries[i].RequestID = NewRequestID()
		require.NoError(t, logger.Write(entries[i]))
	}
	require.NoError(t, logger.Close())

	got := readEntries(t, path)
	require.Len(t, got, len(entries))
	for i, want := range entries {
		assert.Equal(t, want.Tool, got[i].Tool)
		assert.Equal(t, want.RequestID, got[i].RequestID)
		assert.Equal(t, want.DurationMs, got[i].DurationMs)
		assert.Equal(t, want.IsError, got[i].IsError)
		assert.Equal(t, want.Component, got[i].Component)
	}
	require.NotNil(t, got[1].Outcome)
	assert.True(t, *got[1].Outcome)
}

func TestLogger_AppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	for i := 0; i < 2; i++ {
		logger, err := NewLogger(path)
		require.NoError(t, err)
		require.NoError(t, logger.Write(LogEntry{Tool: "get_tokens"}))
		require.NoError(t, logger.Close())
	}
	assert.Len(t, readEntries(t, path), 2)
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	const goroutines, writesEach = 50, 10
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_ = logger.Write(LogEntry{Tool: "list_components", Params: map[string]any{"n": j}})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	assert.Len(t, readEntries(t, path), goroutines*writesEach)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("")
	require.NoError(t, err)
	assert.Nil(t, logger)

	path := filepath.Join(t.TempDir(), "nested", "deep", "mcp.jsonl")
	logger, err = NewLogger(path)
	require.NoError(t, err)
	require.NoError(t, logger.Close())
	assert.FileExists(t, path)
}

// readEntries decodes every line of a JSONL file, failing on torn writes.
func readEntries(t *testing.T, path string) []LogEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() == "" {
			continue
		}
		var e LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e), "line %d", len(out)+1)
		out = append(out, e)
	}
	require.NoError(t, scanner.Err())
	return out
}
