// Package mcplog provides structured JSONL logging for MCP tool calls.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/buger/jsonparser"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// LogEntry is the schema for one JSONL line written per MCP tool call.
type LogEntry struct {
	Ts            string         `json:"ts"`
	RequestID     string         `json:"request_id"`
	Tool          string         `json:"tool"`
	Component     string         `json:"component,omitempty"` // component.id of a spec argument
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	TokensEst     int            `json:"tokens_est"`
	Outcome       *bool          `json:"outcome,omitempty"` // "success" or "valid" of a pipeline response
	IsError       bool           `json:"is_error"`
	Error         *string        `json:"error"`
}

// Call is one finished tool call as seen by the middleware.
type Call struct {
	Tool   string
	Args   map[string]any
	Start  time.Time
	End    time.Time
	Result *mcp.CallToolResult
	Err    error
}

// Entry builds the log line for a call. Spec payloads are never logged;
// only the component id and size survive.
func Entry(c Call) LogEntry {
	rb := ResponseBytes(c.Result)
	e := LogEntry{
		Ts:            c.Start.UTC().Format(time.RFC3339),
		RequestID:     NewRequestID(),
		Tool:          c.Tool,
		Component:     specComponent(c.Args["spec"]),
		Params:        SanitizeParams(c.Args),
		DurationMs:    c.End.Sub(c.Start).Milliseconds(),
		ResponseBytes: rb,
		TokensEst:     rb / 4,
		Outcome:       pipelineOutcome(c.Result),
		IsError:       c.Err != nil || (c.Result != nil && c.Result.IsError),
	}
	if c.Err != nil {
		msg := c.Err.Error()
		e.Error = &msg
	}
	return e
}

// Logger appends structured JSONL entries to a file.
// It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens (or creates) the file at path for append-only writing.
// Returns nil, nil if path is empty; callers treat a nil Logger as disabled.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends a single JSONL entry. Callers ignore the error so that log
// failures never affect tool results.
func (l *Logger) Write(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the underlying log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// NewRequestID returns a random id correlating a log entry with a call.
func NewRequestID() string {
	return uuid.NewString()
}

// SanitizeParams returns a copy of args safe for logging. Strings longer
// than 64 bytes become a "{key}_len" entry and objects a "{key}_keys"
// entry, so spec payloads stay out of the log.
func SanitizeParams(args map[string]any) map[string]any {
	const shortStringMax = 64
	out := make(map[string]any, len(args))
	for k, v := range args {
		switch v := v.(type) {
		case string:
			if len(v) > shortStringMax {
				out[k+"_len"] = len(v)
			} else {
				out[k] = v
			}
		case map[string]any:
			out[k+"_keys"] = len(v)
		default:
			out[k] = v
		}
	}
	return out
}

// ResponseBytes returns the serialized byte length of a result's content,
// or 0 for a nil result.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// specComponent reads component.id from a spec argument given either as
// a JSON string or as an object.
func specComponent(spec any) string {
	switch s := spec.(type) {
	case string:
		id, err := jsonparser.GetString([]byte(s), "component", "id")
		if err != nil {
			return ""
		}
		return id
	case map[string]any:
		comp, _ := s["component"].(map[string]any)
		id, _ := comp["id"].(string)
		return id
	}
	return ""
}

// pipelineOutcome reads "success" (generate_component) or "valid"
// (validate_spec) from a JSON text result.
func pipelineOutcome(result *mcp.CallToolResult) *bool {
	if result == nil || result.IsError || len(result.Content) == 0 {
		return nil
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return nil
	}
	data := []byte(text.Text)
	for _, key := range []string{"success", "valid"} {
		if v, err := jsonparser.GetBoolean(data, key); err == nil {
			return &v
		}
	}
	return nil
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }
