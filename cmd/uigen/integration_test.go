package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	tmp, err := os.MkdirTemp("", "uigen-integration-*")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmp, "uigen")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(tmp)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// --- Helpers ---

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// startServer launches "uigen serve" as a subprocess and returns an
// initialized MCP client.
func startServer(t *testing.T, args ...string) *client.Client {
	t.Helper()

	c, err := client.NewStdioMCPClient(binaryPath, nil, append([]string{"serve"}, args...)...)
	require.NoError(t, err, "failed to start MCP server")
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "uigen-integration-test", Version: "1.0.0"}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "uigen", result.ServerInfo.Name)
	return c
}

func callToolHelper(t *testing.T, c *client.Client, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}
	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", toolName)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected content in result")
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return text.Text
}

// --- Integration tests ---

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, len(tools.Tools))
	for i, tool := range tools.Tools {
		names[i] = tool.Name
	}
	assert.ElementsMatch(t, []string{
		"generate_component",
		"validate_spec",
		"list_components",
		"get_component_api",
		"get_tokens",
	}, names)
}

func TestIntegration_GenerateComponent(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "generate_component", map[string]any{
		"spec":   buttonSpec,
		"verify": true,
	})
	assert.False(t, result.IsError)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, true, out["success"])
	assert.Equal(t, buttonCode, out["code"])
	verification := out["verification"].(map[string]any)
	assert.Equal(t, true, verification["valid"])
}

func TestIntegration_ValidateSpec(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "validate_spec", map[string]any{"spec": `{"component": {"id": "alert"}}`})
	assert.False(t, result.IsError)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, false, out["valid"])
	assert.Equal(t, "component", out["failed_stage"])
}

func TestIntegration_Registries(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	t.Run("list_components", func(t *testing.T) {
		result := callToolHelper(t, c, "list_components", nil)
		assert.False(t, result.IsError)
		var comps []map[string]any
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &comps))
		assert.Len(t, comps, 5)
	})

	t.Run("get_component_api", func(t *testing.T) {
		result := callToolHelper(t, c, "get_component_api", map[string]any{"id": "input"})
		assert.False(t, result.IsError)
		var comp map[string]any
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &comp))
		assert.Equal(t, "Input", comp["export_name"])
	})

	t.Run("get_tokens by category", func(t *testing.T) {
		result := callToolHelper(t, c, "get_tokens", map[string]any{"category": "color"})
		assert.False(t, result.IsError)
		var families []map[string]any
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &families))
		assert.Len(t, families, 7)
		for _, f := range families {
			assert.Equal(t, "color", f["category"])
		}
	})
}

func TestIntegration_CallLog(t *testing.T) {
	skipIfNotIntegration(t)
	logPath := filepath.Join(t.TempDir(), "calls.jsonl")
	c := startServer(t, "--log-calls", logPath)

	callToolHelper(t, c, "list_components", nil)
	require.NoError(t, c.Close())

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		return err == nil && len(data) > 0
	}, 5*time.Second, 50*time.Millisecond)
}
