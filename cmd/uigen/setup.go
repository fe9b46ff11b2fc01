package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// mcpServerName is the key the server is registered under in agent configs.
const mcpServerName = "uigen"

// agentKind is how an agent is configured.
type agentKind int

const (
	// agentCLI agents register servers through "<binary> mcp add".
	agentCLI agentKind = iota
	// agentFile agents read a JSON config file with a servers object.
	agentFile
)

// AgentDef defines how to detect and configure one AI agent.
type AgentDef struct {
	ID          string
	DisplayName string
	Kind        agentKind
	Binary      string            // agentCLI: binary name on PATH
	DirMarkers  []string          // agentFile: dirs that indicate presence
	ConfigPath  func() string     // agentFile: resolved config file path
	ServersKey  string            // "servers" (VS Code) or "mcpServers"
	NeedsScope  bool              // prompt for project/user scope
	ExtraFields map[string]string // e.g. "type": "stdio" for VS Code
}

// DetectedAgent is an agent found on the system.
type DetectedAgent struct {
	Def            AgentDef
	AlreadySetup   bool
	ResolvedConfig string
}

// setupOptions holds the setup command flags.
type setupOptions struct {
	auto   bool
	config string // passed through to "uigen serve --config"
}

// serveArgs returns the arguments agents launch the server with.
func (o setupOptions) serveArgs() []string {
	args := []string{"serve"}
	if o.config != "" {
		args = append(args, "--config", o.config)
	}
	return args
}

// Replaceable for testing.
var (
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
	runAgentCLI  = func(binary string, args []string, out io.Writer) error {
		cmd := exec.Command(binary, args...)
		cmd.Stdout = out
		cmd.Stderr = out
		return cmd.Run()
	}
)

// supportedAgents lists the agents in display order.
var supportedAgents = []AgentDef{
	{ID: "claude_code", DisplayName: "Claude Code", Kind: agentCLI, Binary: "claude", NeedsScope: true},
	{ID: "openai_codex", DisplayName: "OpenAI Codex", Kind: agentCLI, Binary: "codex", NeedsScope: true},
	{
		ID: "vscode_copilot", DisplayName: "VS Code Copilot", Kind: agentFile,
		DirMarkers:  []string{".vscode"},
		ConfigPath:  func() string { return filepath.Join(".vscode", "mcp.json") },
		ServersKey:  "servers",
		ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor", Kind: agentFile,
		DirMarkers: []string{".cursor"},
		ConfigPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{
		ID: "claude_desktop", DisplayName: "Claude Desktop", Kind: agentFile,
		ConfigPath: claudeDesktopConfigPath,
		ServersKey: "mcpServers",
	},
}

func claudeDesktopConfigPath() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

func newSetupCmd() *cobra.Command {
	var opts setupOptions
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with installed AI agents",
		Long: `Detect AI agents (Claude Code, Codex, VS Code Copilot, Cursor,
Claude Desktop) and add a "uigen" MCP server entry to each one's
configuration. Existing entries are left untouched.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			executeSetup(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "configure every detected agent without prompting")
	cmd.Flags().StringVar(&opts.config, "server-config", "", "config file the registered server is started with")
	return cmd
}

// detectAgents scans the system for installed agents.
func detectAgents() []DetectedAgent {
	var detected []DetectedAgent
	for _, def := range supportedAgents {
		switch def.Kind {
		case agentCLI:
			if _, err := lookPathFunc(def.Binary); err == nil {
				detected = append(detected, DetectedAgent{Def: def, AlreadySetup: hasServerEntry(".mcp.json", "mcpServers")})
			}
		case agentFile:
			if path, ok := detectFileAgent(def); ok {
				d := DetectedAgent{Def: def, ResolvedConfig: path}
				if path != "" {
					d.AlreadySetup = hasServerEntry(path, def.ServersKey)
				}
				detected = append(detected, d)
			}
		}
	}
	return detected
}

// detectFileAgent reports whether a file-configured agent is present and
// where its config lives. Agents with dir markers are project-level;
// agents without are detected by their config directory.
func detectFileAgent(def AgentDef) (string, bool) {
	for _, marker := range def.DirMarkers {
		if _, err := statFunc(marker); err == nil {
			if def.ConfigPath == nil {
				return "", true
			}
			return def.ConfigPath(), true
		}
	}
	if len(def.DirMarkers) > 0 || def.ConfigPath == nil {
		return "", false
	}
	path := def.ConfigPath()
	if _, err := statFunc(filepath.Dir(path)); err != nil {
		return "", false
	}
	return path, true
}

// hasServerEntry checks whether a JSON config file already registers uigen.
func hasServerEntry(configPath, serversKey string) bool {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		return false
	}
	_, exists := servers[mcpServerName]
	return exists
}

// serverEntry returns the MCP server config object.
func serverEntry(args []string, extra map[string]string) map[string]any {
	anyArgs := make([]any, len(args))
	for i, a := range args {
		anyArgs[i] = a
	}
	entry := map[string]any{
		"command": "uigen",
		"args":    anyArgs,
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds a uigen entry under serversKey to an existing
// JSON document (or a new one) and returns the merged bytes.
// Returns nil, nil if uigen is already configured.
func mergeServerEntry(existing []byte, serversKey string, args []string, extra map[string]string) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[mcpServerName]; exists {
		return nil, nil
	}
	servers[mcpServerName] = serverEntry(args, extra)
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// configureCLIAgent runs "<binary> mcp add" with the chosen scope.
func configureCLIAgent(def AgentDef, scope string, opts setupOptions, out io.Writer) error {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, mcpServerName, "--", "uigen")
	args = append(args, opts.serveArgs()...)
	return runAgentCLI(def.Binary, args, out)
}

// configureFileAgent merges the server entry into the agent's config file.
func configureFileAgent(def AgentDef, configPath string, opts setupOptions) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var existing []byte
	if data, err := os.ReadFile(configPath); err == nil {
		existing = data
	}

	merged, err := mergeServerEntry(existing, def.ServersKey, opts.serveArgs(), def.ExtraFields)
	if err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}
	if merged == nil {
		return nil
	}
	return os.WriteFile(configPath, merged, 0644)
}

// --- Prompts ---

// promptYesNo prints a question and reads Y/n. Empty input and EOF mean yes.
func promptYesNo(r *bufio.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return true
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes"
}

// promptScope reads 1/2/3 and returns "project", "user", or "" to skip.
func promptScope(r *bufio.Reader, w io.Writer, agentName string) string {
	fmt.Fprintf(w, "\n%s: add the uigen MCP server?\n", agentName)
	fmt.Fprintln(w, "  [1] Project scope (shared with team)")
	fmt.Fprintln(w, "  [2] User scope (personal, global)")
	fmt.Fprintln(w, "  [3] Skip")
	fmt.Fprint(w, "  > ")

	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "project"
	}
	switch strings.TrimSpace(line) {
	case "1", "":
		return "project"
	case "2":
		return "user"
	default:
		return ""
	}
}

// executeSetup is the testable core of the setup command.
func executeSetup(in io.Reader, w io.Writer, opts setupOptions) {
	detected := detectAgents()
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported AI agents detected.")
		return
	}

	fmt.Fprintln(w, "Detected AI agents:")
	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "  * %s (already configured)\n", d.Def.DisplayName)
		} else {
			fmt.Fprintf(w, "  * %s\n", d.Def.DisplayName)
		}
	}
	fmt.Fprintln(w)

	r := bufio.NewReader(in)
	if !opts.auto && !promptYesNo(r, w, "Configure agents? [Y/n]") {
		return
	}

	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "\n%s: already configured, skipping\n", d.Def.DisplayName)
			continue
		}
		configureOneAgent(r, w, d, opts)
	}
}

func configureOneAgent(r *bufio.Reader, w io.Writer, d DetectedAgent, opts setupOptions) {
	switch d.Def.Kind {
	case agentCLI:
		scope := "project"
		if !opts.auto && d.Def.NeedsScope {
			if scope = promptScope(r, w, d.Def.DisplayName); scope == "" {
				fmt.Fprintln(w, "  skipped")
				return
			}
		}
		if err := configureCLIAgent(d.Def, scope, opts, w); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (scope: %s)\n", d.Def.DisplayName, scope)

	case agentFile:
		if !opts.auto && !promptYesNo(r, w, fmt.Sprintf("\n%s: add to %s? [Y/n]", d.Def.DisplayName, d.ResolvedConfig)) {
			fmt.Fprintln(w, "  skipped")
			return
		}
		if err := configureFileAgent(d.Def, d.ResolvedConfig, opts); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (%s)\n", d.Def.DisplayName, d.ResolvedConfig)
	}
}
