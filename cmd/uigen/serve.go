package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/gnana997/uigen/pkg/mcp"
	"github.com/gnana997/uigen/pkg/mcplog"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var logPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Serve the generation pipeline and both registries as MCP tools over
stdin/stdout. Use "uigen setup" to register the server with installed
AI agents.

Tools: generate_component, validate_spec, list_components,
get_component_api, get_tokens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			callLog, err := mcplog.NewLogger(firstNonEmpty(logPath, a.settings.MCPLogPath))
			if err != nil {
				return err
			}
			if callLog != nil {
				defer callLog.Close()
			}

			srv := mcpserver.NewServer(a.gen, a.registry, a.tokens, a.verifier(), callLog, version)
			a.logger.Info("serving MCP on stdio", "engine", a.gen.Engine(), "cache_size", a.settings.CacheSize)
			return srv.ServeStdio()
		},
	}
	cmd.Flags().StringVar(&logPath, "log-calls", "", "append a JSONL record of every tool call to this file")
	return cmd
}
