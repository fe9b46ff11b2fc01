// Package mcp exposes the generation pipeline and the registries as MCP
// tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uigen/pkg/cache"
	"github.com/gnana997/uigen/pkg/mcplog"
	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/tokens"
	"github.com/gnana997/uigen/pkg/verify"
)

const serverName = "uigen"

// Server implements the MCP server for uigen.
type Server struct {
	mcpServer *server.MCPServer
	gen       *cache.Generator
	registry  *registry.Registry
	tokens    *tokens.Registry
	verifier  *verify.Verifier // may be nil; generate_component then ignores verify
	logger    *mcplog.Logger   // may be nil; tool calls are then not logged
}

// NewServer creates a server backed by the given generator and registries.
func NewServer(gen *cache.Generator, reg *registry.Registry, tok *tokens.Registry, v *verify.Verifier, logger *mcplog.Logger, version string) *Server {
	s := &Server{gen: gen, registry: reg, tokens: tok, verifier: v, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer(serverName, version, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: generateComponentTool(), Handler: s.handleGenerateComponent},
		server.ServerTool{Tool: validateSpecTool(), Handler: s.handleValidateSpec},
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: getComponentAPITool(), Handler: s.handleGetComponentAPI},
		server.ServerTool{Tool: getTokensTool(), Handler: s.handleGetTokens},
	)

	return s
}

// MCPServer returns the underlying server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
