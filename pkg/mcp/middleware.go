package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uigen/pkg/mcplog"
)

// loggingMiddleware records every tool call as a JSONL entry. It is only
// installed when the server has a logger.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			call := mcplog.Call{
				Tool:  req.Params.Name,
				Args:  req.GetArguments(),
				Start: mcplog.Now(),
			}
			call.Result, call.Err = next(ctx, req)
			call.End = mcplog.Now()

			_ = s.logger.Write(mcplog.Entry(call))
			return call.Result, call.Err
		}
	}
}
