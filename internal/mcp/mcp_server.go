// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ClientFactory builds a RepoClient from the effective configuration.
type ClientFactory func(cfg *contract.Config) (contract.RepoClient, error)

// NewMCPServer initializes and configures the repopulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, newClient ClientFactory) *server.MCPServer {
	s := server.NewMCPServer(
		"Repopulse Health Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:   baseCfg,
		mgr:       mgr,
		newClient: newClient,
	}

	// --- 1. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Fetch activity of a GitHub repository and compute its 0-100 health score with supporting metrics."),
		mcp.WithString("repository", mcp.Description("Repository as OWNER/REPO or a github.com URL."), mcp.Required()),
		mcp.WithBoolean("refresh", mcp.Description("Ignore a cached analysis from the last hour.")),
	), h.handleAnalyzeRepository)

	// --- 2. Tool: interpret_health_score ---
	s.AddTool(mcp.NewTool("interpret_health_score",
		mcp.WithDescription("Map a health score to its label, description and color band."),
		mcp.WithNumber("score", mcp.Description("Health score between 0 and 100."), mcp.Required()),
	), h.handleInterpretHealthScore)

	return s
}

// StartMCPServer starts the repopulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager, newClient ClientFactory) error {
	s := NewMCPServer(baseCfg, mgr, newClient)
	return server.ServeStdio(s)
}
