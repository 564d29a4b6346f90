// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/salespulse/core"
	"github.com/huangsam/salespulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the SalesPulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, src contract.SalesSource, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"SalesPulse Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		src:     core.NewCachedSource(src, mgr, baseCfg.CacheTTL),
	}

	windowArgs := []mcp.ToolOption{
		mcp.WithString("start", mcp.Description("First month of the window (YYYY-MM or YYYY-MM-DD).")),
		mcp.WithString("end", mcp.Description("Last month of the window (YYYY-MM or YYYY-MM-DD).")),
	}

	// --- 1. Tool: compare_branches ---
	s.AddTool(mcp.NewTool("compare_branches", append([]mcp.ToolOption{
		mcp.WithDescription("Compare the monthly sales of two branches with a Welch t-test, confidence intervals and Cohen's d."),
		mcp.WithString("branch_a", mcp.Description("First branch id."), mcp.Required()),
		mcp.WithString("branch_b", mcp.Description("Second branch id."), mcp.Required()),
		mcp.WithNumber("alpha", mcp.Description("Significance level, strictly between 0 and 1. Defaults to 0.05.")),
	}, windowArgs...)...), h.handleCompareBranches)

	// --- 2. Tool: get_monthly_grid ---
	s.AddTool(mcp.NewTool("get_monthly_grid", append([]mcp.ToolOption{
		mcp.WithDescription("Return the zero-filled month x branch sales grid with per-branch mean intervals."),
		mcp.WithString("branches", mcp.Description("Comma-separated branch ids (all branches when empty).")),
	}, windowArgs...)...), h.handleGetMonthlyGrid)

	// --- 3. Tool: get_pareto ---
	s.AddTool(mcp.NewTool("get_pareto", append([]mcp.ToolOption{
		mcp.WithDescription("Rank products or branches by sales with cumulative shares, ABC classes and HHI."),
		mcp.WithString("dimension", mcp.Description("Entity to rank. Defaults to 'product'."), mcp.Enum("product", "branch")),
		mcp.WithString("branches", mcp.Description("Comma-separated branch ids to restrict the sales to.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of rows returned.")),
	}, windowArgs...)...), h.handleGetPareto)

	// --- 4. Tool: get_yoy_growth ---
	s.AddTool(mcp.NewTool("get_yoy_growth",
		mcp.WithDescription("Return yearly sales totals and year-over-year growth."),
		mcp.WithString("branches", mcp.Description("Comma-separated branch ids (all branches when empty).")),
	), h.handleGetYoYGrowth)

	// --- 5. Tool: list_branches ---
	s.AddTool(mcp.NewTool("list_branches",
		mcp.WithDescription("List the known branches with their display labels."),
	), h.handleListBranches)

	return s
}

// StartMCPServer starts the SalesPulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, src contract.SalesSource, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, src, mgr)
	return server.ServeStdio(s)
}
