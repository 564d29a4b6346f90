package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/salespulse/core"
	"github.com/huangsam/salespulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	src     contract.SalesSource
}

// configFor applies the window and filter arguments of a request to the base config.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	return h.baseCfg.WithOverrides(contract.Overrides{
		Start:     request.GetString("start", ""),
		End:       request.GetString("end", ""),
		Branches:  request.GetString("branches", ""),
		Dimension: request.GetString("dimension", ""),
		Limit:     request.GetInt("limit", 0),
		Alpha:     request.GetFloat("alpha", 0),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareBranches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}
	a := request.GetString("branch_a", "")
	b := request.GetString("branch_b", "")
	if a == "" || b == "" {
		return mcp.NewToolResultError("branch_a and branch_b are required"), nil
	}
	cfg.Branches = contract.ParseBranches(a + "," + b)

	res, err := core.CompareBranches(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (h *toolHandler) handleGetMonthlyGrid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid grid parameters: %v", err)), nil
	}

	res, err := core.BuildTrend(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("grid analysis failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (h *toolHandler) handleGetPareto(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid pareto parameters: %v", err)), nil
	}

	res, err := core.BuildPareto(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pareto analysis failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (h *toolHandler) handleGetYoYGrowth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid growth parameters: %v", err)), nil
	}

	res, err := core.BuildGrowth(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("growth analysis failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (h *toolHandler) handleListBranches(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	branches, err := h.src.ListBranches(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing branches failed: %v", err)), nil
	}
	return jsonResult(branches)
}
