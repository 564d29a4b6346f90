package cmd

import (
	"github.com/huangsam/salespulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the SalesPulse MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents compare branches, read the
monthly grid, rank products and branches, and read year-over-year growth.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, salesStore, cacheManager)
	},
}
