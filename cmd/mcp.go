package cmd

import (
	"github.com/huangsam/repopulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the repopulse MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents analyze repositories.

Tools:
  analyze_repository      - health score and metrics of OWNER/REPO
  interpret_health_score  - band of a 0-100 score`,
	PreRunE: commonSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(cmd.Context(), cfg, cacheManager, newRepoClient)
	},
}
