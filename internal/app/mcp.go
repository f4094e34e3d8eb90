package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/delaywatch/internal/logging"
	"github.com/blackwell-systems/delaywatch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analyzer as MCP tools over stdio",
	Long: `Load the dataset once and serve friction, affected rental, owner share
loss, summary and sweep tools over the Model Context Protocol on stdin and
stdout. Logs go to stderr.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	t, err := loadTable(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	logging.Info().Int("rentals", t.Len()).Msg("serving MCP on stdio")
	return mcp.NewServer(t, appVersion).Run(cmd.Context(), os.Stdin, os.Stdout)
}
