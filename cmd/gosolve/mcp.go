package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gosolve/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server on stdio",
	Long: `Exposes every solver tool to MCP clients over Standard Input/Output.
Logs go to stderr so they never corrupt the JSON-RPC stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, release, err := newService(context.Background())
		if err != nil {
			return err
		}
		defer release()

		log.SetOutput(os.Stderr)
		srv := mcpserver.NewServer(svc, logger)
		logger.Info("starting gosolve MCP server (stdio)", "tools", len(srv.ToolNames()))
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
