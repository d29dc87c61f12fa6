package main

import (
	"github.com/spf13/cobra"

	gosolve "github.com/njchilds90/gosolve"
)

var toolCmd = &cobra.Command{
	Use:   "tool <name> [params.json|-|'{...}']",
	Short: "Call any solver tool with JSON params",
	Long: `Calls a tool by name, e.g.

  gosolve tool factor '{"expr": {...}, "var": "x"}'

Run "gosolve tool tool_spec" to list the tools and their params.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]interface{}{}
		if len(args) == 2 {
			var err error
			if params, err = readObject(args[1], cmd.InOrStdin()); err != nil {
				return err
			}
		}
		return callTool(cmd, gosolve.ToolRequest{Tool: args[0], Params: params})
	},
}

var simplifyCmd = &cobra.Command{
	Use:   "simplify <expr.json|-|'{...}'>",
	Short: "Canonicalize an expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr, err := readObject(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		tool := "simplify"
		if expand, _ := cmd.Flags().GetBool("expand"); expand {
			tool = "expand"
		}
		return callTool(cmd, gosolve.ToolRequest{Tool: tool, Params: map[string]interface{}{"expr": expr}})
	},
}

func init() {
	rootCmd.AddCommand(toolCmd)
	toolCmd.Flags().StringP("format", "f", "text", "Output format: text, json or markdown")

	rootCmd.AddCommand(simplifyCmd)
	simplifyCmd.Flags().Bool("expand", false, "Expand products and powers")
	simplifyCmd.Flags().StringP("format", "f", "text", "Output format: text, json or markdown")
}
