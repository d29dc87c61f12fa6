package main

import (
	"fmt"

	"github.com/spf13/cobra"

	gosolve "github.com/njchilds90/gosolve"
)

var systemCmd = &cobra.Command{
	Use:   "system <equations.json|-|'[...]'>",
	Short: "Solve up to three simultaneous equations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		var equations interface{}
		switch d := doc.(type) {
		case []interface{}:
			equations = d
		case map[string]interface{}:
			equations = d["equations"]
		}
		if equations == nil {
			return fmt.Errorf("input must be an array of equations or {\"equations\": [...]}")
		}
		mode, _ := cmd.Flags().GetString("mode")
		return callTool(cmd, gosolve.ToolRequest{Tool: "solve_system", Params: map[string]interface{}{
			"equations": equations,
			"mode":      mode,
		}})
	},
}

func init() {
	rootCmd.AddCommand(systemCmd)
	systemCmd.Flags().String("mode", "auto", "Mode: auto, substitution or elimination")
	systemCmd.Flags().StringP("format", "f", "text", "Output format: text, json or markdown")
}
