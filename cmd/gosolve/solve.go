package main

import (
	"github.com/spf13/cobra"

	gosolve "github.com/njchilds90/gosolve"
)

var solveCmd = &cobra.Command{
	Use:   "solve <equation.json|-|'{...}'>",
	Short: "Solve an equation or inequality for one symbol",
	Long: `Solves an equation {"left": ..., "right": ..., "comparison": "="} for the
symbol given with --symbol. The equation is read from a file, from stdin
("-") or inline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		equation, err := readObject(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		symbol, _ := cmd.Flags().GetString("symbol")
		method, _ := cmd.Flags().GetString("method")
		complexMode, _ := cmd.Flags().GetBool("complex")
		steps, _ := cmd.Flags().GetBool("steps")

		params := map[string]interface{}{
			"equation": equation,
			"symbol":   symbol,
		}
		if method != "" {
			params["quadratic_method"] = method
		}
		if complexMode {
			params["complex"] = true
		}
		if steps {
			params["steps"] = true
		}
		return callTool(cmd, gosolve.ToolRequest{Tool: "solve", Params: params})
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringP("symbol", "s", "x", "Symbol to solve for")
	solveCmd.Flags().String("method", "", "Quadratic method: factor, formula or complete-square")
	solveCmd.Flags().Bool("complex", false, "Allow complex solutions")
	solveCmd.Flags().Bool("steps", false, "Show the solving steps")
	solveCmd.Flags().StringP("format", "f", "text", "Output format: text, json or markdown")
}
