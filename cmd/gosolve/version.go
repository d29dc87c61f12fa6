package main

import (
	"fmt"

	"github.com/spf13/cobra"

	gosolve "github.com/njchilds90/gosolve"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gosolve",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gosolve version %s\n", gosolve.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
