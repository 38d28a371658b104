package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/faitout"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of faitout",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "faitout version %s\n", faitout.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
