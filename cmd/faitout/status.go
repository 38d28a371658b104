package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/aretw0/faitout"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the internal state of every component as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(app.Status())
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
