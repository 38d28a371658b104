package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/faitout"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report changes other programs make to the data files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			events, err := app.Watch(ctx, watchPattern)
			if err != nil {
				return err
			}
			slog.Info("watching", "path", app.DataDir, "pattern", watchPattern)

			for e := range events {
				fmt.Fprintln(cmd.OutOrStdout(), e.String())
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "*.json", "Glob of file names to report")
}
