package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/faitout"
	"github.com/aretw0/faitout/pkg/search"
)

var exportTags []string

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write notes as Markdown files with YAML front matter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			res, err := app.Export(ctx, args[0], search.Query{Tags: exportTags})
			if err != nil {
				return err
			}
			for _, f := range res.Files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Add the Markdown files of a directory as notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			n, err := app.Import(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d notes imported.\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringSliceVar(&exportTags, "tag", nil, "Only export notes with this tag (repeatable)")
}
