package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/faitout"
	"github.com/aretw0/faitout/pkg/session"
)

var (
	noteTitle string
	noteBody  string
	noteTags  string
	noteColor string
)

// newCmd creates a note through a draft in the main window, the same
// path the editor takes.
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			win := app.Session.Main()
			if err := app.Session.New(win); err != nil {
				return err
			}
			if err := applyEdits(cmd, app.Session, win); err != nil {
				return err
			}
			if err := app.Session.Save(ctx, win); err != nil {
				return err
			}
			v, err := app.Session.View(win)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note %d created.\n", v.Note)
			return nil
		})
	},
}

// editCmd opens the note in its own window, applies the flags that were
// given and saves.
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a note's title, body, tags or color",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			win, err := app.Session.OpenWindow(id)
			if err != nil {
				return err
			}
			if err := applyEdits(cmd, app.Session, win); err != nil {
				return err
			}
			if err := app.Session.Save(ctx, win); err != nil {
				return err
			}
			if _, err := app.Session.Close(ctx, win); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note %d saved.\n", id)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			if err := app.Session.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note %d deleted.\n", id)
			return nil
		})
	},
}

func applyEdits(cmd *cobra.Command, s *session.Manager, win session.WindowID) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		if err := s.EditTitle(win, noteTitle); err != nil {
			return err
		}
	}
	if flags.Changed("body") {
		if err := s.EditBody(win, noteBody); err != nil {
			return err
		}
	}
	if flags.Changed("tags") {
		if err := s.EditTags(win, noteTags); err != nil {
			return err
		}
	}
	if flags.Changed("color") {
		c, err := parseColor(noteColor)
		if err != nil {
			return err
		}
		if err := s.EditColor(win, c); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newCmd, editCmd, deleteCmd)
	for _, c := range []*cobra.Command{newCmd, editCmd} {
		c.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
		c.Flags().StringVarP(&noteBody, "body", "b", "", "Markdown body")
		c.Flags().StringVar(&noteTags, "tags", "", "Comma-separated tags")
		c.Flags().StringVarP(&noteColor, "color", "c", "", "Color label")
	}
}
