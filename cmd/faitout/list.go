package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/faitout"
	"github.com/aretw0/faitout/pkg/core"
	"github.com/aretw0/faitout/pkg/search"
)

var (
	listJSON  bool
	listTags  []string
	listColor string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, optionally filtered by tag and color",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := search.Query{Tags: listTags}
		if listColor != "" {
			c, err := parseColor(listColor)
			if err != nil {
				return err
			}
			q = q.WithColor(c)
		}

		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			return printNotes(cmd.OutOrStdout(), app.Search(q), listJSON)
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringSliceVar(&listTags, "tag", nil, "Require tag (repeatable)")
	listCmd.Flags().StringVar(&listColor, "color", "", "Filter by color")
}

type noteJSON struct {
	ID    core.NoteID `json:"id"`
	Title string      `json:"title"`
	Body  string      `json:"body"`
	Tags  []string    `json:"tags"`
	Color string      `json:"color"`
}

func printNotes(w io.Writer, notes []core.Note, asJSON bool) error {
	if asJSON {
		out := make([]noteJSON, 0, len(notes))
		for _, n := range notes {
			out = append(out, noteJSON{ID: n.ID, Title: n.Title, Body: n.Body, Tags: n.Tags, Color: n.Color.String()})
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	for _, n := range notes {
		line := fmt.Sprintf("%d  %s", n.ID, n.DisplayTitle())
		if len(n.Tags) > 0 {
			line += "  [" + core.FormatTags(n.Tags) + "]"
		}
		if n.Color != core.ColorDefault {
			line += "  (" + n.Color.String() + ")"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
