package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/faitout"
	"github.com/aretw0/faitout/pkg/core"
	"github.com/aretw0/faitout/pkg/search"
)

var (
	showPlain bool
	showWidth int
	showRaw   bool

	searchTags  []string
	searchColor string
	searchFuzzy bool
	searchLimit int
	searchJSON  bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render a note as Markdown in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			n, ok := app.Store.Get(id)
			if !ok {
				return &core.OpError{Op: "show", ID: id, Err: core.ErrNotFound}
			}
			if showRaw {
				fmt.Fprint(cmd.OutOrStdout(), n.Body)
				return nil
			}
			r, err := app.Renderer(showWidth, showPlain)
			if err != nil {
				return err
			}
			out, err := r.Note(n)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Find notes by title, tags and color",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 1 {
			text = args[0]
		}
		q := search.Query{Text: text, Tags: searchTags}
		if searchColor != "" {
			c, err := parseColor(searchColor)
			if err != nil {
				return err
			}
			q = q.WithColor(c)
		}

		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			if searchFuzzy && text != "" {
				// Rank by title first, then apply the tag and color constraints.
				ranked := app.Suggest(text, 0)
				m := search.Compile(search.Query{Tags: q.Tags, Color: q.Color})
				var out []core.Note
				for _, n := range ranked {
					if m.Match(n) {
						out = append(out, n)
					}
				}
				if searchLimit > 0 && len(out) > searchLimit {
					out = out[:searchLimit]
				}
				return printNotes(cmd.OutOrStdout(), out, searchJSON)
			}

			out := app.Search(q)
			if searchLimit > 0 && len(out) > searchLimit {
				out = out[:searchLimit]
			}
			return printNotes(cmd.OutOrStdout(), out, searchJSON)
		})
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags with their note counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			for _, tc := range app.Tags() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", tc.Tag, tc.Count)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd, searchCmd, tagsCmd)

	showCmd.Flags().BoolVar(&showPlain, "plain", false, "Disable colors and styling")
	showCmd.Flags().IntVarP(&showWidth, "width", "w", 80, "Wrap column")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the Markdown source")

	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "Require tag (repeatable)")
	searchCmd.Flags().StringVar(&searchColor, "color", "", "Filter by color")
	searchCmd.Flags().BoolVar(&searchFuzzy, "fuzzy", false, "Rank titles by fuzzy match instead of substring")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum results (0 = all)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
}
