package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/faitout"
	"github.com/aretw0/faitout/pkg/core"
	"github.com/aretw0/faitout/pkg/settings"
)

var (
	setTheme string
	setFont  string
	setSize  int
	setList  bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change theme, font and font size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *faitout.App) error {
			out := cmd.OutOrStdout()
			if setList {
				printCatalog(cmd)
				return nil
			}

			flags := cmd.Flags()
			if flags.Changed("theme") {
				t, ok := lookupTheme(setTheme)
				if !ok {
					return fmt.Errorf("%w: unknown theme %q", core.ErrValidation, setTheme)
				}
				if _, err := app.Settings.SetTheme(ctx, t); err != nil {
					return err
				}
			}
			if flags.Changed("font") {
				f, ok := lookupFont(setFont)
				if !ok {
					return fmt.Errorf("%w: unknown font %q", core.ErrValidation, setFont)
				}
				if _, err := app.Settings.SetFont(ctx, f); err != nil {
					return err
				}
			}
			if flags.Changed("size") {
				if _, err := app.Settings.SetFontSize(ctx, setSize); err != nil {
					return err
				}
			}

			s := app.Settings.Get()
			fmt.Fprintf(out, "theme:     %s\n", s.Theme)
			fmt.Fprintf(out, "font:      %s\n", s.Font)
			fmt.Fprintf(out, "font size: %d\n", s.FontSize)
			return nil
		})
	},
}

// lookupTheme accepts the file name or the label, in any case.
func lookupTheme(name string) (settings.Theme, bool) {
	for _, t := range settings.Themes {
		if strings.EqualFold(t.Name(), name) || strings.EqualFold(t.String(), name) {
			return t, true
		}
	}
	return settings.ThemeKanagawaDragon, false
}

func lookupFont(name string) (settings.Font, bool) {
	for _, f := range settings.Fonts {
		if strings.EqualFold(f.Name(), name) || (f.Family() != "" && strings.EqualFold(f.Family(), name)) {
			return f, true
		}
	}
	return settings.FontSans, false
}

func printCatalog(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "themes:")
	for _, t := range settings.Themes {
		fmt.Fprintf(out, "  %-16s %s\n", t.Name(), t)
	}
	fmt.Fprintln(out, "fonts:")
	for _, f := range settings.Fonts {
		fmt.Fprintf(out, "  %s\n", f.Name())
	}
	fmt.Fprintln(out, "colors:")
	for _, c := range core.Colors {
		fmt.Fprintf(out, "  %-8s %s\n", c, c.Swatch())
	}
	fmt.Fprintf(out, "font size: %d-%d\n", settings.MinFontSize, settings.MaxFontSize)
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.Flags().StringVar(&setTheme, "theme", "", "Theme name")
	settingsCmd.Flags().StringVar(&setFont, "font", "", "Font name")
	settingsCmd.Flags().IntVar(&setSize, "size", settings.DefaultFontSize, "Font size (clamped)")
	settingsCmd.Flags().BoolVar(&setList, "list", false, "List the available themes, fonts and colors")
}
