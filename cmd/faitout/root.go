package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/faitout"
	"github.com/aretw0/faitout/pkg/core"
)

var (
	verbose  bool
	dataDir  string
	readOnly bool
	strict   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "faitout",
	Short: "Local-first notes: titled, tagged, colored Markdown",
	Long: `faitout keeps your notes in a single JSON file beside the program.
Notes have a title, a Markdown body, tags and a color label, and can be
searched by title, tags and color.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", "", "Data directory (default: $FAITOUT_HOME or beside the executable)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Never write to disk")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Treat unknown colors in the notes file as corrupt")
}

// openApp loads the data directory. The CLI writes synchronously so that
// save failures become the command's error.
func openApp(ctx context.Context) (*faitout.App, error) {
	app, err := faitout.New(ctx,
		faitout.WithDataDir(dataDir),
		faitout.WithLogger(slog.Default()),
		faitout.WithSyncSave(true),
		faitout.WithReadOnly(readOnly),
		faitout.WithStrict(strict),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes: %w", err)
	}
	return app, nil
}

// withApp runs fn against a freshly loaded app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *faitout.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := openApp(ctx)
	if err != nil {
		return err
	}

	runErr := fn(ctx, app)

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := app.Close(closeCtx); err != nil && runErr == nil && !readOnly {
		return err
	}
	return runErr
}

func parseID(arg string) (core.NoteID, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid note id %q", arg)
	}
	return core.NoteID(id), nil
}

// parseColor accepts color names in any case.
func parseColor(name string) (core.Color, error) {
	for _, c := range core.Colors {
		if strings.EqualFold(c.String(), name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown color %q", core.ErrValidation, name)
}
