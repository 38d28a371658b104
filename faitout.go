package faitout

import (
	"context"
	"log/slog"
	"os"

	"github.com/aretw0/faitout/internal/platform"
	"github.com/aretw0/faitout/pkg/session"
)

// --- Types ---

// App is the running application: notes, session, settings and their
// persistence.
type App = platform.App

// --- Configuration ---

// Option defines a functional option for configuring the App.
type Option = platform.Option

// WithDataDir sets the directory holding notes.json and settings.json.
func WithDataDir(dir string) Option {
	return platform.WithDataDir(dir)
}

// WithNotesFile overrides the notes file name.
func WithNotesFile(name string) Option {
	return platform.WithNotesFile(name)
}

// WithSettingsFile overrides the settings file name.
func WithSettingsFile(name string) Option {
	return platform.WithSettingsFile(name)
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSyncSave writes notes on the caller's goroutine.
func WithSyncSave(enabled bool) Option {
	return platform.WithSyncSave(enabled)
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithStrict treats unknown color names in the notes file as corrupt.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithMustExist ensures the data directory already exists.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the temp-dir sandbox used under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithFileMode sets the permissions of written files.
func WithFileMode(mode os.FileMode) Option {
	return platform.WithFileMode(mode)
}

// WithErrorHandler receives background save and watcher failures.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// WithPrompter sets how unsaved changes are resolved on close.
func WithPrompter(p session.Prompter) Option {
	return platform.WithPrompter(p)
}

// WithLastWindowClosed registers fn to run when no windows remain.
func WithLastWindowClosed(fn func()) Option {
	return platform.WithLastWindowClosed(fn)
}

// --- Factory ---

// New loads the notes and settings and returns the running App.
func New(ctx context.Context, opts ...Option) (*App, error) {
	return platform.New(ctx, opts...)
}
