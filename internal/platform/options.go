package platform

import (
	"log/slog"
	"os"

	"github.com/aretw0/faitout/pkg/session"
)

// options holds the internal configuration for an App.
type options struct {
	dataDir      string
	notesFile    string
	settingsFile string
	logger       *slog.Logger
	syncSave     bool
	readOnly     bool
	strict       bool
	mustExist    bool
	forceTemp    bool
	devSafety    bool
	fileMode     os.FileMode
	errorHandler func(error)
	prompter     session.Prompter
	onLastClosed func()
}

// Option defines a functional option for configuring the App.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		devSafety: true,
		fileMode:  0o644,
	}
}

// WithDataDir sets the directory holding the notes and settings files.
// Without it the directory comes from FAITOUT_HOME or sits beside the
// executable.
func WithDataDir(dir string) Option {
	return func(o *options) {
		o.dataDir = dir
	}
}

// WithNotesFile overrides the notes file name.
func WithNotesFile(name string) Option {
	return func(o *options) {
		o.notesFile = name
	}
}

// WithSettingsFile overrides the settings file name.
func WithSettingsFile(name string) Option {
	return func(o *options) {
		o.settingsFile = name
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSyncSave writes on the caller's goroutine instead of in the
// background, so save errors are returned directly. Short-lived
// processes such as the CLI use it.
func WithSyncSave(enabled bool) Option {
	return func(o *options) {
		o.syncSave = enabled
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Every write returns core.ErrReadOnly.
// 2. The data directory is not created.
// 3. The dev sandbox is bypassed (the real path is read).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithStrict rejects unknown color names in the notes file as corrupt
// data instead of falling back to the default color.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithMustExist ensures the data directory already exists.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithForceTemp forces the data directory into the dev sandbox.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. By default (true) data goes to a temporary directory unless
// an explicit data directory is given.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithFileMode sets the permissions of written files.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.fileMode = mode
	}
}

// WithErrorHandler receives background failures: asynchronous saves and
// watcher errors. They are logged either way.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithPrompter sets how the session asks about unsaved changes on close.
func WithPrompter(p session.Prompter) Option {
	return func(o *options) {
		o.prompter = p
	}
}

// WithLastWindowClosed registers fn to run when no windows remain.
func WithLastWindowClosed(fn func()) Option {
	return func(o *options) {
		o.onLastClosed = fn
	}
}
