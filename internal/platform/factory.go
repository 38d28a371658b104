package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/faitout/pkg/adapters/fs"
	"github.com/aretw0/faitout/pkg/core"
	"github.com/aretw0/faitout/pkg/session"
	"github.com/aretw0/faitout/pkg/settings"
)

// App is the single owner of the running state: the note store, the
// session over it, the settings and the persistence behind them.
type App struct {
	DataDir  string
	Store    *core.Store
	Session  *session.Manager
	Settings *settings.Store

	repo   *fs.Repository
	saver  *fs.Saver
	logger *slog.Logger
	opts   *options
}

// New loads the notes and settings and wires the components.
//
// A corrupt notes file blocks startup with core.ErrCorruptData rather than
// starting empty, which would overwrite it on the next save. A missing
// file is a fresh start. Settings never block startup.
func New(ctx context.Context, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dir, sandboxed := resolveDataDir(o)
	if sandboxed {
		logger.Warn("running in SAFE MODE (Dev/Test)", "resolved_path", dir)
	}
	if o.readOnly {
		logger.Debug("running in READ-ONLY mode", "path", dir)
	}

	repo := fs.NewRepository(fs.Config{
		Path:         dir,
		NotesFile:    o.notesFile,
		SettingsFile: o.settingsFile,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Strict:       o.strict,
		FileMode:     o.fileMode,
		Logger:       logger,
		ErrorHandler: o.errorHandler,
	})
	if err := repo.Initialize(ctx); err != nil {
		return nil, err
	}

	store, err := core.Open(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	saver := fs.NewSaver(repo, fs.SaverConfig{
		// Read-only writes fail at once; report that to the caller.
		Sync:    o.syncSave || o.readOnly,
		Logger:  logger,
		OnError: o.errorHandler,
	})

	sessionOpts := []session.Option{
		session.WithLogger(logger),
		session.WithSaver(saver),
		session.WithLastWindowClosed(o.onLastClosed),
	}
	if o.prompter != nil {
		sessionOpts = append(sessionOpts, session.WithPrompter(o.prompter))
	}

	app := &App{
		DataDir:  dir,
		Store:    store,
		Session:  session.NewManager(store, sessionOpts...),
		Settings: settings.Open(ctx, repo.Settings(), logger),
		repo:     repo,
		saver:    saver,
		logger:   logger,
		opts:     o,
	}
	logger.Debug("app ready", "path", dir, "notes", store.Len())
	return app, nil
}

// Repository exposes the persistence adapter.
func (a *App) Repository() *fs.Repository { return a.repo }

// Flush waits for pending background saves.
func (a *App) Flush(ctx context.Context) error {
	return a.saver.Flush(ctx)
}

// Close detaches the session, waits for pending saves and writes the
// settings. It does not write notes that were never saved.
func (a *App) Close(ctx context.Context) error {
	a.Session.Stop()

	var errs []error
	if err := a.saver.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush notes: %w", err))
	}
	if !a.opts.readOnly {
		if err := a.Settings.Save(ctx); err != nil {
			errs = append(errs, fmt.Errorf("save settings: %w", err))
		}
	}
	return errors.Join(errs...)
}
