package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/faitout/pkg/adapters/export"
	"github.com/aretw0/faitout/pkg/adapters/fs"
	faitoutlifecycle "github.com/aretw0/faitout/pkg/adapters/lifecycle"
	"github.com/aretw0/faitout/pkg/adapters/render"
	"github.com/aretw0/faitout/pkg/core"
	"github.com/aretw0/faitout/pkg/search"
)

// Search runs a query over the current notes.
func (a *App) Search(q search.Query) []core.Note {
	return search.Run(a.Store, q)
}

// Suggest returns notes whose titles fuzzily match pattern, best first.
func (a *App) Suggest(pattern string, limit int) []core.Note {
	return search.Suggest(a.Store.List(), pattern, limit)
}

// Tags lists every tag in use with its note count.
func (a *App) Tags() []search.TagCount {
	return search.Tags(a.Store.List())
}

// Renderer builds a Markdown previewer matching the current theme.
func (a *App) Renderer(width int, plain bool) (*render.Renderer, error) {
	return render.New(render.Config{
		Theme: a.Settings.Get().Theme,
		Width: width,
		Plain: plain,
	})
}

// Export writes every note (or those matching q) to dir as Markdown.
func (a *App) Export(ctx context.Context, dir string, q search.Query) (export.Result, error) {
	res, err := export.Export(ctx, dir, a.Search(q))
	if err != nil {
		return res, err
	}
	a.logger.Info("notes exported", "path", dir, "count", len(res.Files))
	return res, nil
}

// Import appends the Markdown notes found in dir and saves once.
func (a *App) Import(ctx context.Context, dir string) (int, error) {
	notes, err := export.Import(ctx, dir)
	if err != nil {
		return 0, err
	}
	for i, n := range notes {
		if _, err := a.Store.Create(n.Title, n.Body, n.Tags, n.Color); err != nil {
			return i, err
		}
	}
	if len(notes) == 0 {
		return 0, nil
	}
	snapshot, version := a.Store.Snapshot()
	if err := a.saver.Request(ctx, version, snapshot); err != nil {
		return len(notes), fmt.Errorf("save notes: %w", err)
	}
	a.logger.Info("notes imported", "path", dir, "count", len(notes))
	return len(notes), nil
}

// Watch reports external changes to the data files.
func (a *App) Watch(ctx context.Context, pattern string) (<-chan fs.FileEvent, error) {
	return a.repo.Watch(ctx, pattern)
}

// Events returns the committed store changes as a lifecycle.Source. The
// returned func stops the subscription.
func (a *App) Events() (lifecycle.Source, func()) {
	events, stop := faitoutlifecycle.StoreEvents(a.Store.Subscribe, 64)
	return faitoutlifecycle.NewSource(events), stop
}

// Components lists the introspectable parts of the app.
func (a *App) Components() []introspection.Component {
	return []introspection.Component{a.Store, a.Session, a.repo, a.saver}
}

// Status returns the state of every component keyed by component type.
func (a *App) Status() map[string]any {
	out := make(map[string]any)
	for _, c := range a.Components() {
		if i, ok := c.(introspection.Introspectable); ok {
			out[c.ComponentType()] = i.State()
		}
	}
	return out
}
