// Package faitout is the composition root of a local-first notes app.
//
// It wires the note store, the multi-window editing session, search and
// the appearance settings to two JSON files kept beside the program.
//
// Architecture:
//
//   - pkg/core holds the notes, their identity and the store rules.
//   - pkg/search filters snapshots by title, tags and color.
//   - pkg/session is the per-window state machine (list, editing, dirty,
//     orphaned) with private edit buffers and last-save-wins commits.
//   - pkg/settings holds theme, font and font size.
//   - pkg/adapters/fs persists both files with atomic writes and saves in
//     the background, coalescing bursts into a single follow-up write.
//
// Usage:
//
//	app, err := faitout.New(ctx, faitout.WithDataDir("./data"))
//	if err != nil {
//		// core.ErrCorruptData: the notes file exists but cannot be read.
//	}
//	defer app.Close(ctx)
//
//	win := app.Session.Main()
//	_ = app.Session.New(win)
//	_ = app.Session.EditTitle(win, "Groceries")
//	_ = app.Session.Save(ctx, win)
package faitout
