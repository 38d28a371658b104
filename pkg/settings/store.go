package settings

import (
	"context"
	"log/slog"
	"sync"
)

// Persister reads and writes settings. Load never fails: implementations
// fall back to Defaults on absence or corruption.
type Persister interface {
	Load(ctx context.Context) Settings
	Save(ctx context.Context, s Settings) error
}

// Store owns the current settings and persists them on change.
type Store struct {
	mu      sync.RWMutex
	current Settings
	p       Persister
	logger  *slog.Logger
}

// Open loads settings through p.
func Open(ctx context.Context, p Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := p.Load(ctx)
	s.FontSize = ClampFontSize(s.FontSize)
	return &Store{current: s, p: p, logger: logger}
}

// Get returns the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetTheme changes the theme. It reports whether anything changed.
func (s *Store) SetTheme(ctx context.Context, t Theme) (bool, error) {
	return s.mutate(ctx, func(cur *Settings) bool {
		if cur.Theme == t {
			return false
		}
		cur.Theme = t
		return true
	})
}

// SetFont changes the font.
func (s *Store) SetFont(ctx context.Context, f Font) (bool, error) {
	return s.mutate(ctx, func(cur *Settings) bool {
		if cur.Font == f {
			return false
		}
		cur.Font = f
		return true
	})
}

// SetFontSize changes the font size after clamping it.
func (s *Store) SetFontSize(ctx context.Context, size int) (bool, error) {
	size = ClampFontSize(size)
	return s.mutate(ctx, func(cur *Settings) bool {
		if cur.FontSize == size {
			return false
		}
		cur.FontSize = size
		return true
	})
}

// Save writes the current settings unconditionally (used on exit).
func (s *Store) Save(ctx context.Context) error {
	return s.p.Save(ctx, s.Get())
}

// mutate applies fn and persists only when fn reports a change.
// On a failed write the in-memory value is kept; the user may retry.
func (s *Store) mutate(ctx context.Context, fn func(*Settings) bool) (bool, error) {
	s.mu.Lock()
	changed := fn(&s.current)
	snapshot := s.current
	s.mu.Unlock()

	if !changed {
		return false, nil
	}
	if err := s.p.Save(ctx, snapshot); err != nil {
		s.logger.Error("failed to save settings", "error", err)
		return true, err
	}
	s.logger.Debug("settings saved", "theme", snapshot.Theme.Name(), "font", snapshot.Font.Name(), "font_size", snapshot.FontSize)
	return true, nil
}
