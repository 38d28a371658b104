package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/faitout/pkg/core"
	"github.com/aretw0/faitout/pkg/settings"
)

// Default file names inside the data directory.
const (
	DefaultNotesFile    = "notes.json"
	DefaultSettingsFile = "settings.json"
)

// Repository persists notes and settings as two JSON files in one directory.
type Repository struct {
	Path       string
	config     Config
	serializer Serializer

	mu            sync.RWMutex
	readOnly      bool
	watcherActive bool
	lastLoad      *time.Time
	lastSave      *time.Time
	saves         uint64
	selfWrites    map[string]time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	NotesFile    string // relative to Path unless absolute
	SettingsFile string // relative to Path unless absolute
	MustExist    bool
	ReadOnly     bool
	Strict       bool // unknown colors are corrupt data
	FileMode     os.FileMode
	Logger       *slog.Logger
	ErrorHandler func(error) // optional, receives watcher errors
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.NotesFile == "" {
		config.NotesFile = DefaultNotesFile
	}
	if config.SettingsFile == "" {
		config.SettingsFile = DefaultSettingsFile
	}
	if config.FileMode == 0 {
		config.FileMode = 0o644
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:       config.Path,
		config:     config,
		serializer: NewJSONSerializer(config.Strict),
		readOnly:   config.ReadOnly,
		selfWrites: make(map[string]time.Time),
	}
}

// Initialize prepares the data directory.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			if r.config.ReadOnly {
				return nil
			}
			return fmt.Errorf("data directory does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", core.ErrIO, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", r.Path)
		}
		return nil
	}
	if err := os.MkdirAll(r.Path, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create data directory: %w", core.ErrIO, err)
	}
	return nil
}

// NotesPath returns the absolute location of the notes file.
func (r *Repository) NotesPath() string { return r.resolve(r.config.NotesFile) }

// SettingsPath returns the absolute location of the settings file.
func (r *Repository) SettingsPath() string { return r.resolve(r.config.SettingsFile) }

func (r *Repository) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(r.Path, name)
}

// IsReadOnly reports whether writes are rejected.
func (r *Repository) IsReadOnly() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.readOnly
}

// Load reads the notes file. A missing file is a fresh start and yields
// no notes and no error. Unreadable content is core.ErrCorruptData and
// must not be treated as empty, or the next save would destroy it.
func (r *Repository) Load(ctx context.Context) ([]core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := r.NotesPath()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		r.config.Logger.Info("no notes file, starting empty", "path", path)
		r.recordLoad()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", core.ErrIO, path, err)
	}

	notes, err := r.serializer.Parse(bytes.NewReader(data))
	if err != nil {
		r.config.Logger.Error("notes file is unreadable", "path", path, "error", err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r.recordLoad()
	r.config.Logger.Debug("notes loaded", "path", path, "count", len(notes))
	return notes, nil
}

// Save replaces the notes file with the given snapshot. The write is
// atomic: readers see either the old or the new file, never a mix.
func (r *Repository) Save(ctx context.Context, notes []core.Note) error {
	if r.IsReadOnly() {
		return core.ErrReadOnly
	}
	data, err := r.serializer.Serialize(notes)
	if err != nil {
		return fmt.Errorf("failed to serialize notes: %w", err)
	}
	if err := r.write(r.NotesPath(), data); err != nil {
		return err
	}

	r.mu.Lock()
	now := time.Now()
	r.lastSave = &now
	r.saves++
	r.mu.Unlock()

	r.config.Logger.Debug("notes saved", "path", r.NotesPath(), "count", len(notes))
	return nil
}

func (r *Repository) write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %w", core.ErrIO, err)
	}

	r.mu.Lock()
	r.selfWrites[filepath.Clean(path)] = time.Now()
	r.mu.Unlock()

	if err := WriteFileAtomic(path, data, r.config.FileMode); err != nil {
		return fmt.Errorf("%w: %w", core.ErrIO, err)
	}
	return nil
}

// recentlyWritten reports whether path was written by this process within
// the given window. The watcher uses it to drop echoes of its own saves.
func (r *Repository) recentlyWritten(path string, window time.Duration) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	at, ok := r.selfWrites[filepath.Clean(path)]
	return ok && time.Since(at) < window
}

func (r *Repository) recordLoad() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastLoad = &now
}

// Settings returns the settings persister backed by this repository.
func (r *Repository) Settings() settings.Persister {
	return &settingsFile{repo: r}
}

type settingsFile struct {
	repo *Repository
}

// Load never fails. Absence and corruption both yield defaults; corruption
// is logged.
func (f *settingsFile) Load(ctx context.Context) settings.Settings {
	path := f.repo.SettingsPath()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings.Defaults()
	}
	if err != nil {
		f.repo.config.Logger.Warn("settings unreadable, using defaults", "path", path, "error", err)
		return settings.Defaults()
	}
	s, err := ParseSettings(bytes.NewReader(data))
	if err != nil {
		f.repo.config.Logger.Warn("settings corrupt, using defaults", "path", path, "error", err)
		return settings.Defaults()
	}
	return s
}

func (f *settingsFile) Save(ctx context.Context, s settings.Settings) error {
	if f.repo.IsReadOnly() {
		return core.ErrReadOnly
	}
	data, err := SerializeSettings(s)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	return f.repo.write(f.repo.SettingsPath(), data)
}

var _ core.Repository = (*Repository)(nil)
