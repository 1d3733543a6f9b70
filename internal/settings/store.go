package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/five82/purse/internal/version"
)

var (
	// ErrLoad marks a settings file that could not be read or parsed.
	// It is absorbed: the store falls back to defaults.
	ErrLoad = errors.New("load settings")
	// ErrSave marks a failed write. It is returned to the caller of Save.
	ErrSave = errors.New("save settings")
)

// Reaction runs after a successful save that changed its field.
type Reaction func(Change)

// Option configures a Store.
type Option func(*Store)

// WithLogsDir overrides the directory reported by Get.
func WithLogsDir(dir string) Option {
	return func(s *Store) { s.logsDir = dir }
}

// WithVersion overrides the build version stamped on the record.
func WithVersion(v string) Option {
	return func(s *Store) { s.version = v }
}

// Store is the process-wide settings service.
type Store struct {
	path    string
	logsDir string
	version string

	saveMu sync.Mutex

	mu        sync.RWMutex
	current   Settings
	loadErr   error
	reactions map[string][]Reaction
}

// Load reads the settings file at path (DefaultPath when empty). It always
// returns a usable store.
func Load(path string, opts ...Option) *Store {
	s := &Store{
		logsDir:   DefaultLogsDir(),
		version:   version.String(),
		reactions: make(map[string][]Reaction),
	}
	for _, opt := range opts {
		opt(s)
	}

	resolved, err := resolvePath(path)
	if err != nil {
		s.loadErr = fmt.Errorf("%w: %w", ErrLoad, err)
		resolved = DefaultPath()
	}
	s.path = resolved

	cfg, err := readFile(resolved)
	if err != nil && s.loadErr == nil {
		s.loadErr = err
	}
	cfg.Version = s.version
	s.current = cfg
	return s
}

func readFile(path string) (Settings, error) {
	defaults := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	cfg := defaults
	if err := json.Unmarshal(data, &cfg); err != nil {
		return defaults, fmt.Errorf("%w: parse %s: %w", ErrLoad, filepath.Base(path), err)
	}
	return cfg, nil
}

// Path returns the resolved settings file path.
func (s *Store) Path() string {
	return s.path
}

// LoadErr returns the error absorbed by Load, if any.
func (s *Store) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Settings returns a copy of the current record.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Get returns the current record with its derived paths.
func (s *Store) Get() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := View{Settings: s.current, SettingsPath: s.path}
	if s.current.EnableLogs {
		v.LogsDir = s.logsDir
	}
	return v
}

// LogsDir returns the log directory regardless of whether logging is enabled.
func (s *Store) LogsDir() string {
	return s.logsDir
}

// OnChange registers r to run whenever a save changes field.
func (s *Store) OnChange(field string, r Reaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reactions[field] = append(s.reactions[field], r)
}

// Save merges p over the current record, stamps the version and rewrites the
// file. The in-memory record only changes when the write succeeds.
func (s *Store) Save(p Partial) (Change, error) {
	s.saveMu.Lock()

	before := s.Settings()
	after := p.Apply(before)
	after.Version = s.version

	if err := s.write(after); err != nil {
		s.saveMu.Unlock()
		return Change{}, fmt.Errorf("%w: %w", ErrSave, err)
	}

	change := Change{Before: before, After: after, Fields: diff(before, after)}

	s.mu.Lock()
	s.current = after
	var pending []func()
	for _, name := range change.Fields {
		for _, r := range s.reactions[name] {
			pending = append(pending, func() { r(change) })
		}
	}
	s.mu.Unlock()
	s.saveMu.Unlock()

	for _, run := range pending {
		run()
	}
	return change, nil
}

func (s *Store) write(cfg Settings) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
