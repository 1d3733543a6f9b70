// Package logging writes purse diagnostic events as line-delimited JSON,
// one file per calendar day, and can be switched on or off at runtime.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
	zerolog.MessageFieldName = "message"
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.LevelFieldMarshalFunc = func(l zerolog.Level) string {
		return strings.ToUpper(l.String())
	}
}

// Level is the severity of a record.
type Level = zerolog.Level

// Levels accepted by Write.
const (
	LevelDebug = zerolog.DebugLevel
	LevelInfo  = zerolog.InfoLevel
	LevelWarn  = zerolog.WarnLevel
	LevelError = zerolog.ErrorLevel
)

// ParseLevel maps a level name from a client to a Level. Unknown names are
// logged at info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error", "fatal", "panic":
		return LevelError
	default:
		return LevelInfo
	}
}

// Options configures a Logger.
type Options struct {
	Dir     string
	Enabled bool
	// Session identifies this process run. A random UUID is used when empty.
	Session string
	// Console receives mirrored records while Mirror is on. Defaults to stderr.
	Console io.Writer
	Now     func() time.Time
}

// Logger is the file sink. A nil *Logger discards everything.
type Logger struct {
	mu      sync.Mutex
	enabled bool
	mirror  bool
	session string
	now     func() time.Time
	file    *dailyFile
	console io.Writer
	zl      zerolog.Logger
}

// New returns a Logger writing under opts.Dir.
func New(opts Options) *Logger {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	session := opts.Session
	if session == "" {
		session = uuid.NewString()
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	l := &Logger{
		enabled: opts.Enabled,
		session: session,
		now:     now,
		file:    &dailyFile{dir: opts.Dir, now: now},
		console: console,
	}
	l.rebuild()
	return l
}

// rebuild swaps the zerolog sink. Callers hold l.mu or own l exclusively.
func (l *Logger) rebuild() {
	if !l.enabled {
		l.zl = zerolog.Nop()
		return
	}
	var w io.Writer = l.file
	if l.mirror {
		w = zerolog.MultiLevelWriter(l.file, zerolog.ConsoleWriter{Out: l.console, TimeFormat: time.TimeOnly})
	}
	l.zl = zerolog.New(w).Level(zerolog.DebugLevel)
}

// Reconfigure turns persistence on or off. Disabling closes today's file.
func (l *Logger) Reconfigure(enabled bool) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.enabled == enabled {
		return
	}
	l.enabled = enabled
	if !enabled {
		_ = l.file.Close()
	}
	l.rebuild()
}

// Mirror copies records to the console writer in a human format.
func (l *Logger) Mirror(on bool) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.mirror == on {
		return
	}
	l.mirror = on
	l.rebuild()
}

// Enabled reports whether records are persisted.
func (l *Logger) Enabled() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// Session returns the id written with every record.
func (l *Logger) Session() string {
	if l == nil {
		return ""
	}
	return l.session
}

// Dir returns the directory daily files are written to.
func (l *Logger) Dir() string {
	if l == nil {
		return ""
	}
	return l.file.dir
}

// TodayPath returns the file the next record would be appended to.
func (l *Logger) TodayPath() string {
	if l == nil {
		return ""
	}
	return l.file.pathFor(l.now())
}

// Write appends one record. data may be nil.
func (l *Logger) Write(level Level, message string, data map[string]any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return
	}

	fields := zerolog.Dict().Str("session", l.session)
	if len(data) > 0 {
		fields = fields.Fields(data)
	}
	l.zl.WithLevel(level).
		Time(zerolog.TimestampFieldName, l.now().UTC()).
		Dict("data", fields).
		Msg(message)
}

func (l *Logger) Debug(message string, data map[string]any) { l.Write(LevelDebug, message, data) }
func (l *Logger) Info(message string, data map[string]any)  { l.Write(LevelInfo, message, data) }
func (l *Logger) Warn(message string, data map[string]any)  { l.Write(LevelWarn, message, data) }
func (l *Logger) Error(message string, data map[string]any) { l.Write(LevelError, message, data) }

// Close releases the open file, if any.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
