package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where and how much mbmerge logs.
type Config struct {
	Level          string `yaml:"level"`
	Format         string `yaml:"format"`
	FilePath       string `yaml:"file_path"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxFiles   int    `yaml:"file_max_files"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
}

// DefaultConfig logs warnings and errors as text to the console only.
func DefaultConfig() Config {
	return Config{
		Level:          "warn",
		Format:         "text",
		FileMaxSizeMB:  10,
		FileMaxFiles:   3,
		FileMaxAgeDays: 30,
	}
}

// Validate reports the first setting the Manager cannot apply.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Format)
	}
	if c.FileMaxSizeMB < 0 || c.FileMaxFiles < 0 || c.FileMaxAgeDays < 0 {
		return fmt.Errorf("log file limits must not be negative")
	}
	return nil
}

// String returns a short summary, used when logging a reload.
func (c Config) String() string {
	s := fmt.Sprintf("level=%s format=%s", c.Level, c.Format)
	if c.FilePath != "" {
		s += fmt.Sprintf(" file=%s max_size=%dMB max_files=%d max_age=%dd",
			c.FilePath, c.FileMaxSizeMB, c.FileMaxFiles, c.FileMaxAgeDays)
	}
	return s
}

// ParseLevel accepts the lower-case slog level names.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s != strings.ToLower(s) || strings.ContainsAny(s, "+-") {
		return l, fmt.Errorf("invalid log level: %q", s)
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("invalid log level: %q", s)
	}
	return l, nil
}

// fileSettings are the parts of Config that require reopening the log file.
type fileSettings struct {
	path     string
	maxSize  int
	maxFiles int
	maxAge   int
}

func (c Config) file() fileSettings {
	fs := fileSettings{path: c.FilePath, maxSize: c.FileMaxSizeMB, maxFiles: c.FileMaxFiles, maxAge: c.FileMaxAgeDays}
	if fs.maxSize <= 0 {
		fs.maxSize = 10
	}
	if fs.maxFiles <= 0 {
		fs.maxFiles = 3
	}
	if fs.maxAge <= 0 {
		fs.maxAge = 30
	}
	return fs
}

// Manager owns the process logger. Console output goes to stderr; stdout
// belongs to the chooser and to command output. The console can be muted
// while a full-screen chooser owns the terminal, the log file keeps
// receiving records.
type Manager struct {
	level   *slog.LevelVar
	handler *SwappableHandler
	console io.Writer

	mu     sync.Mutex
	cfg    Config
	file   *lumberjack.Logger
	muted  int
	closed bool
}

// NewManager creates a Manager writing to stderr and returns it with a
// ready-to-use logger.
func NewManager(cfg Config) (*Manager, *slog.Logger) {
	return NewManagerWithWriter(cfg, os.Stderr)
}

// NewManagerWithWriter is NewManager with a custom console writer.
func NewManagerWithWriter(cfg Config, console io.Writer) (*Manager, *slog.Logger) {
	m := &Manager{
		level:   &slog.LevelVar{},
		console: console,
		cfg:     cfg,
	}
	m.level.Set(levelOrInfo(cfg.Level))
	m.openFile()
	m.handler = NewSwappableHandler(m.build())
	return m, slog.New(m.handler)
}

// Reconfigure applies cfg. A level change takes effect immediately; format
// and file changes swap the output handler under every derived logger.
func (m *Manager) Reconfigure(cfg Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.level.Set(levelOrInfo(cfg.Level))
	old := m.cfg
	m.cfg = cfg
	if m.closed {
		return
	}

	reopen := old.file() != cfg.file()
	if reopen {
		m.closeFile() //nolint:errcheck
		m.openFile()
	}
	if reopen || old.Format != cfg.Format {
		m.handler.Swap(m.build())
	}
}

// SuspendConsole stops console output until the returned func is called.
// Calls nest.
func (m *Manager) SuspendConsole() (resume func()) {
	m.mu.Lock()
	m.muted++
	if m.muted == 1 {
		m.handler.Swap(m.build())
	}
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.muted--
			if m.muted == 0 {
				m.handler.Swap(m.build())
			}
		})
	}
}

// Config returns the configuration in effect.
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// Close releases the log file. Later records go to the console only.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	err := m.closeFile()
	m.handler.Swap(m.build())
	return err
}

func (m *Manager) openFile() {
	fs := m.cfg.file()
	if fs.path == "" {
		return
	}
	m.file = &lumberjack.Logger{
		Filename:   fs.path,
		MaxSize:    fs.maxSize,
		MaxBackups: fs.maxFiles,
		MaxAge:     fs.maxAge,
	}
}

func (m *Manager) closeFile() error {
	if m.file == nil {
		return nil
	}
	err := m.file.Close()
	m.file = nil
	return err
}

// build returns the handler for the current state. Callers hold mu, except
// the constructor.
func (m *Manager) build() slog.Handler {
	var writers []io.Writer
	if m.muted == 0 {
		writers = append(writers, m.console)
	}
	if m.file != nil {
		writers = append(writers, m.file)
	}

	var w io.Writer
	switch len(writers) {
	case 0:
		w = io.Discard
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	opts := &slog.HandlerOptions{Level: m.level}
	if m.cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func levelOrInfo(s string) slog.Level {
	l, err := ParseLevel(s)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}
