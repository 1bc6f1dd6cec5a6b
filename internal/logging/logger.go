package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config holds logging configuration.
type Config struct {
	Level   string            `toml:"level" comment:"Default log level: debug, info, warn, error"`
	Format  string            `toml:"format" comment:"Log format: text or json"`
	Modules map[string]string `toml:"modules" comment:"Per-module log level overrides"`
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Format:  "text",
		Modules: map[string]string{},
	}
}

var (
	mu          sync.RWMutex
	config      = DefaultConfig()
	loggers     = make(map[string]*slog.Logger)
	logBuffer   *RingBuffer
	logCallback LogCallback
	useJournal  bool
)

// Initialize sets up logging from configuration. Safe to call multiple
// times; later calls reconfigure levels for subsequently created loggers.
func Initialize(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Modules == nil {
		cfg.Modules = map[string]string{}
	}
	config = cfg
	useJournal = journalAvailable()

	if logBuffer == nil {
		logBuffer = NewRingBuffer(1000)
	}

	// Invalidate cached loggers so level overrides take effect
	loggers = make(map[string]*slog.Logger)

	slog.SetDefault(slog.New(createHandler(parseLevel(cfg.Level))))
}

// GetLogger returns a logger for the named module. The module name is
// attached as an attribute and controls per-module level overrides.
func GetLogger(module string) *slog.Logger {
	mu.RLock()
	if l, ok := loggers[module]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[module]; ok {
		return l
	}

	level := parseLevel(config.Level)
	if override, ok := config.Modules[module]; ok {
		level = parseLevel(override)
	}

	l := slog.New(createHandler(level)).With("module", module)
	loggers[module] = l
	return l
}

// GetBuffer returns the ring buffer of recent log entries, if initialized.
func GetBuffer() *RingBuffer {
	mu.RLock()
	defer mu.RUnlock()
	return logBuffer
}

// SetLogCallback registers a callback invoked for every buffered log entry.
func SetLogCallback(cb LogCallback) {
	mu.Lock()
	defer mu.Unlock()
	logCallback = cb
}

// currentBuffer returns the active ring buffer and callback.
func currentBuffer() (*RingBuffer, LogCallback) {
	mu.RLock()
	defer mu.RUnlock()
	return logBuffer, logCallback
}

// createHandler builds the handler chain: stdout (text or json), journald
// when running under systemd, and the ring buffer.
func createHandler(level slog.Level) slog.Handler {
	var stdout slog.Handler
	if strings.EqualFold(config.Format, "json") {
		stdout = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		stdout = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	handlers := []slog.Handler{stdout}
	if useJournal {
		handlers = append(handlers, NewJournalHandler(level))
	}
	// Always add the buffer handler. It dynamically checks whether the
	// buffer exists, so early loggers work once Initialize runs.
	handlers = append(handlers, NewBufferHandler(level))

	return NewMultiHandler(handlers...)
}

// parseLevel converts a level string to a slog.Level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
