package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModuleLevelOverride(t *testing.T) {
	Initialize(Config{
		Level: "info",
		Modules: map[string]string{
			"supervisor": "debug",
			"ffmpeg":     "error",
		},
	})

	sup := GetLogger("supervisor")
	if !sup.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("supervisor logger should allow debug")
	}

	ff := GetLogger("ffmpeg")
	if ff.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("ffmpeg logger should suppress warn")
	}
	if !ff.Enabled(context.Background(), slog.LevelError) {
		t.Error("ffmpeg logger should allow error")
	}

	api := GetLogger("api")
	if api.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("api logger should use the default info level")
	}
}

func TestGetLoggerCaches(t *testing.T) {
	Initialize(DefaultConfig())

	a := GetLogger("channels")
	b := GetLogger("channels")
	if a != b {
		t.Error("GetLogger should return the same logger for the same module")
	}
}

func TestRingBufferWraps(t *testing.T) {
	rb := NewRingBuffer(3)
	for i := 0; i < 5; i++ {
		rb.Write(LogEntry{Message: string(rune('a' + i))})
	}

	entries := rb.ReadAll()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"c", "d", "e"}
	for i, e := range entries {
		if e.Message != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Message, want[i])
		}
	}
}

func TestRingBufferPartialFill(t *testing.T) {
	rb := NewRingBuffer(4)
	if rb.ReadAll() != nil {
		t.Error("empty buffer should read as nil")
	}

	rb.Write(LogEntry{Message: "a"})
	rb.Write(LogEntry{Message: "b"})

	if rb.Count() != 2 {
		t.Errorf("count = %d, want 2", rb.Count())
	}
	entries := rb.ReadAll()
	if len(entries) != 2 || entries[0].Message != "a" || entries[1].Message != "b" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

// recordingHandler counts records at or above its level.
type recordingHandler struct {
	level slog.Level
	seen  int
}

func (h *recordingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *recordingHandler) Handle(context.Context, slog.Record) error {
	h.seen++
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestMultiHandlerFanOut(t *testing.T) {
	all := &recordingHandler{level: slog.LevelDebug}
	errsOnly := &recordingHandler{level: slog.LevelError}
	logger := slog.New(NewMultiHandler(all, errsOnly))

	logger.Info("hello")
	logger.Error("boom")

	if all.seen != 2 {
		t.Errorf("debug target saw %d records, want 2", all.seen)
	}
	if errsOnly.seen != 1 {
		t.Errorf("error target saw %d records, want 1", errsOnly.seen)
	}
}

func TestBufferHandlerCapturesModule(t *testing.T) {
	Initialize(DefaultConfig())

	before := GetBuffer().Count()
	GetLogger("channels").Info("Playback started", "path", "/tmp/a.wav")

	entries := GetBuffer().ReadAll()
	if len(entries) <= before {
		t.Fatal("expected a new buffered entry")
	}

	last := entries[len(entries)-1]
	if last.Module != "channels" {
		t.Errorf("module = %q, want channels", last.Module)
	}
	if last.Message != "Playback started" {
		t.Errorf("message = %q", last.Message)
	}
	if last.Attributes["path"] != "/tmp/a.wav" {
		t.Errorf("path attribute = %v", last.Attributes["path"])
	}
}
