package channels

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mediafeed/mediafeed/internal/events"
	"github.com/mediafeed/mediafeed/internal/supervisor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubEncoder writes a fake encoder script that appends its arguments to
// argsLog, one invocation per line. Invocations whose arguments match a
// "hold" pattern block instead of exiting, so fallback loops settle.
func stubEncoder(t *testing.T, dir string, holdPatterns ...string) (program, argsLog string) {
	t.Helper()

	argsLog = filepath.Join(dir, "args.log")
	program = filepath.Join(dir, "encoder")

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("echo \"$@\" >> " + argsLog + "\n")
	b.WriteString("case \"$*\" in\n")
	for _, p := range holdPatterns {
		b.WriteString("  *" + p + "*) exec sleep 10 ;;\n")
	}
	b.WriteString("  *pipe:0*) cat > /dev/null ;;\n")
	b.WriteString("esac\n")

	if err := os.WriteFile(program, []byte(b.String()), 0o755); err != nil {
		t.Fatal(err)
	}
	return program, argsLog
}

func readInvocations(t *testing.T, argsLog string) []string {
	t.Helper()
	data, err := os.ReadFile(argsLog)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func TestAudioFallsBackToSilence(t *testing.T) {
	dir := t.TempDir()
	silence := filepath.Join(dir, "silence.wav")
	program, argsLog := stubEncoder(t, dir, "silence.wav")

	audio := NewAudio(Config{
		Program:      program,
		AudioSink:    "test_mic",
		SilenceAsset: silence,
	}, nil, testLogger())
	defer audio.Stop(context.Background())

	if err := audio.Play(filepath.Join(dir, "clip.wav"), false); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	// The clip exits immediately; the silence fallback should follow
	waitFor(t, 2*time.Second, func() bool {
		return len(readInvocations(t, argsLog)) >= 2
	})

	invocations := readInvocations(t, argsLog)
	if !strings.Contains(invocations[0], "clip.wav") {
		t.Errorf("first invocation should play the clip: %q", invocations[0])
	}
	fallback := invocations[1]
	if !strings.Contains(fallback, silence) {
		t.Errorf("fallback should play the silence asset: %q", fallback)
	}
	if strings.Contains(fallback, "-stream_loop") {
		t.Errorf("silence fallback must not loop: %q", fallback)
	}
	if !strings.Contains(fallback, "test_mic") {
		t.Errorf("fallback should target the configured sink: %q", fallback)
	}
}

func TestAudioPlayPublishesFallbackEvent(t *testing.T) {
	dir := t.TempDir()
	silence := filepath.Join(dir, "silence.wav")
	program, _ := stubEncoder(t, dir, "silence.wav")

	bus := events.New()
	fallbacks := make(chan events.FallbackEngagedEvent, 4)
	unsub := bus.Subscribe(func(ev events.FallbackEngagedEvent) {
		fallbacks <- ev
	})
	defer unsub()

	audio := NewAudio(Config{
		Program:      program,
		SilenceAsset: silence,
	}, bus, testLogger())
	defer audio.Stop(context.Background())

	if err := audio.Play(filepath.Join(dir, "clip.wav"), false); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	select {
	case ev := <-fallbacks:
		if ev.Channel != ChannelAudio {
			t.Errorf("Channel = %q, want audio", ev.Channel)
		}
		if ev.Asset != silence {
			t.Errorf("Asset = %q, want %q", ev.Asset, silence)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for fallback event")
	}
}

func TestAudioPlayWhileBusy(t *testing.T) {
	dir := t.TempDir()
	program, argsLog := stubEncoder(t, dir, "first.wav")

	audio := NewAudio(Config{Program: program}, nil, testLogger())
	defer audio.Stop(context.Background())

	if err := audio.Play(filepath.Join(dir, "first.wav"), true); err != nil {
		t.Fatalf("first Play failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		return len(readInvocations(t, argsLog)) >= 1
	})

	err := audio.Play(filepath.Join(dir, "second.wav"), false)
	if !errors.Is(err, supervisor.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	if n := len(readInvocations(t, argsLog)); n != 1 {
		t.Errorf("rejected play must not spawn a process, got %d invocations", n)
	}
}

func TestAudioPlayFromStream(t *testing.T) {
	dir := t.TempDir()
	program, argsLog := stubEncoder(t, dir)

	audio := NewAudio(Config{
		Program:    program,
		SampleRate: 48000,
	}, nil, testLogger())
	defer audio.Stop(context.Background())

	w, err := audio.PlayFromStream()
	if err != nil {
		t.Fatalf("PlayFromStream failed: %v", err)
	}
	if w == nil {
		t.Fatal("expected a stdin writer")
	}

	waitFor(t, 2*time.Second, func() bool {
		return len(readInvocations(t, argsLog)) >= 1
	})
	args := readInvocations(t, argsLog)[0]
	if !strings.Contains(args, "pipe:0") {
		t.Errorf("stream session should read stdin: %q", args)
	}
	if !strings.Contains(args, "48000") {
		t.Errorf("stream session should use the configured sample rate: %q", args)
	}

	if _, err := w.Write(make([]byte, 1024)); err != nil {
		t.Errorf("writing to the stream failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("closing the stream failed: %v", err)
	}
}

func TestAudioPlayFromStreamWhileBusy(t *testing.T) {
	dir := t.TempDir()
	program, argsLog := stubEncoder(t, dir, "clip.wav")

	audio := NewAudio(Config{Program: program}, nil, testLogger())
	defer audio.Stop(context.Background())

	if err := audio.Play(filepath.Join(dir, "clip.wav"), true); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		return len(readInvocations(t, argsLog)) >= 1
	})

	if _, err := audio.PlayFromStream(); !errors.Is(err, supervisor.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
}

func TestAudioStopIdleIsNoop(t *testing.T) {
	dir := t.TempDir()
	program, _ := stubEncoder(t, dir)

	audio := NewAudio(Config{Program: program}, nil, testLogger())
	if err := audio.Stop(context.Background()); err != nil {
		t.Errorf("Stop on idle channel failed: %v", err)
	}
}
