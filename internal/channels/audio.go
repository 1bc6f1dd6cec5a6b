package channels

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mediafeed/mediafeed/internal/events"
	"github.com/mediafeed/mediafeed/internal/ffmpeg"
	"github.com/mediafeed/mediafeed/internal/logging"
	"github.com/mediafeed/mediafeed/internal/supervisor"
)

// Audio feeds the virtual microphone. It supervises one encoder process at
// a time and falls back to the silence asset whenever a finite clip ends,
// so the microphone never goes silent in an undefined way.
type Audio struct {
	sup        *supervisor.Supervisor
	sink       string
	sampleRate int
	silence    string
	bus        *events.Bus
	logger     *slog.Logger
}

// NewAudio creates the audio channel controller. Construct it once at
// startup and pass it to consumers explicitly.
func NewAudio(cfg Config, bus *events.Bus, logger *slog.Logger) *Audio {
	cfg = cfg.merge()

	sup := supervisor.New(ChannelAudio, cfg.Program, logger)
	sup.SetLogParser(logging.GetLogger("ffmpeg"), ffmpeg.ParseLogLevel)
	sup.SetLineFilter(ffmpeg.IsProgressLine)

	return &Audio{
		sup:        sup,
		sink:       cfg.AudioSink,
		sampleRate: cfg.SampleRate,
		silence:    cfg.SilenceAsset,
		bus:        bus,
		logger:     logger,
	}
}

// Supervisor exposes the underlying process supervisor for status and wiring.
func (a *Audio) Supervisor() *supervisor.Supervisor {
	return a.sup
}

// Info returns a snapshot of the channel's process state.
func (a *Audio) Info() supervisor.Info {
	return a.sup.Info()
}

// Play starts real-time playback of an audio file into the virtual
// microphone. When a non-looping clip finishes cleanly the controller
// automatically plays the silence asset. A play request while a process is
// active returns supervisor.ErrBusy and leaves the running process alone.
func (a *Audio) Play(path string, loop bool) error {
	args := ffmpeg.BuildAudioArgs(ffmpeg.AudioParams{
		InputPath: path,
		Loop:      loop,
		Sink:      a.sink,
	})

	_, err := a.sup.Execute(args, a.fallbackToSilence)
	if err != nil {
		if errors.Is(err, supervisor.ErrBusy) {
			a.logger.Warn("Audio play rejected, channel busy", "path", path)
		} else {
			a.logger.Error("Audio play failed", "path", path, "error", err)
		}
		return err
	}

	a.logger.Info("Audio playback started", "path", path, "loop", loop)
	a.publish(events.PlaybackStartedEvent{
		Channel:   ChannelAudio,
		Path:      path,
		Loop:      loop,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return nil
}

// PlayFromStream starts an encoder that reads raw float PCM (mono, at the
// configured sample rate) from its stdin and writes it to the virtual
// microphone. The returned writer is the encoder's input stream; the caller
// owns the session lifetime, so no fallback is scheduled on exit.
func (a *Audio) PlayFromStream() (io.WriteCloser, error) {
	args := ffmpeg.BuildAudioStreamArgs(ffmpeg.AudioParams{
		SampleRate: a.sampleRate,
		Sink:       a.sink,
	})

	handle, err := a.sup.Execute(args, func() {
		a.logger.Info("Stream-fed audio session finished")
	})
	if err != nil {
		a.logger.Error("Audio stream session failed to start", "error", err)
		return nil, err
	}

	a.logger.Info("Audio stream session started", "sample_rate", a.sampleRate)
	a.publish(events.PlaybackStartedEvent{
		Channel:   ChannelAudio,
		Path:      "pipe:0",
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return handle.Stdin, nil
}

// Stop terminates the current playback, if any.
func (a *Audio) Stop(ctx context.Context) error {
	err := a.sup.Stop(ctx)
	a.publish(events.PlaybackStoppedEvent{
		Channel:   ChannelAudio,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return err
}

// fallbackToSilence runs after a clean encoder exit. The supervisor clears
// its slot before invoking it, so the re-entrant Play below starts the next
// process. Silence is played non-looping: its own clean exit re-enters here,
// keeping the microphone fed indefinitely.
func (a *Audio) fallbackToSilence() {
	a.logger.Info("Audio clip finished, falling back to silence", "asset", a.silence)
	a.publish(events.FallbackEngagedEvent{
		Channel:   ChannelAudio,
		Asset:     a.silence,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err := a.Play(a.silence, false); err != nil {
		a.logger.Error("Failed to start silence fallback", "error", err)
	}
}

func (a *Audio) publish(ev events.Event) {
	if a.bus != nil {
		a.bus.Publish(ev)
	}
}
