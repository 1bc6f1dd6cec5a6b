package channels

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/mediafeed/mediafeed/internal/events"
	"github.com/mediafeed/mediafeed/internal/ffmpeg"
	"github.com/mediafeed/mediafeed/internal/logging"
	"github.com/mediafeed/mediafeed/internal/supervisor"
)

// Video feeds the virtual camera. After any clip finishes cleanly it loops
// the branding asset so the camera never goes dark.
type Video struct {
	sup       *supervisor.Supervisor
	device    string
	frameRate int
	branding  string
	bus       *events.Bus
	logger    *slog.Logger
}

// NewVideo creates the video channel controller. Construct it once at
// startup and pass it to consumers explicitly.
func NewVideo(cfg Config, bus *events.Bus, logger *slog.Logger) *Video {
	cfg = cfg.merge()

	sup := supervisor.New(ChannelVideo, cfg.Program, logger)
	sup.SetLogParser(logging.GetLogger("ffmpeg"), ffmpeg.ParseLogLevel)
	sup.SetLineFilter(ffmpeg.IsProgressLine)

	return &Video{
		sup:       sup,
		device:    cfg.VideoDevice,
		frameRate: cfg.FrameRate,
		branding:  cfg.BrandingAsset,
		bus:       bus,
		logger:    logger,
	}
}

// Supervisor exposes the underlying process supervisor for status and wiring.
func (v *Video) Supervisor() *supervisor.Supervisor {
	return v.sup
}

// Info returns a snapshot of the channel's process state.
func (v *Video) Info() supervisor.Info {
	return v.sup.Info()
}

// Play starts real-time playback of a video file into the virtual camera.
// The file must exist locally: a missing file is logged and dropped without
// spawning a process or surfacing an error. A play request while a process
// is active returns supervisor.ErrBusy.
func (v *Video) Play(path string, loop bool) error {
	if _, err := os.Stat(path); err != nil {
		v.logger.Warn("Video file does not exist, ignoring play", "path", path)
		return nil
	}

	args := ffmpeg.BuildVideoArgs(ffmpeg.VideoParams{
		InputPath: path,
		Loop:      loop,
		FPS:       v.frameRate,
		Width:     frameWidth,
		Height:    frameHeight,
		Device:    v.device,
	})

	_, err := v.sup.Execute(args, v.fallbackToBranding)
	if err != nil {
		if errors.Is(err, supervisor.ErrBusy) {
			v.logger.Warn("Video play rejected, channel busy", "path", path)
		} else {
			v.logger.Error("Video play failed", "path", path, "error", err)
		}
		return err
	}

	v.logger.Info("Video playback started", "path", path, "loop", loop)
	v.publish(events.PlaybackStartedEvent{
		Channel:   ChannelVideo,
		Path:      path,
		Loop:      loop,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return nil
}

// Stop terminates the current playback, if any.
func (v *Video) Stop(ctx context.Context) error {
	err := v.sup.Stop(ctx)
	v.publish(events.PlaybackStoppedEvent{
		Channel:   ChannelVideo,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return err
}

// fallbackToBranding runs after a clean encoder exit and loops the branding
// asset so the camera keeps producing frames without further commands.
func (v *Video) fallbackToBranding() {
	v.logger.Info("Video clip finished, falling back to branding loop", "asset", v.branding)
	v.publish(events.FallbackEngagedEvent{
		Channel:   ChannelVideo,
		Asset:     v.branding,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err := v.Play(v.branding, true); err != nil {
		v.logger.Error("Failed to start branding fallback", "error", err)
	}
}

func (v *Video) publish(ev events.Event) {
	if v.bus != nil {
		v.bus.Publish(ev)
	}
}
