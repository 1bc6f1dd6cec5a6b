package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mediafeed/mediafeed/cmd"
	"github.com/mediafeed/mediafeed/internal/api"
	"github.com/mediafeed/mediafeed/internal/channels"
	"github.com/mediafeed/mediafeed/internal/config"
	"github.com/mediafeed/mediafeed/internal/events"
	"github.com/mediafeed/mediafeed/internal/logging"
	"github.com/mediafeed/mediafeed/internal/metrics"
	"github.com/mediafeed/mediafeed/internal/supervisor"
	"github.com/mediafeed/mediafeed/internal/upload"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8080" toml:"server.port" env:"SERVER_PORT"`

	// Channel settings
	Program       string `help:"Encoder binary to spawn" default:"ffmpeg" toml:"channels.program" env:"CHANNELS_PROGRAM"`
	AudioSink     string `help:"PulseAudio sink of the virtual microphone" default:"virtual_mic" toml:"channels.audio_sink" env:"CHANNELS_AUDIO_SINK"`
	VideoDevice   string `help:"v4l2 loopback device of the virtual camera" default:"/dev/video10" toml:"channels.video_device" env:"CHANNELS_VIDEO_DEVICE"`
	SampleRate    int    `help:"Sample rate for stream-fed audio" default:"16000" toml:"channels.sample_rate" env:"CHANNELS_SAMPLE_RATE"`
	FrameRate     int    `help:"Video playback frame rate" default:"30" toml:"channels.frame_rate" env:"CHANNELS_FRAME_RATE"`
	SilenceAsset  string `help:"Audio fallback asset" default:"assets/silence.wav" toml:"channels.silence_asset" env:"CHANNELS_SILENCE_ASSET"`
	BrandingAsset string `help:"Video fallback asset" default:"assets/branding.mjpeg" toml:"channels.branding_asset" env:"CHANNELS_BRANDING_ASSET"`

	// Upload settings
	UploadServerless bool `help:"Skip S3 uploads, resolving to empty URLs" default:"false" toml:"upload.serverless" env:"UPLOAD_SERVERLESS"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel      string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat     string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingChannels   string `help:"Channel controllers logging level" default:"info" toml:"logging.channels" env:"LOGGING_CHANNELS"`
	LoggingSupervisor string `help:"Process supervisor logging level" default:"info" toml:"logging.supervisor" env:"LOGGING_SUPERVISOR"`
	LoggingFFmpeg     string `help:"Encoder output logging level" default:"info" toml:"logging.ffmpeg" env:"LOGGING_FFMPEG"`
	LoggingAPI        string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP       string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"channels":   opts.LoggingChannels,
				"supervisor": opts.LoggingSupervisor,
				"ffmpeg":     opts.LoggingFFmpeg,
				"api":        opts.LoggingAPI,
				"http":       opts.LoggingHTTP,
			},
		})

		logger := logging.GetLogger("main")

		// Event bus feeds metrics and any future consumers
		eventBus := events.New()
		recorder := metrics.NewRecorder(eventBus)

		channelConfig := channels.Config{
			Program:       opts.Program,
			AudioSink:     opts.AudioSink,
			VideoDevice:   opts.VideoDevice,
			SampleRate:    opts.SampleRate,
			FrameRate:     opts.FrameRate,
			SilenceAsset:  opts.SilenceAsset,
			BrandingAsset: opts.BrandingAsset,
		}

		audio := channels.NewAudio(channelConfig, eventBus, logging.GetLogger("channels"))
		video := channels.NewVideo(channelConfig, eventBus, logging.GetLogger("channels"))

		// Mirror supervisor transitions onto the bus
		stateListener := func(channel string, oldState, newState supervisor.State) {
			eventBus.Publish(events.ChannelStateChangedEvent{
				Channel:   channel,
				OldState:  string(oldState),
				NewState:  string(newState),
				Timestamp: time.Now().Format(time.RFC3339),
			})
		}
		audio.Supervisor().SetStateListener(stateListener)
		video.Supervisor().SetStateListener(stateListener)

		uploader, uploadErr := upload.New(opts.UploadServerless, eventBus, logging.GetLogger("upload"))
		if uploadErr != nil {
			logger.Warn("Uploads disabled, AWS session unavailable", "error", uploadErr)
			uploader = nil
		}

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Audio:             audio,
			Video:             video,
			Uploader:          uploader,
			PrometheusHandler: promhttp.Handler(),
		})

		hooks.OnStart(func() {
			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			// Tear down encoder processes after the HTTP surface closes
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if stopErr := audio.Stop(ctx); stopErr != nil {
				logger.Error("Error stopping audio channel", "error", stopErr)
			}
			if stopErr := video.Stop(ctx); stopErr != nil {
				logger.Error("Error stopping video channel", "error", stopErr)
			}

			recorder.Close()
		})
	})

	cli.Root().Use = "mediafeed"
	cli.Root().AddCommand(cmd.CreatePlayCmd())
	cli.Root().AddCommand(cmd.CreateUploadCmd())

	cli.Run()
}
