// Package cmd holds the cobra subcommands.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mediafeed/mediafeed/internal/channels"
	"github.com/mediafeed/mediafeed/internal/config"
	"github.com/mediafeed/mediafeed/internal/events"
	"github.com/mediafeed/mediafeed/internal/logging"
)

// controller is the common surface of both channel controllers.
type controller interface {
	Play(path string, loop bool) error
	Stop(ctx context.Context) error
}

// settingsToChannelConfig maps file settings onto the channel config.
func settingsToChannelConfig(s config.PlaybackSettings) channels.Config {
	return channels.Config{
		Program:       s.Program,
		AudioSink:     s.AudioSink,
		VideoDevice:   s.VideoDevice,
		SampleRate:    s.SampleRate,
		FrameRate:     s.FrameRate,
		SilenceAsset:  s.SilenceAsset,
		BrandingAsset: s.BrandingAsset,
	}
}

// CreatePlayCmd creates the play command: standalone playback of one file
// into a virtual device, with config hot-reload.
func CreatePlayCmd() *cobra.Command {
	var configFile string
	var channelName string
	var loop bool
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Play a media file into a virtual device",
		Long: `Supervises a single encoder process that feeds the given file into the ` +
			`virtual microphone or camera. Runs until interrupted; when the clip ` +
			`finishes the channel falls back to its default asset. Configuration ` +
			`changes restart playback with the new settings.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			path := args[0]

			loggingConfig := logging.Config{
				Level:  "info",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("play").With("channel", channelName)

			settings, err := config.LoadPlaybackSettings(configFile)
			if err != nil {
				logger.Error("Failed to load config", "error", err, "config", configFile)
				os.Exit(1)
			}

			bus := events.New()

			newController := func(s config.PlaybackSettings) (controller, error) {
				cfg := settingsToChannelConfig(s)
				switch channelName {
				case channels.ChannelVideo:
					return channels.NewVideo(cfg, bus, logger), nil
				case channels.ChannelAudio:
					return channels.NewAudio(cfg, bus, logger), nil
				default:
					return nil, os.ErrInvalid
				}
			}

			var mu sync.Mutex
			active, err := newController(settings)
			if err != nil {
				logger.Error("Unknown channel", "channel", channelName)
				os.Exit(1)
			}

			if playErr := active.Play(path, loop); playErr != nil {
				logger.Error("Failed to start playback", "error", playErr)
				os.Exit(1)
			}

			watcher := config.NewConfigWatcher(
				configFile,
				config.LoadPlaybackSettings,
				logger,
				config.WithDebounce[config.PlaybackSettings](1500*time.Millisecond),
			)
			watcher.OnReload(func(s config.PlaybackSettings) {
				mu.Lock()
				defer mu.Unlock()

				if s == settings {
					logger.Debug("Config reloaded, settings unchanged")
					return
				}
				logger.Info("Settings changed, restarting playback")

				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if stopErr := active.Stop(ctx); stopErr != nil {
					logger.Warn("Failed to stop playback for restart", "error", stopErr)
					return
				}

				settings = s
				active, _ = newController(settings)
				if playErr := active.Play(path, loop); playErr != nil {
					logger.Error("Failed to restart playback", "error", playErr)
				}
			})

			// Hot-reload is best effort
			if watchErr := watcher.Start(); watchErr != nil {
				logger.Warn("Failed to start config watcher, hot-reload disabled", "error", watchErr)
			} else {
				defer func() { _ = watcher.Stop() }()
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			logger.Info("Shutting down playback")
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			mu.Lock()
			current := active
			mu.Unlock()
			if stopErr := current.Stop(ctx); stopErr != nil {
				logger.Error("Failed to stop playback", "error", stopErr)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "config.toml", "Path to configuration file")
	cmd.Flags().StringVar(&channelName, "channel", channels.ChannelAudio, "Target channel: audio or video")
	cmd.Flags().BoolVar(&loop, "loop", false, "Loop playback indefinitely")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Use JSON log format")

	return cmd
}
