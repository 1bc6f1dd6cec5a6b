package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// PlaybackSettings mirrors the [channels] table of the config file. Zero
// fields fall back to the channel defaults at construction time.
type PlaybackSettings struct {
	Program       string `toml:"program" json:"program"`
	AudioSink     string `toml:"audio_sink" json:"audio_sink"`
	VideoDevice   string `toml:"video_device" json:"video_device"`
	SampleRate    int    `toml:"sample_rate" json:"sample_rate"`
	FrameRate     int    `toml:"frame_rate" json:"frame_rate"`
	SilenceAsset  string `toml:"silence_asset" json:"silence_asset"`
	BrandingAsset string `toml:"branding_asset" json:"branding_asset"`
}

// LoadPlaybackSettings reads the [channels] table from a TOML config file.
// A missing file yields zero settings without error; a malformed file is
// reported so config watchers can surface it.
func LoadPlaybackSettings(path string) (PlaybackSettings, error) {
	var settings PlaybackSettings

	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read config: %w", err)
	}

	var raw struct {
		Channels PlaybackSettings `toml:"channels"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return settings, fmt.Errorf("failed to parse config: %w", err)
	}

	return raw.Channels, nil
}
