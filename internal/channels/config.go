// Package channels drives the virtual microphone and camera feeds, one
// supervised encoder process per channel with automatic fallback assets.
package channels

// Channel names used across events, metrics, and the API.
const (
	ChannelAudio = "audio"
	ChannelVideo = "video"
)

// Fixed output geometry for the virtual camera.
const (
	frameWidth  = 1280
	frameHeight = 720
)

// Defaults for channel configuration; all overridable via config/env.
const (
	DefaultProgram     = "ffmpeg"
	DefaultAudioSink   = "virtual_mic"
	DefaultVideoDevice = "/dev/video10"
	DefaultSampleRate  = 16000
	DefaultFrameRate   = 30

	// Bundled fallback assets, resolved relative to the working directory.
	DefaultSilenceAsset  = "assets/silence.wav"
	DefaultBrandingAsset = "assets/branding.mjpeg"
)

// Config holds channel-specific settings shared by both controllers.
type Config struct {
	// Program is the encoder binary to spawn.
	Program string
	// AudioSink is the PulseAudio sink name of the virtual microphone.
	AudioSink string
	// VideoDevice is the v4l2 loopback device path of the virtual camera.
	VideoDevice string
	// SampleRate for stream-fed audio sessions (raw f32le mono).
	SampleRate int
	// FrameRate for video playback.
	FrameRate int
	// SilenceAsset is played on the audio channel after a finite clip ends.
	SilenceAsset string
	// BrandingAsset is looped on the video channel after a clip ends.
	BrandingAsset string
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() Config {
	return Config{
		Program:       DefaultProgram,
		AudioSink:     DefaultAudioSink,
		VideoDevice:   DefaultVideoDevice,
		SampleRate:    DefaultSampleRate,
		FrameRate:     DefaultFrameRate,
		SilenceAsset:  DefaultSilenceAsset,
		BrandingAsset: DefaultBrandingAsset,
	}
}

// merge fills zero-valued fields from the defaults.
func (c Config) merge() Config {
	d := DefaultConfig()
	if c.Program == "" {
		c.Program = d.Program
	}
	if c.AudioSink == "" {
		c.AudioSink = d.AudioSink
	}
	if c.VideoDevice == "" {
		c.VideoDevice = d.VideoDevice
	}
	if c.SampleRate == 0 {
		c.SampleRate = d.SampleRate
	}
	if c.FrameRate == 0 {
		c.FrameRate = d.FrameRate
	}
	if c.SilenceAsset == "" {
		c.SilenceAsset = d.SilenceAsset
	}
	if c.BrandingAsset == "" {
		c.BrandingAsset = d.BrandingAsset
	}
	return c
}
