// Package ffmpeg builds encoder invocations and interprets their output.
package ffmpeg

import (
	"fmt"
	"strconv"
)

// AudioParams describes an audio playback session targeting a pulse sink.
type AudioParams struct {
	InputPath  string // media file path; unused for stream-fed sessions
	Loop       bool
	SampleRate int // raw input sample rate for stream-fed sessions
	Sink       string
}

// VideoParams describes a video playback session targeting a v4l2 device.
type VideoParams struct {
	InputPath string
	Loop      bool
	FPS       int
	Width     int
	Height    int
	Device    string
}

// BuildAudioArgs builds the argument list for real-time playback of an
// audio file into a PulseAudio sink.
func BuildAudioArgs(p AudioParams) []string {
	args := []string{"-re"}
	if p.Loop {
		args = append(args, "-stream_loop", "-1")
	}
	args = append(args,
		"-i", p.InputPath,
		"-f", "pulse",
		"-ac", "1",
		"-acodec", "pcm_s16le",
		p.Sink,
	)
	return args
}

// BuildAudioStreamArgs builds the argument list for a session that reads
// raw float PCM (mono) from stdin and writes it to a PulseAudio sink.
func BuildAudioStreamArgs(p AudioParams) []string {
	return []string{
		"-f", "f32le",
		"-ar", strconv.Itoa(p.SampleRate),
		"-ac", "1",
		"-i", "pipe:0",
		"-f", "pulse",
		"-ac", "1",
		"-acodec", "pcm_s16le",
		p.Sink,
	}
}

// BuildVideoArgs builds the argument list for real-time playback of a
// video file into a v4l2 loopback device.
func BuildVideoArgs(p VideoParams) []string {
	args := []string{"-re"}
	if p.Loop {
		args = append(args, "-stream_loop", "-1")
	}
	args = append(args,
		"-i", p.InputPath,
		"-f", "v4l2",
		"-vcodec", "mjpeg",
		"-q:v", "4",
		"-s", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-r", strconv.Itoa(p.FPS),
		"-threads", "0",
		p.Device,
	)
	return args
}
