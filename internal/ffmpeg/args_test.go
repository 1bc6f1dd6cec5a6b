package ffmpeg

import (
	"reflect"
	"slices"
	"testing"
)

func TestBuildAudioArgs(t *testing.T) {
	tests := []struct {
		name string
		p    AudioParams
		want []string
	}{
		{
			name: "finite clip",
			p:    AudioParams{InputPath: "intro.mp3", Sink: "virtual_mic"},
			want: []string{"-re", "-i", "intro.mp3", "-f", "pulse", "-ac", "1", "-acodec", "pcm_s16le", "virtual_mic"},
		},
		{
			name: "looping clip",
			p:    AudioParams{InputPath: "music.mp3", Loop: true, Sink: "virtual_mic"},
			want: []string{"-re", "-stream_loop", "-1", "-i", "music.mp3", "-f", "pulse", "-ac", "1", "-acodec", "pcm_s16le", "virtual_mic"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildAudioArgs(tt.p); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildAudioArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildAudioStreamArgs(t *testing.T) {
	got := BuildAudioStreamArgs(AudioParams{SampleRate: 16000, Sink: "virtual_mic"})

	want := []string{
		"-f", "f32le", "-ar", "16000", "-ac", "1", "-i", "pipe:0",
		"-f", "pulse", "-ac", "1", "-acodec", "pcm_s16le", "virtual_mic",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildAudioStreamArgs() = %v, want %v", got, want)
	}
}

func TestBuildVideoArgs(t *testing.T) {
	p := VideoParams{
		InputPath: "clip.mp4",
		Loop:      true,
		FPS:       30,
		Width:     1280,
		Height:    720,
		Device:    "/dev/video10",
	}
	got := BuildVideoArgs(p)

	if got[0] != "-re" {
		t.Errorf("expected real-time pacing flag first, got %v", got[0])
	}
	if got[len(got)-1] != "/dev/video10" {
		t.Errorf("expected device target last, got %v", got[len(got)-1])
	}
	if !slices.Contains(got, "-stream_loop") {
		t.Error("expected loop flag for looping playback")
	}
	if !slices.Contains(got, "1280x720") {
		t.Error("expected 1280x720 frame geometry")
	}
	if !slices.Contains(got, "mjpeg") {
		t.Error("expected mjpeg codec")
	}

	// Non-looping clip omits the loop flag pair.
	p.Loop = false
	if got := BuildVideoArgs(p); slices.Contains(got, "-stream_loop") {
		t.Error("unexpected loop flag for non-looping playback")
	}
}
