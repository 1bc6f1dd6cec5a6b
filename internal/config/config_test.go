package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// testOptions mirrors the shape of the main Options struct.
type testOptions struct {
	Config string `help:"Config file path"`

	StringField string   `toml:"test.string_field" env:"STRING_FIELD"`
	BoolField   bool     `toml:"test.bool_field" env:"BOOL_FIELD"`
	IntField    int      `toml:"test.int_field" env:"INT_FIELD"`
	SliceField  []string `toml:"test.slice_field" env:"SLICE_FIELD"`

	NestedString string `toml:"nested.value" env:"NESTED_VALUE"`
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeTempConfig(t, `
[test]
string_field = "hello world"
bool_field = true
int_field = 42
slice_field = ["item1", "item2", "item3"]

[nested]
value = "nested value"
`)

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.StringField != "hello world" {
		t.Errorf("StringField = %q, want 'hello world'", opts.StringField)
	}
	if !opts.BoolField {
		t.Errorf("BoolField = %v, want true", opts.BoolField)
	}
	if opts.IntField != 42 {
		t.Errorf("IntField = %d, want 42", opts.IntField)
	}
	if want := []string{"item1", "item2", "item3"}; !reflect.DeepEqual(opts.SliceField, want) {
		t.Errorf("SliceField = %v, want %v", opts.SliceField, want)
	}
	if opts.NestedString != "nested value" {
		t.Errorf("NestedString = %q, want 'nested value'", opts.NestedString)
	}
}

func TestLoadConfigFromEnvVars(t *testing.T) {
	t.Setenv("MEDIAFEED_STRING_FIELD", "env string")
	t.Setenv("MEDIAFEED_BOOL_FIELD", "true")
	t.Setenv("MEDIAFEED_INT_FIELD", "123")
	t.Setenv("MEDIAFEED_SLICE_FIELD", "a,b,c")
	t.Setenv("MEDIAFEED_NESTED_VALUE", "env nested")

	opts := &testOptions{}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.StringField != "env string" {
		t.Errorf("StringField = %q, want 'env string'", opts.StringField)
	}
	if !opts.BoolField {
		t.Errorf("BoolField = %v, want true", opts.BoolField)
	}
	if opts.IntField != 123 {
		t.Errorf("IntField = %d, want 123", opts.IntField)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(opts.SliceField, want) {
		t.Errorf("SliceField = %v, want %v", opts.SliceField, want)
	}
	if opts.NestedString != "env nested" {
		t.Errorf("NestedString = %q, want 'env nested'", opts.NestedString)
	}
}

func TestLoadConfigEnvOverridesToml(t *testing.T) {
	path := writeTempConfig(t, `
[test]
string_field = "toml value"
int_field = 100
slice_field = ["toml1", "toml2"]
`)

	t.Setenv("MEDIAFEED_STRING_FIELD", "env override")

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.StringField != "env override" {
		t.Errorf("StringField = %q, want env override", opts.StringField)
	}
	// TOML values survive where no env override exists
	if opts.IntField != 100 {
		t.Errorf("IntField = %d, want 100", opts.IntField)
	}
	if want := []string{"toml1", "toml2"}; !reflect.DeepEqual(opts.SliceField, want) {
		t.Errorf("SliceField = %v, want %v", opts.SliceField, want)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := &testOptions{Config: "nonexistent_file.toml"}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig should tolerate a missing file: %v", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeTempConfig(t, "[test\ninvalid toml syntax\n")

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err == nil {
		t.Fatal("LoadConfig should fail for invalid TOML")
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"channels": map[string]any{
			"audio": map[string]any{
				"sink": "virtual_mic",
			},
			"video_device": "/dev/video10",
		},
		"port": int64(8080),
	}

	tests := []struct {
		path string
		want any
	}{
		{"port", int64(8080)},
		{"channels.video_device", "/dev/video10"},
		{"channels.audio.sink", "virtual_mic"},
		{"nonexistent", nil},
		{"channels.nonexistent", nil},
	}

	for _, tt := range tests {
		if got := getNestedValue(data, tt.path); got != tt.want {
			t.Errorf("getNestedValue(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeTempConfig(t, `
[logging]
level = "info"
format = "json"
supervisor = "debug"
ffmpeg = "warn"
api = "error"
`)

	cfg := LoadLoggingConfig(path)

	if cfg.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	want := map[string]string{
		"supervisor": "debug",
		"ffmpeg":     "warn",
		"api":        "error",
	}
	if !reflect.DeepEqual(cfg.Modules, want) {
		t.Errorf("Modules = %v, want %v", cfg.Modules, want)
	}
}

func TestLoadLoggingConfigMissingFile(t *testing.T) {
	cfg := LoadLoggingConfig("/does/not/exist.toml")
	if cfg.Level != "info" || cfg.Format != "text" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadPlaybackSettings(t *testing.T) {
	path := writeTempConfig(t, `
[channels]
program = "/usr/local/bin/ffmpeg"
audio_sink = "meeting_mic"
video_device = "/dev/video20"
sample_rate = 48000
frame_rate = 25
silence_asset = "/opt/assets/silence.wav"
branding_asset = "/opt/assets/branding.mjpeg"
`)

	settings, err := LoadPlaybackSettings(path)
	if err != nil {
		t.Fatalf("LoadPlaybackSettings failed: %v", err)
	}

	if settings.Program != "/usr/local/bin/ffmpeg" {
		t.Errorf("Program = %q", settings.Program)
	}
	if settings.AudioSink != "meeting_mic" {
		t.Errorf("AudioSink = %q", settings.AudioSink)
	}
	if settings.VideoDevice != "/dev/video20" {
		t.Errorf("VideoDevice = %q", settings.VideoDevice)
	}
	if settings.SampleRate != 48000 {
		t.Errorf("SampleRate = %d", settings.SampleRate)
	}
	if settings.FrameRate != 25 {
		t.Errorf("FrameRate = %d", settings.FrameRate)
	}
}

func TestLoadPlaybackSettingsMissingFile(t *testing.T) {
	settings, err := LoadPlaybackSettings("/does/not/exist.toml")
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if settings != (PlaybackSettings{}) {
		t.Errorf("expected zero settings, got %+v", settings)
	}
}

func TestLoadPlaybackSettingsInvalidTOML(t *testing.T) {
	path := writeTempConfig(t, "invalid toml [[[")
	if _, err := LoadPlaybackSettings(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Port", "port"},
		{"SampleRate", "sample-rate"},
		{"VideoDevice", "video-device"},
	}
	for _, tt := range tests {
		if got := fieldNameToFlag(tt.in); got != tt.want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
