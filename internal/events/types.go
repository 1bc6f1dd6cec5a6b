package events

// Event type constants for kelindar/event.
const (
	TypePlaybackStarted uint32 = iota + 1
	TypePlaybackStopped
	TypeFallbackEngaged
	TypeChannelStateChanged
	TypeUploadCompleted
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// PlaybackStartedEvent is published when an encoder process starts feeding
// a virtual device.
type PlaybackStartedEvent struct {
	Channel   string `json:"channel" example:"audio" doc:"Channel name: audio or video"`
	Path      string `json:"path" example:"intro.mp3" doc:"Media file path, or pipe:0 for stream-fed sessions"`
	Loop      bool   `json:"loop" doc:"Whether playback loops indefinitely"`
	Timestamp string `json:"timestamp" example:"2026-08-29T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PlaybackStartedEvent.
func (e PlaybackStartedEvent) Type() uint32 { return TypePlaybackStarted }

// PlaybackStoppedEvent is published after an explicit stop request.
type PlaybackStoppedEvent struct {
	Channel   string `json:"channel" example:"video" doc:"Channel name"`
	Timestamp string `json:"timestamp" doc:"Event timestamp"`
}

// Type returns the event type identifier for PlaybackStoppedEvent.
func (e PlaybackStoppedEvent) Type() uint32 { return TypePlaybackStopped }

// FallbackEngagedEvent is published when a finite clip finished and the
// channel reverted to its default asset.
type FallbackEngagedEvent struct {
	Channel   string `json:"channel" doc:"Channel name"`
	Asset     string `json:"asset" example:"assets/silence.wav" doc:"Fallback asset path"`
	Timestamp string `json:"timestamp" doc:"Event timestamp"`
}

// Type returns the event type identifier for FallbackEngagedEvent.
func (e FallbackEngagedEvent) Type() uint32 { return TypeFallbackEngaged }

// ChannelStateChangedEvent mirrors supervisor state transitions.
type ChannelStateChangedEvent struct {
	Channel   string `json:"channel" doc:"Channel name"`
	OldState  string `json:"old_state" example:"running" doc:"Previous state"`
	NewState  string `json:"new_state" example:"idle" doc:"New state"`
	Timestamp string `json:"timestamp" doc:"Event timestamp"`
}

// Type returns the event type identifier for ChannelStateChangedEvent.
func (e ChannelStateChangedEvent) Type() uint32 { return TypeChannelStateChanged }

// UploadCompletedEvent is published after a recording upload finishes.
type UploadCompletedEvent struct {
	Bucket    string `json:"bucket" doc:"Destination bucket"`
	Key       string `json:"key" doc:"Object key or key prefix"`
	URL       string `json:"url" doc:"Public URL of the uploaded object"`
	Timestamp string `json:"timestamp" doc:"Event timestamp"`
}

// Type returns the event type identifier for UploadCompletedEvent.
func (e UploadCompletedEvent) Type() uint32 { return TypeUploadCompleted }
