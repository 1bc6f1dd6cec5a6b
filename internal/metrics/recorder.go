package metrics

import (
	"github.com/mediafeed/mediafeed/internal/events"
	"github.com/mediafeed/mediafeed/internal/supervisor"
)

// Recorder keeps channel metrics in sync with bus events.
type Recorder struct {
	unsubs []func()
}

// NewRecorder subscribes to the event bus and updates Prometheus metrics.
func NewRecorder(bus *events.Bus) *Recorder {
	r := &Recorder{}

	r.unsubs = append(r.unsubs, bus.Subscribe(func(e events.PlaybackStartedEvent) {
		IncPlaybacks(e.Channel)
	}))

	r.unsubs = append(r.unsubs, bus.Subscribe(func(e events.FallbackEngagedEvent) {
		IncFallbacks(e.Channel)
	}))

	r.unsubs = append(r.unsubs, bus.Subscribe(func(e events.ChannelStateChangedEvent) {
		SetChannelRunning(e.Channel, e.NewState == string(supervisor.StateRunning))
		if e.NewState == string(supervisor.StateFailed) {
			IncFailures(e.Channel)
		}
	}))

	r.unsubs = append(r.unsubs, bus.Subscribe(func(_ events.UploadCompletedEvent) {
		IncUploads()
	}))

	return r
}

// Close removes all bus subscriptions.
func (r *Recorder) Close() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}
