// Package metrics provides Prometheus metrics for the media channels.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	channelRunning = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "mediafeed",
		Subsystem: "channel",
		Name:      "running",
		Help:      "Whether an encoder process is active for the channel (1 or 0)",
	}, []string{"channel"})

	playbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediafeed",
		Subsystem: "channel",
		Name:      "playbacks_total",
		Help:      "Total playback sessions started",
	}, []string{"channel"})

	fallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediafeed",
		Subsystem: "channel",
		Name:      "fallbacks_total",
		Help:      "Total automatic fallbacks to the default asset",
	}, []string{"channel"})

	failuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediafeed",
		Subsystem: "channel",
		Name:      "failures_total",
		Help:      "Total encoder crashes or abnormal exits",
	}, []string{"channel"})

	uploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mediafeed",
		Subsystem: "upload",
		Name:      "completed_total",
		Help:      "Total completed recording uploads",
	})
)

// SetChannelRunning records whether a channel has an active encoder.
func SetChannelRunning(channel string, running bool) {
	v := 0.0
	if running {
		v = 1.0
	}
	channelRunning.WithLabelValues(channel).Set(v)
}

// IncPlaybacks counts a started playback session.
func IncPlaybacks(channel string) {
	playbacksTotal.WithLabelValues(channel).Inc()
}

// IncFallbacks counts an automatic fallback to the default asset.
func IncFallbacks(channel string) {
	fallbacksTotal.WithLabelValues(channel).Inc()
}

// IncFailures counts an encoder crash or abnormal exit.
func IncFailures(channel string) {
	failuresTotal.WithLabelValues(channel).Inc()
}

// IncUploads counts a completed upload.
func IncUploads() {
	uploadsTotal.Inc()
}
