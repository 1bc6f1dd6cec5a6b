// Package models defines the API request and response shapes.
package models

import (
	"github.com/mediafeed/mediafeed/internal/version"
)

// HealthData reports service liveness.
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

// HealthResponse wraps HealthData.
type HealthResponse struct {
	Body HealthData
}

// VersionResponse wraps build metadata.
type VersionResponse struct {
	Body version.Info
}

// ChannelData is a snapshot of one channel's supervised process.
type ChannelData struct {
	Channel   string `json:"channel" example:"audio" doc:"Channel name: audio or video"`
	State     string `json:"state" example:"running" doc:"Process state: idle, starting, running, stopping, failed"`
	PID       int    `json:"pid,omitempty" example:"12345" doc:"Encoder process ID, 0 when idle"`
	StartedAt string `json:"started_at,omitempty" example:"2026-08-29T10:30:00Z" doc:"When the current process started"`
	LastError string `json:"last_error,omitempty" doc:"Last abnormal exit, if any"`
}

// ChannelListData lists all channels.
type ChannelListData struct {
	Channels []ChannelData `json:"channels" doc:"Channel snapshots"`
	Count    int           `json:"count" example:"2" doc:"Number of channels"`
}

// ChannelListResponse wraps ChannelListData.
type ChannelListResponse struct {
	Body ChannelListData
}

// PlayRequest starts playback on a channel.
type PlayRequest struct {
	Channel string `path:"channel" enum:"audio,video" doc:"Channel name"`
	Body    struct {
		Path string `json:"path" example:"intro.mp3" doc:"Media file path on the node"`
		Loop bool   `json:"loop,omitempty" doc:"Loop playback indefinitely"`
	}
}

// ChannelResponse wraps a single channel snapshot.
type ChannelResponse struct {
	Body ChannelData
}

// StopRequest stops playback on a channel.
type StopRequest struct {
	Channel string `path:"channel" enum:"audio,video" doc:"Channel name"`
}

// LogEntryData is one buffered log line.
type LogEntryData struct {
	Timestamp  string         `json:"timestamp" doc:"Entry timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"supervisor" doc:"Module that emitted the entry"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured attributes"`
}

// LogsData lists recent log entries.
type LogsData struct {
	Entries []LogEntryData `json:"entries" doc:"Recent log entries, oldest first"`
	Count   int            `json:"count" doc:"Number of entries"`
}

// LogsResponse wraps LogsData.
type LogsResponse struct {
	Body LogsData
}

// UploadRequest pushes a recording artifact to S3.
type UploadRequest struct {
	Body struct {
		Path      string `json:"path" example:"/var/lib/mediafeed/recordings/call.mp4" doc:"Local file or directory"`
		Bucket    string `json:"bucket" example:"recordings" doc:"Destination bucket"`
		Key       string `json:"key" example:"meet/2026/call.mp4" doc:"Object key, or key prefix for directories"`
		Recursive bool   `json:"recursive,omitempty" doc:"Upload a directory tree"`
	}
}

// UploadData reports where an artifact landed.
type UploadData struct {
	URL string `json:"url" doc:"Public URL of the uploaded object, empty in serverless mode"`
}

// UploadResponse wraps UploadData.
type UploadResponse struct {
	Body UploadData
}
