// Package logging provides structured logging built on log/slog with
// per-module level control, a ring buffer of recent entries, and systemd
// journal integration.
//
// Loggers are obtained per module:
//
//	logger := logging.GetLogger("channels")
//	logger.Info("Playback started", "path", path)
//
// Module names in use include "channels", "supervisor", "ffmpeg", "api",
// "upload" and "config". Each can be given its own level in the config
// file:
//
//	[logging.modules]
//	supervisor = "debug"
//	ffmpeg = "warn"
//
// When running under systemd, records are also sent to the journal with
// SYSLOG_IDENTIFIER=mediafeed, so they can be read with:
//
//	journalctl -t mediafeed -f
//
// The last 1000 entries are kept in an in-memory ring buffer exposed via
// GetBuffer for the diagnostics API.
package logging
