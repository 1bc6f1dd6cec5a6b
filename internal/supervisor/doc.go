// Package supervisor provides encoder process lifecycle management.
//
// A Supervisor owns at most one external encoder process at a time for a
// media channel:
//   - Single-slot process handle with a one-shot completion signal
//   - Conflict-safe Execute: a second call while a process is active is a
//     logged no-op returning ErrBusy
//   - Output streaming with pluggable log parsing and progress filtering
//   - Graceful shutdown with SIGINT and SIGKILL escalation
//   - Exit-code-0 callback for default-media fallback chains, invoked after
//     the process slot has been cleared so the callback may Execute again
//
// Example:
//
//	sup := supervisor.New("video", "ffmpeg", logger)
//	handle, err := sup.Execute(args, func() {
//	    // process finished cleanly; feed the device a default asset
//	})
//	...
//	sup.Stop(ctx)
package supervisor
