package supervisor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// ErrBusy is returned by Execute when a process is already active.
// Callers treat it as a non-fatal no-op: the running process is unaffected.
var ErrBusy = errors.New("encoder process already running")

// OutputHandler receives output lines from the encoder process.
// Implementations can collect metrics, forward to tests, etc.
type OutputHandler interface {
	HandleLine(source, line string)
}

// LogParser parses an encoder output line and returns the log level and message.
type LogParser func(line string) (level, msg string)

// LineFilter reports whether an output line should be suppressed from logs.
// Used to drop high-frequency progress counters (frame/fps/size lines).
type LineFilter func(line string) bool

// StateListener is notified on supervisor state transitions.
type StateListener func(channel string, oldState, newState State)

// Handle exposes the live encoder process to the caller.
// Stdin is the process input stream for live-fed sessions.
type Handle struct {
	Stdin io.WriteCloser
	PID   int
}

// exitResult is the terminal outcome of one supervised process instance.
// Either code is set (process exited) or err is set (process-level failure).
type exitResult struct {
	code int
	err  error
}

// Supervisor owns the lifecycle of at most one encoder process per channel.
// The active process handle and its completion signal are set together at
// spawn time and cleared together on every terminal transition.
type Supervisor struct {
	channel       string
	program       string
	logger        *slog.Logger
	processLogger *slog.Logger // logger for encoder output (nil = use logger)
	logParser     LogParser
	lineFilter    LineFilter
	outputHandler OutputHandler
	stateListener StateListener

	gracefulTimeout time.Duration // timeout for SIGINT before force kill
	killTimeout     time.Duration // timeout after Kill() before giving up

	mu        sync.Mutex
	cmd       *exec.Cmd       // active process; nil when idle
	done      chan exitResult // completion signal; nil when idle
	state     State
	startedAt time.Time
	lastError error
}

// New creates a supervisor for the named channel. The program is the
// encoder binary to spawn (normally ffmpeg).
func New(channel, program string, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		channel:         channel,
		program:         program,
		logger:          logger,
		state:           StateIdle,
		gracefulTimeout: 5 * time.Second,
		killTimeout:     5 * time.Second,
	}
}

// SetLogParser sets a custom logger and log parser for encoder output.
// The logger is used for process output (e.g., module="ffmpeg").
func (s *Supervisor) SetLogParser(logger *slog.Logger, parser LogParser) {
	s.processLogger = logger
	s.logParser = parser
}

// SetLineFilter sets a filter that suppresses matching output lines from logs.
func (s *Supervisor) SetLineFilter(filter LineFilter) {
	s.lineFilter = filter
}

// SetOutputHandler sets a handler that receives every encoder output line.
func (s *Supervisor) SetOutputHandler(handler OutputHandler) {
	s.outputHandler = handler
}

// SetStateListener registers a callback for state transitions.
func (s *Supervisor) SetStateListener(listener StateListener) {
	s.stateListener = listener
}

// Channel returns the channel name this supervisor serves.
func (s *Supervisor) Channel() string {
	return s.channel
}

// Running reports whether a process is currently active.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

// Info returns a snapshot of the supervised process.
func (s *Supervisor) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := Info{
		Channel:   s.channel,
		State:     s.state,
		StartedAt: s.startedAt,
		LastError: s.lastError,
	}
	if s.cmd != nil && s.cmd.Process != nil {
		info.PID = s.cmd.Process.Pid
	}
	return info
}

// Execute spawns the encoder with the given arguments and registers it as
// the active process. If a process is already active the call is a warning
// no-op returning ErrBusy; the running process is unaffected.
//
// onNormalExit is invoked when the process exits with code 0, after the
// active-process slot has been cleared, so re-entrant Execute calls from
// the callback observe an idle supervisor. Any other exit resolves the
// completion signal and leaves slot cleanup to Stop.
func (s *Supervisor) Execute(args []string, onNormalExit func()) (*Handle, error) {
	s.mu.Lock()
	if s.cmd != nil {
		pid := 0
		if s.cmd.Process != nil {
			pid = s.cmd.Process.Pid
		}
		s.mu.Unlock()
		s.logger.Warn("Encoder already running, ignoring execute", "channel", s.channel, "pid", pid)
		return nil, ErrBusy
	}

	oldState := s.state
	s.state = StateStarting

	cmd := exec.Command(s.program, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		s.state = oldState
		s.mu.Unlock()
		s.logger.Error("Failed to create stdin pipe", "error", err)
		return nil, err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.state = oldState
		s.mu.Unlock()
		s.logger.Error("Failed to create stdout pipe", "error", err)
		return nil, err
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.state = oldState
		s.mu.Unlock()
		s.logger.Error("Failed to create stderr pipe", "error", err)
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		// Spawn failure never registers the slot: the supervisor stays idle
		// and a subsequent Execute is immediately legal.
		s.state = StateIdle
		s.lastError = err
		s.mu.Unlock()
		s.logger.Error("Failed to start encoder", "channel", s.channel, "error", err)
		return nil, err
	}

	done := make(chan exitResult, 1)
	s.cmd = cmd
	s.done = done
	s.state = StateRunning
	s.startedAt = time.Now()
	s.lastError = nil
	s.mu.Unlock()

	s.notifyState(oldState, StateRunning)
	s.logger.Info("Encoder started",
		"channel", s.channel, "pid", cmd.Process.Pid, "args", strings.Join(args, " "))

	// Stream output in separate goroutines. Both must finish before the
	// completion signal resolves, so listeners never outlive the process.
	outputDone := make(chan struct{}, 2)
	go func() {
		s.streamOutput(stdout, "stdout")
		outputDone <- struct{}{}
	}()
	go func() {
		s.streamOutput(stderr, "stderr")
		outputDone <- struct{}{}
	}()

	go s.monitor(cmd, done, outputDone, onNormalExit)

	return &Handle{Stdin: stdin, PID: cmd.Process.Pid}, nil
}

// monitor waits for the process to exit and performs the terminal transition.
func (s *Supervisor) monitor(cmd *exec.Cmd, done chan exitResult, outputDone <-chan struct{}, onNormalExit func()) {
	waitErr := cmd.Wait()

	// Drain both output listeners before resolving the completion signal.
	<-outputDone
	<-outputDone

	if waitErr == nil {
		// Clean exit: clear the slot first so the fallback callback can
		// start the next process, then resolve the completion signal.
		s.clearSlot(cmd, StateIdle, nil)
		if onNormalExit != nil {
			onNormalExit()
		}
		done <- exitResult{code: 0}
		return
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		code := exitErr.ExitCode()
		s.logger.Warn("Encoder exited abnormally", "channel", s.channel, "exit_code", code)
		s.markFailed(cmd, waitErr)
		done <- exitResult{code: code}
		return
	}

	s.logger.Error("Encoder process error", "channel", s.channel, "error", waitErr)
	s.markFailed(cmd, waitErr)
	done <- exitResult{err: waitErr}
}

// Stop sends SIGINT to the active process and awaits its completion signal,
// escalating to SIGKILL after the graceful timeout or when ctx is cancelled
// while waiting. The active-process slot and completion signal are cleared in
// a final step that always runs; after Stop returns the supervisor is idle
// and Execute is immediately legal.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	cmd, done := s.cmd, s.done
	if cmd == nil {
		s.mu.Unlock()
		s.logger.Debug("No encoder running, nothing to stop", "channel", s.channel)
		return nil
	}
	oldState := s.state
	s.state = StateStopping
	s.mu.Unlock()
	s.notifyState(oldState, StateStopping)

	defer s.clearSlot(cmd, StateIdle, nil)

	s.logger.Info("Sending SIGINT to encoder", "channel", s.channel, "pid", cmd.Process.Pid)
	if err := cmd.Process.Signal(syscall.SIGINT); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Warn("Failed to send SIGINT", "error", err)
	}

	select {
	case res := <-done:
		if res.err != nil {
			s.logger.Error("Encoder finished with error", "channel", s.channel, "error", res.err)
			return res.err
		}
		s.logger.Info("Encoder stopped", "channel", s.channel, "exit_code", res.code)
		return nil

	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Graceful shutdown timeout, forcing kill",
			"channel", s.channel, "timeout", s.gracefulTimeout)
		s.kill(cmd, done)
		return nil

	case <-ctx.Done():
		// The caller stopped waiting, but the deferred slot clear still runs:
		// the process must not outlive its slot, so skip straight to SIGKILL.
		s.logger.Warn("Stop cancelled, forcing kill",
			"channel", s.channel, "error", ctx.Err())
		s.kill(cmd, done)
		return ctx.Err()
	}
}

// kill sends SIGKILL and awaits the completion signal with a bounded wait.
func (s *Supervisor) kill(cmd *exec.Cmd, done <-chan exitResult) {
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Error("Failed to kill encoder", "error", err)
	}
	select {
	case res := <-done:
		s.logger.Info("Encoder killed", "channel", s.channel, "exit_code", res.code)
	case <-time.After(s.killTimeout):
		s.logger.Error("Encoder did not exit after kill signal", "channel", s.channel)
	}
}

// clearSlot clears the process slot and completion signal together, but only
// if the slot still holds cmd, so a process started meanwhile is untouched.
func (s *Supervisor) clearSlot(cmd *exec.Cmd, newState State, lastErr error) {
	s.mu.Lock()
	if s.cmd != cmd {
		s.mu.Unlock()
		return
	}
	oldState := s.state
	s.cmd = nil
	s.done = nil
	s.state = newState
	if lastErr != nil {
		s.lastError = lastErr
	}
	s.mu.Unlock()

	if oldState != newState {
		s.notifyState(oldState, newState)
	}
}

// markFailed records the failure but leaves the slot set: abnormal exits are
// cleaned up by Stop, whose final step always clears the slot.
func (s *Supervisor) markFailed(cmd *exec.Cmd, err error) {
	s.mu.Lock()
	if s.cmd != cmd {
		s.mu.Unlock()
		return
	}
	oldState := s.state
	s.state = StateFailed
	s.lastError = err
	s.mu.Unlock()

	if oldState != StateFailed {
		s.notifyState(oldState, StateFailed)
	}
}

func (s *Supervisor) notifyState(oldState, newState State) {
	if s.stateListener != nil {
		s.stateListener(s.channel, oldState, newState)
	}
}

// streamOutput streams output from the encoder process. stderr carries the
// encoder's operational logging and goes through the line filter and log
// parser; stdout is logged raw as info.
func (s *Supervisor) streamOutput(reader io.Reader, source string) {
	scanner := bufio.NewScanner(reader)

	logger := s.processLogger
	if logger == nil {
		logger = s.logger
	}

	for scanner.Scan() {
		line := scanner.Text()

		if s.outputHandler != nil {
			s.outputHandler.HandleLine(source, line)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if source == "stdout" {
			logger.Info(line)
			continue
		}

		if s.lineFilter != nil && s.lineFilter(line) {
			continue
		}

		level, msg := "info", line
		if s.logParser != nil {
			level, msg = s.logParser(line)
		}

		switch level {
		case "fatal", "error":
			logger.Error(msg)
		case "warning":
			logger.Warn(msg)
		case "debug", "trace":
			logger.Debug(msg)
		default:
			logger.Info(msg)
		}
	}

	if err := scanner.Err(); err != nil {
		s.logger.Warn("Error reading encoder output", "source", source, "error", err)
	}
}
