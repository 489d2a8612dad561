package ffmpeg

import (
	"bufio"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/jkollasch/segenc/internal/stopper"
)

// Liveness poll interval and shutdown stage timeouts. The ladder escalates
// quit token → SIGINT → SIGTERM → SIGKILL, each stage only after the
// previous one's wait ran out, so a wedged ffmpeg is always gone within the
// sum of the stage timeouts.
const (
	pollInterval = 500 * time.Millisecond

	defaultQuitWait = 10 * time.Second
	defaultIntWait  = 8 * time.Second
	defaultTermWait = 5 * time.Second

	drainJoinTimeout = 2 * time.Second
)

// Logger is the minimal logging interface the supervisor needs.
type Logger interface {
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Supervisor owns the full lifecycle of one external backend invocation:
// start, output draining, liveness polling against the cancellation token,
// and the escalating shutdown ladder.
type Supervisor struct {
	Log  Logger
	Stop *stopper.Stopper

	// Shutdown stage timeouts; zero values use the defaults above.
	QuitWait time.Duration
	IntWait  time.Duration
	TermWait time.Duration
}

// Run launches args[0] with the given arguments and supervises it to
// completion. Stdout and stderr are merged and drained concurrently for the
// lifetime of the process (an undrained pipe would eventually block the
// child); only lines containing "error" or "warning" are logged.
//
// Reports true iff the process exited with status zero and was not
// short-circuited by a force stop. A process that exits cleanly after the
// graceful quit token still reports success; its truncated output is caught
// by the resume scan on the next run.
func (s *Supervisor) Run(args []string, prefix string) bool {
	s.Log.Debug("[%s] running: %s", prefix, strings.Join(args, " "))

	cmd := exec.Command(args[0], args[1:]...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		s.Log.Error("[%s] cannot open stdin pipe: %v", prefix, err)
		return false
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		if errors.Is(err, exec.ErrNotFound) {
			s.Log.Error("[%s] %s not found on PATH", prefix, args[0])
		} else {
			s.Log.Error("[%s] cannot start %s: %v", prefix, args[0], err)
		}
		return false
	}

	drained := make(chan struct{})
	go s.drain(pr, prefix, drained)

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pw.Close() // EOF for the drain goroutine
		waitErr <- err
	}()

	exitErr, forceStopped := s.supervise(cmd, stdin, waitErr, prefix)

	// Bounded join: the drain goroutine normally finishes as soon as the
	// pipe hits EOF, but never let it hold up the run.
	select {
	case <-drained:
	case <-time.After(drainJoinTimeout):
	}

	return exitErr == nil && !forceStopped
}

// supervise polls process liveness while watching the cancellation flags.
// It returns the process exit error and whether a force stop cut it short.
func (s *Supervisor) supervise(cmd *exec.Cmd, stdin io.WriteCloser, waitErr <-chan error, prefix string) (error, bool) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-waitErr:
			return err, false

		case <-ticker.C:
			if s.Stop.ForceStopRequested() {
				s.Log.Warn("[%s] force stop requested, killing immediately", prefix)
				_ = cmd.Process.Kill()
				return <-waitErr, true
			}
			if s.Stop.StopRequested() {
				s.Log.Warn("[%s] graceful stop requested", prefix)
				return s.shutdown(cmd, stdin, waitErr, prefix), false
			}
		}
	}
}

// shutdown walks the escalation ladder. Each stage is attempted only when
// the previous one's wait timed out or failed; the final kill is
// unconditional, so this always returns with the process gone.
func (s *Supervisor) shutdown(cmd *exec.Cmd, stdin io.WriteCloser, waitErr <-chan error, prefix string) error {
	// Stage 1: cooperative quit token on stdin. A write failure (e.g. the
	// child never opened stdin) escalates without waiting.
	if _, werr := io.WriteString(stdin, "q\n"); werr == nil {
		_ = stdin.Close()
		if err, exited := waitFor(waitErr, s.quitWait()); exited {
			return err
		}
	} else {
		_ = stdin.Close()
	}

	// Stage 2: interrupt signal.
	s.Log.Warn("[%s] quit token ignored, sending interrupt", prefix)
	_ = cmd.Process.Signal(os.Interrupt)
	if err, exited := waitFor(waitErr, s.intWait()); exited {
		return err
	}

	// Stage 3: terminate signal.
	s.Log.Warn("[%s] interrupt ignored, sending terminate", prefix)
	_ = cmd.Process.Signal(syscall.SIGTERM)
	if err, exited := waitFor(waitErr, s.termWait()); exited {
		return err
	}

	// Stage 4: kill. Guaranteed to end the process.
	s.Log.Warn("[%s] terminate ignored, killing", prefix)
	_ = cmd.Process.Kill()
	return <-waitErr
}

// waitFor waits up to d for the process to exit.
func waitFor(waitErr <-chan error, d time.Duration) (error, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case err := <-waitErr:
		return err, true
	case <-timer.C:
		return nil, false
	}
}

// drain reads the merged output for the lifetime of the process, logging
// only diagnostic lines to keep per-frame encoder chatter out of the logs.
// It must consume the pipe to EOF no matter what: a stalled reader would
// eventually block the child on a full pipe and hang the run.
func (s *Supervisor) drain(r io.Reader, prefix string, done chan<- struct{}) {
	defer close(done)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "error"):
			s.Log.Error("[%s] %s", prefix, line)
		case strings.Contains(lower, "warning"):
			s.Log.Warn("[%s] %s", prefix, line)
		}
	}
	// The scanner aborts on lines over its buffer cap (ErrTooLong). Keep
	// reading to EOF so the child can finish writing; the remaining output
	// is unfilterable without line boundaries and gets discarded.
	if err := sc.Err(); err != nil {
		s.Log.Debug("[%s] output scan stopped (%v), discarding rest", prefix, err)
		_, _ = io.Copy(io.Discard, r)
	}
}

func (s *Supervisor) quitWait() time.Duration {
	if s.QuitWait > 0 {
		return s.QuitWait
	}
	return defaultQuitWait
}

func (s *Supervisor) intWait() time.Duration {
	if s.IntWait > 0 {
		return s.IntWait
	}
	return defaultIntWait
}

func (s *Supervisor) termWait() time.Duration {
	if s.TermWait > 0 {
		return s.TermWait
	}
	return defaultTermWait
}
