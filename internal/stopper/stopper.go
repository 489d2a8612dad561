// Package stopper provides the two-level cancellation token shared between
// the signal handler and the process supervisor.
package stopper

import "sync/atomic"

// Stopper carries the graceful-stop and force-stop flags for one run. Both
// flags are monotonic: once set they stay set for the lifetime of the run,
// so they are safe to read from any goroutine without additional locking.
type Stopper struct {
	stop  atomic.Bool
	force atomic.Bool
}

// New returns a Stopper with neither flag set.
func New() *Stopper { return &Stopper{} }

// RequestStop sets the graceful-stop flag. Idempotent.
func (s *Stopper) RequestStop() { s.stop.Store(true) }

// RequestForceStop sets the force-stop flag (and the graceful flag, so
// StopRequested holds whenever ForceStopRequested does). Idempotent.
func (s *Stopper) RequestForceStop() {
	s.stop.Store(true)
	s.force.Store(true)
}

// StopRequested reports whether a graceful stop has been requested.
func (s *Stopper) StopRequested() bool { return s.stop.Load() }

// ForceStopRequested reports whether an immediate stop has been requested.
func (s *Stopper) ForceStopRequested() bool { return s.force.Load() }
