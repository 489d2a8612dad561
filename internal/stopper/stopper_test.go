package stopper

import "testing"

func TestStopper_InitialState(t *testing.T) {
	s := New()
	if s.StopRequested() || s.ForceStopRequested() {
		t.Error("flags set on fresh Stopper")
	}
}

func TestStopper_GracefulOnly(t *testing.T) {
	s := New()
	s.RequestStop()
	if !s.StopRequested() {
		t.Error("StopRequested = false after RequestStop")
	}
	if s.ForceStopRequested() {
		t.Error("ForceStopRequested = true after graceful request only")
	}
}

func TestStopper_ForceImpliesStop(t *testing.T) {
	s := New()
	s.RequestForceStop()
	if !s.StopRequested() || !s.ForceStopRequested() {
		t.Error("force stop should set both flags")
	}
}

func TestStopper_Monotonic(t *testing.T) {
	s := New()
	s.RequestStop()
	s.RequestStop()
	s.RequestForceStop()
	s.RequestForceStop()
	if !s.StopRequested() || !s.ForceStopRequested() {
		t.Error("flags must stay set")
	}
}
