package segment

import (
	"math"
	"testing"
)

func TestPlan_Example(t *testing.T) {
	// duration=12.0, length=5 → [0,5) [5,10) [10,12), last duration 2.0s.
	segs := Plan(12.0, 5)
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	want := []Segment{
		{Index: 1, Start: 0, End: 5},
		{Index: 2, Start: 5, End: 10},
		{Index: 3, Start: 10, End: 12},
	}
	for i, s := range segs {
		if s != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, s, want[i])
		}
	}
	if math.Abs(segs[2].Duration()-2.0) > 1e-9 {
		t.Errorf("last duration = %v, want 2.0", segs[2].Duration())
	}
}

func TestPlan_ExactMultiple(t *testing.T) {
	segs := Plan(10.0, 5)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[1].End != 10.0 {
		t.Errorf("last end = %v, want 10.0", segs[1].End)
	}
}

func TestPlan_DropsTinyTail(t *testing.T) {
	// 10.005s with 5s segments leaves a 0.005s tail, below the 0.01s floor.
	segs := Plan(10.005, 5)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2 (tiny tail dropped)", len(segs))
	}
}

func TestPlan_ShortSource(t *testing.T) {
	segs := Plan(2.5, 5)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Start != 0 || segs[0].End != 2.5 {
		t.Errorf("segment = %+v", segs[0])
	}
}

func TestPlan_InvalidInputs(t *testing.T) {
	tests := []struct {
		name             string
		duration, length float64
	}{
		{"zero duration", 0, 5},
		{"negative duration", -1, 5},
		{"zero length", 10, 0},
		{"negative length", 10, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if segs := Plan(tt.duration, tt.length); segs != nil {
				t.Errorf("Plan(%v, %v) = %v, want nil", tt.duration, tt.length, segs)
			}
		})
	}
}

func TestPlan_Properties(t *testing.T) {
	// Contiguous, gapless, start at 0, end at duration, strictly increasing.
	cases := []struct {
		duration, length float64
	}{
		{12.0, 5}, {3600.0, 5}, {1.0, 0.3}, {59.94, 10}, {0.02, 5},
	}
	for _, c := range cases {
		segs := Plan(c.duration, c.length)
		if len(segs) == 0 {
			t.Fatalf("Plan(%v, %v) empty", c.duration, c.length)
		}
		if segs[0].Start != 0 {
			t.Errorf("first start = %v, want 0", segs[0].Start)
		}
		if math.Abs(segs[len(segs)-1].End-c.duration) > 1e-6 {
			t.Errorf("last end = %v, want %v", segs[len(segs)-1].End, c.duration)
		}
		for i := 1; i < len(segs); i++ {
			if segs[i].Start != segs[i-1].End {
				t.Errorf("gap between segment %d and %d: %v != %v",
					i-1, i, segs[i-1].End, segs[i].Start)
			}
			if segs[i].Index != segs[i-1].Index+1 {
				t.Errorf("indices not strictly increasing at %d", i)
			}
		}
		for _, s := range segs {
			if s.Duration() <= 0 {
				t.Errorf("non-positive duration: %+v", s)
			}
		}
	}
}

func TestArtifactNames(t *testing.T) {
	if got := ArtifactName("movie", 7, ".mp4"); got != "movie_seg0007.mp4" {
		t.Errorf("ArtifactName = %q", got)
	}
	if got := PartialName("movie", 7, ".mp4"); got != "movie_seg0007.mp4.part" {
		t.Errorf("PartialName = %q", got)
	}
	if got := ArtifactName("a b", 12345, ".mkv"); got != "a b_seg12345.mkv" {
		t.Errorf("ArtifactName wide index = %q", got)
	}
}
