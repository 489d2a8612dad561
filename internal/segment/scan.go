package segment

import (
	"os"
	"path/filepath"
)

// DurationFunc probes the playable duration of a file in seconds, returning
// a non-positive value when the duration cannot be determined. Injected so
// the scanner can be tested without ffprobe.
type DurationFunc func(path string) float64

// Logger is the minimal logging interface the scanner needs. Defined here
// (rather than importing the logging package) so that segment remains
// dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// Tolerance returns the acceptable absolute difference between a segment's
// expected and probed duration: 2% of expected or 100ms, whichever is larger.
// An artifact is accepted strictly below the tolerance and rejected at or
// above it.
func Tolerance(expected float64) float64 {
	t := expected * 0.02
	if t < 0.1 {
		return 0.1
	}
	return t
}

// CleanPartials deletes every leftover partial artifact in dir matching the
// container extension. Partials are orphans of a previous crash or stop and
// must never survive into a new run. Runs unconditionally before resume
// scanning.
func CleanPartials(dir, ext string, log Logger) {
	matches, _ := filepath.Glob(filepath.Join(dir, "*"+ext+PartialSuffix))
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil || fi.IsDir() {
			continue
		}
		log.Warn("Deleting orphaned partial from previous run: %s", filepath.Base(m))
		_ = os.Remove(m)
	}
}

// Scan walks the planned segments in order and returns the valid prefix of
// existing final artifacts plus the resume index (0-based index of the first
// segment that must be encoded).
//
// Scanning stops at the first missing artifact. An existing artifact is
// accepted only if its probed duration is within Tolerance of the expected
// duration; a rejected artifact is deleted and scanning stops there, forcing
// re-encode from that point forward. Segments past the first gap or mismatch
// are never inspected: even if present they are superseded and will be
// overwritten when re-encoding reaches them.
func Scan(segs []Segment, dir, stem, ext string, probe DurationFunc, log Logger) (completed []string, resume int) {
	for i, seg := range segs {
		final := filepath.Join(dir, ArtifactName(stem, seg.Index, ext))
		if _, err := os.Stat(final); err != nil {
			return completed, i
		}

		actual := probe(final)
		expected := seg.Duration()
		if actual > 0 && abs(actual-expected) < Tolerance(expected) {
			completed = append(completed, final)
			resume = i + 1
			continue
		}

		log.Warn("Segment %d (%s) invalid (expected ~%.2fs, got %.2fs). Deleting.",
			seg.Index, filepath.Base(final), expected, actual)
		_ = os.Remove(final)
		return completed, i
	}
	return completed, resume
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
