// Package segment implements the segment lifecycle primitives: planning the
// time slices of a run, naming their on-disk artifacts, and scanning a
// staging directory to find the resume point.
package segment

// minTailDuration is the smallest trailing segment worth encoding. A final
// slice shorter than this is dropped rather than emitted.
const minTailDuration = 0.01

// Segment is one contiguous time slice of the source media, encoded
// independently. Index is 1-based and strictly increasing across a plan.
type Segment struct {
	Index int
	Start float64 // seconds
	End   float64 // seconds
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 { return s.End - s.Start }

// Plan computes the ordered, contiguous, gapless list of segments covering
// [0, totalDuration). It is deterministic and side-effect-free: the same
// inputs always produce the same plan, so the plan is recomputed on every
// run instead of being persisted.
//
// Returns nil when totalDuration or segmentLength is not positive; callers
// treat that as a fatal configuration error.
func Plan(totalDuration, segmentLength float64) []Segment {
	if totalDuration <= 0 || segmentLength <= 0 {
		return nil
	}

	var segs []Segment
	for current := 0.0; current < totalDuration; current += segmentLength {
		end := current + segmentLength
		if end > totalDuration {
			end = totalDuration
		}
		if end-current < minTailDuration {
			break
		}
		segs = append(segs, Segment{
			Index: len(segs) + 1,
			Start: current,
			End:   end,
		})
	}
	return segs
}
