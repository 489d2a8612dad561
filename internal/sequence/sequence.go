// Package sequence prepares numbered image-frame directories for frame
// interpolation and encoding tools. Deduplicated frame dumps have gaps in
// their numbering where identical frames were removed; interpolators want an
// evenly paced, contiguous sequence, and encoders want one at the right
// frame rate. Fill, Retime, and Resample all read one directory and write a
// renumbered copy to another, never mutating the input.
package sequence

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// ErrNoFrames is returned when the input directory holds no parsable frames.
var ErrNoFrames = errors.New("no numbered image frames found in input directory")

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".bmp": true, ".tiff": true, ".webp": true,
}

// frame is one input image keyed by the number its filename starts with.
type frame struct {
	num  int
	path string
}

// Fill copies the frames of inputDir into outputDir as a contiguous
// zero-padded sequence starting at 1. A numbering gap larger than threshold
// is filled by duplicating the preceding frame gap-1 times, restoring the
// original pacing; gaps at or below threshold are treated as consecutive.
// Returns the number of frames written.
func Fill(inputDir, outputDir string, threshold int, log Logger) (int, error) {
	frames, pad, ext, err := discover(inputDir, log)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, err
	}

	out := 1
	for i, f := range frames {
		if i > 0 {
			gap := f.num - frames[i-1].num
			if gap > threshold {
				log.Info("Gap %d -> %d: duplicating previous frame %d times",
					frames[i-1].num, f.num, gap-1)
				for j := 0; j < gap-1; j++ {
					if err := emit(frames[i-1].path, outputDir, out, pad, ext); err != nil {
						return out - 1, err
					}
					out++
				}
			}
		}
		if err := emit(f.path, outputDir, out, pad, ext); err != nil {
			return out - 1, err
		}
		out++
	}
	return out - 1, nil
}

// Retime copies the frames of inputDir into outputDir so that each original
// numbering gap becomes max(1, round(gap/pace)) output steps: one copy of
// the next frame preceded by steps-1 hold copies of the previous frame.
// pace is how many source-frame durations one output step should cover.
// Returns the number of frames written.
func Retime(inputDir, outputDir string, pace int, log Logger) (int, error) {
	if pace <= 0 {
		return 0, errors.New("pace must be a positive integer")
	}
	frames, pad, ext, err := discover(inputDir, log)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, err
	}

	out := 1
	if err := emit(frames[0].path, outputDir, out, pad, ext); err != nil {
		return 0, err
	}
	out++

	prev := frames[0]
	for _, f := range frames[1:] {
		gap := f.num - prev.num
		if gap <= 0 {
			// Duplicate numbers should not survive deduplication; keep the
			// frame rather than lose it.
			log.Warn("Frames out of order or duplicated at %d (%s); copying as-is",
				f.num, filepath.Base(f.path))
			if err := emit(f.path, outputDir, out, pad, ext); err != nil {
				return out - 1, err
			}
			out++
			prev = f
			continue
		}

		steps := (2*gap + pace) / (2 * pace) // round(gap/pace)
		if steps < 1 {
			steps = 1
		}
		for j := 0; j < steps-1; j++ {
			if err := emit(prev.path, outputDir, out, pad, ext); err != nil {
				return out - 1, err
			}
			out++
		}
		if err := emit(f.path, outputDir, out, pad, ext); err != nil {
			return out - 1, err
		}
		out++
		prev = f
	}
	return out - 1, nil
}

// Resample copies a downsampled subset of the frames of inputDir into
// outputDir so that a sequence captured at origFPS plays back at targetFPS.
// Frames are picked by floor spacing: output step k keeps input frame
// floor(k*origFPS/targetFPS), for max(1, round(n*targetFPS/origFPS)) steps.
// If rounding selects fewer distinct frames than that, the last kept frame
// is duplicated to make up the count. Equal rates renumber without dropping
// anything; upsampling is rejected. Returns the number of frames written.
func Resample(inputDir, outputDir string, origFPS, targetFPS float64, log Logger) (int, error) {
	if origFPS <= 0 || targetFPS <= 0 {
		return 0, errors.New("frame rates must be positive")
	}
	if targetFPS > origFPS {
		return 0, errors.New("up-sampling not supported: target rate exceeds source rate")
	}
	frames, pad, ext, err := discover(inputDir, log)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, err
	}

	if targetFPS == origFPS {
		log.Info("Rates match; renumbering %d frames without dropping any", len(frames))
		for i, f := range frames {
			if err := emit(f.path, outputDir, i+1, pad, ext); err != nil {
				return i, err
			}
		}
		return len(frames), nil
	}

	n := len(frames)
	want := int(math.Round(float64(n) * targetFPS / origFPS))
	if want < 1 {
		want = 1
	}
	ratio := origFPS / targetFPS

	// Floor spacing yields strictly increasing indices for ratio > 1, but
	// float edge cases can repeat one; dedupe to match the frame count up.
	var keep []int
	prev := -1
	for k := 0; k < want; k++ {
		idx := int(math.Floor(float64(k) * ratio))
		if idx >= n {
			break
		}
		if idx != prev {
			keep = append(keep, idx)
			prev = idx
		}
	}

	out := 1
	for _, idx := range keep {
		if err := emit(frames[idx].path, outputDir, out, pad, ext); err != nil {
			return out - 1, err
		}
		out++
	}
	last := frames[keep[len(keep)-1]].path
	for out <= want {
		if err := emit(last, outputDir, out, pad, ext); err != nil {
			return out - 1, err
		}
		out++
	}

	log.Info("Kept %d of %d frames (%g -> %g fps)", out-1, n, origFPS, targetFPS)
	return out - 1, nil
}

// discover lists the numbered image frames of dir sorted by frame number.
// The pad width and extension of the first frame define the output naming.
// Files whose names do not start with digits are skipped with a warning.
func discover(dir string, log Logger) (frames []frame, pad int, ext string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		fext := strings.ToLower(filepath.Ext(name))
		if !imageExts[fext] {
			continue
		}
		num, ok := leadingNumber(strings.TrimSuffix(name, filepath.Ext(name)))
		if !ok {
			log.Warn("Cannot parse frame number from %q; skipping", name)
			continue
		}
		frames = append(frames, frame{num: num, path: filepath.Join(dir, name)})
	}
	if len(frames) == 0 {
		return nil, 0, "", ErrNoFrames
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].num < frames[j].num })

	first := filepath.Base(frames[0].path)
	ext = filepath.Ext(first)
	pad = countLeadingDigits(strings.TrimSuffix(first, ext))
	if pad < 4 {
		pad = 8
	}
	return frames, pad, ext, nil
}

// leadingNumber parses the digits a filename stem starts with, so both
// "00000042" and "006_variant" yield a frame number. A prefix too long to
// fit an int is unparsable, not a wrong number.
func leadingNumber(stem string) (int, bool) {
	n := countLeadingDigits(stem)
	if n == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(stem[:n])
	if err != nil {
		return 0, false
	}
	return v, true
}

func countLeadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// emit copies src into dir under the zero-padded sequential name for index.
func emit(src, dir string, index, pad int, ext string) error {
	dst := filepath.Join(dir, fmt.Sprintf("%0*d%s", pad, index, ext))
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
