// Package pipeline drives a full encode run: probe the source, plan the
// segments, resume from whatever previous runs left behind, encode the
// remaining segments one at a time, and concatenate the results. A run is
// interruptible at any segment boundary and a rerun picks up where it
// stopped.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jkollasch/segenc/internal/config"
	"github.com/jkollasch/segenc/internal/display"
	"github.com/jkollasch/segenc/internal/ffmpeg"
	"github.com/jkollasch/segenc/internal/segment"
	"github.com/jkollasch/segenc/internal/stopper"
)

// Outcome is the final state of one run.
type Outcome int

const (
	// OutcomeDone: the destination file exists and is complete. Also
	// reported when the destination already existed and overwrite was off.
	OutcomeDone Outcome = iota
	// OutcomeStopped: the user requested a stop; progress is preserved and
	// a rerun will resume.
	OutcomeStopped
	// OutcomeFailed: an encode or concatenation step failed.
	OutcomeFailed
)

// Logger is what the pipeline needs from the logging package.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Runner owns one encode run. The probe and exec collaborators default to
// the real ffprobe/ffmpeg wrappers and are fields only so tests can swap
// them out.
type Runner struct {
	Cfg  *config.Config
	Log  Logger
	Stop *stopper.Stopper

	// Collaborators, injectable for tests.
	Probe    segment.DurationFunc    // probe playable duration
	HasAudio func(path string) bool  // probe for an audio stream
	Exec     func(args []string, prefix string) bool

	sup *ffmpeg.Supervisor
}

// exec runs an ffmpeg invocation through the injected Exec func or, by
// default, a supervisor sharing the runner's logger and stopper.
func (r *Runner) exec(args []string, prefix string) bool {
	if r.Exec != nil {
		return r.Exec(args, prefix)
	}
	if r.sup == nil {
		r.sup = &ffmpeg.Supervisor{Log: r.Log, Stop: r.Stop}
	}
	return r.sup.Run(args, prefix)
}

func (r *Runner) duration(path string) float64 {
	if r.Probe != nil {
		return r.Probe(path)
	}
	return 0
}

func (r *Runner) hasAudio(path string) bool {
	if r.HasAudio != nil {
		return r.HasAudio(path)
	}
	return false
}

// Run executes the whole pipeline and returns the outcome. It never panics
// on bad media or missing tools; every failure path logs and returns
// OutcomeFailed.
func (r *Runner) Run() Outcome {
	cfg := r.Cfg

	stem := strings.TrimSuffix(filepath.Base(cfg.InputPath), filepath.Ext(cfg.InputPath))
	ext := filepath.Ext(cfg.OutputPath)
	if ext == "" {
		ext = ".mp4"
	}

	segDir := cfg.SegmentsDir
	if segDir == "" {
		segDir = filepath.Join(filepath.Dir(cfg.OutputPath), stem+"_segments")
	}

	r.logSummary(segDir)

	if err := os.MkdirAll(segDir, 0o755); err != nil {
		r.Log.Error("cannot create segments directory %s: %v", segDir, err)
		return OutcomeFailed
	}
	if err := writeRerunCommand(segDir); err != nil {
		r.Log.Warn("could not write rerun command file: %v", err)
	}

	// Destination guard before any expensive work.
	if _, err := os.Stat(cfg.OutputPath); err == nil {
		if !cfg.Overwrite {
			r.Log.Warn("Destination %s already exists; nothing to do (use --overwrite to redo)", cfg.OutputPath)
			return OutcomeDone
		}
		r.Log.Info("Overwriting existing destination %s", cfg.OutputPath)
		if err := os.Remove(cfg.OutputPath); err != nil {
			r.Log.Error("cannot remove existing destination: %v", err)
			return OutcomeFailed
		}
	}

	total := r.duration(cfg.InputPath)
	if total <= 0 {
		r.Log.Error("cannot determine duration of %s", cfg.InputPath)
		return OutcomeFailed
	}
	audio := r.hasAudio(cfg.InputPath)
	r.Log.Info("Source duration %s, audio: %v", display.FormatSeconds(total), audio)

	segs := segment.Plan(total, float64(cfg.SegmentLength))
	if len(segs) == 0 {
		r.Log.Error("no segments planned for %.2fs source", total)
		return OutcomeFailed
	}
	r.Log.Info("Planned %d segments of up to %ds", len(segs), cfg.SegmentLength)

	segment.CleanPartials(segDir, ext, r.Log)
	completed, resume := segment.Scan(segs, segDir, stem, ext, r.duration, r.Log)
	if resume > 0 {
		r.Log.Info("Resuming: %d of %d segments already done", len(completed), len(segs))
	}

	artifacts, outcome := r.encodeRemaining(segs, completed, resume, segDir, stem, ext, audio)
	if outcome != OutcomeDone {
		return outcome
	}

	if !ffmpeg.Concatenate(r.Log, r.exec, artifacts, cfg.OutputPath) {
		r.Log.Error("concatenation failed; segment files kept in %s", segDir)
		return OutcomeFailed
	}

	if !cfg.KeepSegments {
		if err := os.RemoveAll(segDir); err != nil {
			r.Log.Warn("could not remove segments directory %s: %v", segDir, err)
		}
	}

	if fi, err := os.Stat(cfg.OutputPath); err == nil {
		r.Log.Success("Done: %s (%s)", cfg.OutputPath, display.FormatBytes(fi.Size()))
	} else {
		r.Log.Success("Done: %s", cfg.OutputPath)
	}
	return OutcomeDone
}

// encodeRemaining encodes segments[resume:] in order, promoting each partial
// to its final name on success. Returns the full ordered artifact list and
// OutcomeDone only when every planned segment has a final artifact.
func (r *Runner) encodeRemaining(segs []segment.Segment, completed []string, resume int, segDir, stem, ext string, audio bool) ([]string, Outcome) {
	artifacts := completed
	for i := resume; i < len(segs); i++ {
		if r.Stop.StopRequested() {
			r.Log.Warn("Stop requested. %d of %d segments done; rerun to resume.", len(artifacts), len(segs))
			return artifacts, OutcomeStopped
		}

		seg := segs[i]
		partial := filepath.Join(segDir, segment.PartialName(stem, seg.Index, ext))
		final := filepath.Join(segDir, segment.ArtifactName(stem, seg.Index, ext))
		_ = os.Remove(partial)

		prefix := fmt.Sprintf("seg%04d", seg.Index)
		r.Log.Info("Encoding segment %d/%d [%.2fs - %.2fs]", seg.Index, len(segs), seg.Start, seg.End)

		args := ffmpeg.BuildSegmentArgs(r.Cfg, seg, partial, audio)
		if !r.exec(args, prefix) {
			if r.Stop.StopRequested() {
				r.Log.Warn("Stop requested. %d of %d segments done; rerun to resume.", len(artifacts), len(segs))
				return artifacts, OutcomeStopped
			}
			r.Log.Error("Segment %d failed", seg.Index)
			return artifacts, OutcomeFailed
		}

		if err := os.Rename(partial, final); err != nil {
			r.Log.Error("cannot promote segment %d: %v", seg.Index, err)
			return artifacts, OutcomeFailed
		}
		artifacts = append(artifacts, final)
	}
	return artifacts, OutcomeDone
}

func (r *Runner) logSummary(segDir string) {
	cfg := r.Cfg
	r.Log.Info("Input:    %s", cfg.InputPath)
	r.Log.Info("Output:   %s", cfg.OutputPath)
	r.Log.Info("Codec:    %s (crf %d, preset %s, %d fps, %s)",
		cfg.Codec, cfg.CRF, cfg.Preset, cfg.Framerate, cfg.PixFmt)
	r.Log.Debug("Segments: %ds each, staged in %s", cfg.SegmentLength, segDir)
}
