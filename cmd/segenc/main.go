// Command segenc encodes a video in short independent segments so that a
// long encode can be interrupted at any time and resumed later. Completed
// segments are validated and reused on rerun; the final output is produced
// by lossless concatenation.
//
// Exit codes: 0 when the output is complete or the user stopped the run,
// 1 when an encode or concatenation step failed, 2 on an unexpected fatal
// error.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jkollasch/segenc/internal/check"
	"github.com/jkollasch/segenc/internal/config"
	"github.com/jkollasch/segenc/internal/display"
	"github.com/jkollasch/segenc/internal/logging"
	"github.com/jkollasch/segenc/internal/pipeline"
	"github.com/jkollasch/segenc/internal/probe"
	"github.com/jkollasch/segenc/internal/stopper"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	// Anything that slips past the error paths below must still produce a
	// distinguishable exit code instead of a raw crash.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "segenc: fatal: %v\n", r)
			code = 2
		}
	}()

	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "segenc: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "segenc: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "segenc: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available.
	display.PrintBanner()
	log.Info("=== segenc v%s (%s) ===", version, commit)

	if cfg.CheckOnly {
		check.RunCheck(log)
		return 0
	}

	if _, err := os.Stat(cfg.InputPath); err != nil {
		log.Error("Input not found: %s", cfg.InputPath)
		return 1
	}
	if dir := filepath.Dir(cfg.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("Cannot create output directory: %s", dir)
			return 1
		}
	}

	// Fail fast if ffmpeg/ffprobe or the chosen encoder are unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signals. The first interrupt asks the current segment to
	// finish winding down gracefully; a second one forces a kill.
	stop := stopper.New()
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupt received, stopping after the current segment (press again to force)")
		stop.RequestStop()
		<-sigCh
		log.Warn("Second interrupt, forcing stop")
		stop.RequestForceStop()
	}()

	// Phase 4: Run the segment pipeline.
	runner := &pipeline.Runner{
		Cfg:      &cfg,
		Log:      log,
		Stop:     stop,
		Probe:    probe.Duration,
		HasAudio: probe.HasAudio,
	}

	switch runner.Run() {
	case pipeline.OutcomeDone:
		return 0
	case pipeline.OutcomeStopped:
		log.Info("Stopped by user; progress is saved, rerun the same command to resume")
		return 0
	default:
		return 1
	}
}
