// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe, x265, x264, and AAC.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/jkollasch/segenc/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrX265Failed      = errors.New("h265 codec selected but libx265 test encode failed")
	ErrX264Failed      = errors.New("h264 codec selected but libx264 test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg
// and ffprobe plus x265, x264, and AAC test encodes. Informational only,
// it does not stop on failure.
func RunCheck(log Logger) {
	log.Info("=== System Check ===")

	checkTool(log, "ffmpeg")
	checkTool(log, "ffprobe")
	checkEncoder(log, "x265", x265TestArgs())
	checkEncoder(log, "x264", x264TestArgs())
	checkAAC(log)
}

// checkTool verifies a binary is on PATH and logs its version string.
func checkTool(log Logger, name string) {
	if _, err := exec.LookPath(name); err != nil {
		log.Error("%s not found", name)
		return
	}
	cmd := exec.Command(name, "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
}

// checkEncoder runs a minimal test encode to verify the encoder works.
func checkEncoder(log Logger, name string, args []string) {
	log.Info("Testing %s...", name)
	if runSilent("ffmpeg", args...) {
		log.Success("%s works", name)
	} else {
		log.Error("%s test encode failed", name)
	}
}

// checkAAC runs a minimal AAC encode to verify the audio encoder works.
func checkAAC(log Logger) {
	log.Info("Testing AAC encoder...")
	if runSilent("ffmpeg",
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	) {
		log.Success("AAC encoder works")
	} else {
		log.Error("AAC encoder test failed")
	}
}

// CheckDeps is the pre-pipeline validation: it verifies that ffmpeg and
// ffprobe are on PATH and that the chosen codec's encoder actually works.
// Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}

	if cfg.Codec == config.CodecH264 {
		if !runSilent("ffmpeg", x264TestArgs()...) {
			return ErrX264Failed
		}
		return nil
	}
	if !runSilent("ffmpeg", x265TestArgs()...) {
		return ErrX265Failed
	}
	return nil
}

// --- internal helpers ---

// x265TestArgs returns the ffmpeg arguments for a minimal libx265 test encode.
func x265TestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", "libx265",
		"-f", "null", "-",
	}
}

// x264TestArgs returns the ffmpeg arguments for a minimal libx264 test encode.
func x264TestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", "libx264",
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
