// Command onepass re-encodes a video to H.265 in a single ffmpeg run with
// the same tuned defaults the segmented encoder uses. No segmentation, no
// resume: a convenience wrapper for short clips where interruptibility is
// not worth the setup.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/jkollasch/segenc/internal/ffmpeg"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet("onepass", flag.ContinueOnError)
	crf := fs.Int("crf", 19, "quality level (CRF), lower is higher quality")
	fs.IntVar(crf, "c", 19, "shorthand for --crf")
	framerate := fs.Int("framerate", 0, "target output framerate (required)")
	fs.IntVar(framerate, "r", 0, "shorthand for --framerate")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: onepass [-c CRF] -r FRAMERATE <input> <output>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		return 1
	}
	if *framerate <= 0 {
		fmt.Fprintln(os.Stderr, "onepass: --framerate is required and must be > 0")
		return 1
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 1
	}
	if *crf < 0 || *crf > 51 {
		fmt.Fprintln(os.Stderr, "onepass: CRF must be 0-51")
		return 1
	}

	args := ffmpeg.BuildOnePassArgs(fs.Arg(0), fs.Arg(1), *crf, *framerate)
	fmt.Fprintln(os.Stderr, "Running:\n  "+strings.Join(args, " \\\n  "))

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "onepass: %v\n", err)
		return 1
	}
	return 0
}
