// Command seqprep rewrites a numbered image-frame directory into a new,
// contiguously numbered sequence for frame interpolation tools.
//
// Three modes:
//
//	fill      restore original pacing by duplicating the previous frame
//	          across numbering gaps larger than --threshold
//	retime    compress each gap to max(1, round(gap/--pace)) output steps,
//	          holding the previous frame for the extra steps
//	resample  downsample a sequence captured at --orig-fps to --target-fps
//	          by floor-spaced frame selection
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jkollasch/segenc/internal/sequence"
)

// stderrLogger satisfies sequence.Logger without pulling in the full
// logging stack; seqprep has no color or log-file options.
type stderrLogger struct{}

func (stderrLogger) Info(f string, a ...interface{})  { fmt.Fprintf(os.Stderr, f+"\n", a...) }
func (stderrLogger) Warn(f string, a ...interface{})  { fmt.Fprintf(os.Stderr, "WARN: "+f+"\n", a...) }
func (stderrLogger) Error(f string, a ...interface{}) { fmt.Fprintf(os.Stderr, "ERROR: "+f+"\n", a...) }

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet("seqprep", flag.ContinueOnError)
	mode := fs.String("mode", "fill", "fill, retime, or resample")
	threshold := fs.Int("threshold", 5, "fill: largest gap still treated as consecutive")
	fs.IntVar(threshold, "t", 5, "shorthand for --threshold")
	pace := fs.Int("pace", 5, "retime: source-frame durations per output step")
	origFPS := fs.Float64("orig-fps", 0, "resample: source frame rate")
	targetFPS := fs.Float64("target-fps", 0, "resample: output frame rate, at most --orig-fps")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: seqprep [--mode fill|retime|resample] [-t N] [--pace N] [--orig-fps R --target-fps R] <input-dir> <output-dir>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		return 1
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 1
	}
	inDir, outDir := fs.Arg(0), fs.Arg(1)

	log := stderrLogger{}
	var (
		n   int
		err error
	)
	switch *mode {
	case "fill":
		n, err = sequence.Fill(inDir, outDir, *threshold, log)
	case "retime":
		n, err = sequence.Retime(inDir, outDir, *pace, log)
	case "resample":
		n, err = sequence.Resample(inDir, outDir, *origFPS, *targetFPS, log)
	default:
		fmt.Fprintf(os.Stderr, "seqprep: unknown mode %q (use fill, retime, or resample)\n", *mode)
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "seqprep: %v\n", err)
		return 1
	}

	log.Info("Prepared sequence with %d frames in %s", n, outDir)
	return 0
}
