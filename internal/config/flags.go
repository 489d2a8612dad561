package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into encoding, segmentation, display, and utility.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional
// args).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("segenc", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var util utilityFlags

	defineEncodingFlags(fs, cfg)
	defineSegmentFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &util)
	defineUtilityFlags(fs, &util)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyUtilityFlags(cfg, &util)

	if util.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if util.showVersion {
		fmt.Fprintln(os.Stdout, "segenc v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// utilityFlags holds boolean flags that are applied after Parse.
type utilityFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineEncodingFlags registers --codec, -c/--crf, -p/--preset,
// -r/--framerate, --pix-fmt, --x265-params, --x264-params, --threads,
// --audio-bitrate.
func defineEncodingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&codecValue{&cfg.Codec}, "codec", "Video codec: h265 | h264")
	fs.StringVar(&cfg.CRFOverride, "crf", "", "Quality level (h265 default: 19, h264 default: 18)")
	fs.StringVar(&cfg.CRFOverride, "c", "", "Same as --crf")
	fs.StringVar(&cfg.Preset, "preset", cfg.Preset, "x265/x264 preset (default: slow)")
	fs.StringVar(&cfg.Preset, "p", cfg.Preset, "Same as --preset")
	fs.IntVar(&cfg.Framerate, "framerate", 0, "Target output framerate (required)")
	fs.IntVar(&cfg.Framerate, "r", 0, "Same as --framerate")
	fs.StringVar(&cfg.PixFmtOverride, "pix-fmt", "", "Output pixel format (codec-specific default)")
	fs.StringVar(&cfg.X265Params, "x265-params", cfg.X265Params, "Custom libx265 parameters")
	fs.StringVar(&cfg.X264Params, "x264-params", cfg.X264Params, "Custom libx264 parameters")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "Encoder threads (0 = auto)")
	fs.StringVar(&cfg.AudioBitrate, "audio-bitrate", cfg.AudioBitrate, "Audio bitrate for re-encoding (e.g. 192k)")
}

// defineSegmentFlags registers -s/--segment-length, --segments-dir,
// --keep-segments, -f/--overwrite.
func defineSegmentFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.SegmentLength, "segment-length", cfg.SegmentLength, "Segment length in seconds")
	fs.IntVar(&cfg.SegmentLength, "s", cfg.SegmentLength, "Same as --segment-length")
	fs.StringVar(&cfg.SegmentsDir, "segments-dir", "", "Custom directory for segment files")
	fs.BoolVar(&cfg.KeepSegments, "keep-segments", false, "Keep segment files after concatenation")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite final output file if it exists")
	fs.BoolVar(&cfg.Overwrite, "f", false, "Same as --overwrite")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, u *utilityFlags) {
	fs.BoolVar(&u.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&u.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, u *utilityFlags) {
	fs.BoolVar(&u.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&u.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&u.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&u.showHelp, "h", false, "Same as --help")
}

// applyUtilityFlags copies color overrides into cfg.
func applyUtilityFlags(cfg *Config, u *utilityFlags) {
	if u.noColor {
		cfg.ColorMode = ColorNever
	} else if u.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputPath and OutputPath from the two positional
// args when not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("need exactly input and output file paths")
	}
	cfg.InputPath = args[0]
	cfg.OutputPath = args[1]
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "segenc v" + version + " — interruptible segmented H.265/H.264 re-encoder"},
		{"", ""},
		{"  segenc [OPTIONS] <input> <output>", ""},
		{"", ""},
		{"Encoding", ""},
		{"  --codec <h265|h264>", "Video codec (default: h265)"},
		{"  -c, --crf <value>", "Quality level (h265: 19, h264: 18)"},
		{"  -p, --preset <name>", "x265/x264 preset (default: slow)"},
		{"  -r, --framerate <fps>", "Target constant output framerate (required)"},
		{"  --pix-fmt <fmt>", "Pixel format (h265: yuv420p10le, h264: yuv420p)"},
		{"  --x265-params <str>", "Custom libx265 parameters"},
		{"  --x264-params <str>", "Custom libx264 parameters"},
		{"  --threads <n>", "Encoder threads (default: 0 = auto)"},
		{"  --audio-bitrate <rate>", "Audio bitrate, always re-encoded (default: 192k)"},
		{"", ""},
		{"Segmentation & resume", ""},
		{"  -s, --segment-length <sec>", "Segment length in seconds (default: 5)"},
		{"  --segments-dir <path>", "Custom segment staging directory"},
		{"  --keep-segments", "Keep segment files after concatenation"},
		{"  -f, --overwrite", "Overwrite final output file if it exists"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  --check", "System diagnostics (ffmpeg, ffprobe, x265, x264, AAC)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"Interrupts", ""},
		{"  Ctrl+C once", "Graceful stop: finish tearing down the current segment, resume later"},
		{"  Ctrl+C twice", "Force stop: kill the encoder immediately"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so the Codec enum can be used with flag.Var.

type codecValue struct{ p *Codec }

func (c *codecValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *codecValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "h265":
		*c.p = CodecH265
	case "h264":
		*c.p = CodecH264
	default:
		return fmt.Errorf("invalid codec %q (use 'h265' or 'h264')", s)
	}
	return nil
}
