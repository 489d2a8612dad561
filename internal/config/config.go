// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Defaults match the tuned x265/x264 parameter sets the encoder
// has shipped with since the shell-script era.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// --- Enum types for validated string fields ---

// Codec selects the video codec family.
type Codec string

const (
	CodecH265 Codec = "h265" // libx265 (default, 10-bit).
	CodecH264 Codec = "h264" // libx264 (8-bit, maximum compatibility).
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Codec-specific defaults applied by Validate when the user gives no override.
const (
	DefaultH265CRF = 19
	DefaultH264CRF = 18

	DefaultH265PixFmt = "yuv420p10le"
	DefaultH264PixFmt = "yuv420p"

	DefaultX265Params = "aq-mode=3:me=4:subme=7:ref=6:bframes=8:rc-lookahead=60:psy-rd=1.0:psy-rdoq=1.0"
	DefaultX264Params = "aq-mode=1:aq-strength=1.0:me=umh:subme=10:psy_rd=1.0:trellis=2:ref=8:bframes=8:rc-lookahead=60"
)

// Valid x265/x264 preset names.
var validPresets = map[string]bool{
	"ultrafast": true, "superfast": true, "veryfast": true, "faster": true,
	"fast": true, "medium": true, "slow": true, "slower": true,
	"veryslow": true, "placebo": true,
}

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it. After Validate it is read-only: every segment invocation
// shares the same Config.
type Config struct {
	// Paths (set from positional args).
	InputPath  string
	OutputPath string

	// Encoder settings.
	Codec        Codec
	CRF          int    // Resolved from CRFOverride or codec default.
	Preset       string // Default: "slow".
	Framerate    int    // Required; target constant output framerate.
	PixFmt       string // Resolved from PixFmtOverride or codec default.
	X265Params   string // Used only with h265.
	X264Params   string // Used only with h264.
	Threads      int    // 0 = let the encoder pick.
	AudioBitrate string // Default: "192k". Audio is always re-encoded for A/V sync.

	// Segmentation and file handling.
	SegmentLength int    // Seconds per segment. Default: 5.
	SegmentsDir   string // Custom segment staging dir; derived from input stem when empty.
	KeepSegments  bool   // Keep segment files after successful concatenation.
	Overwrite     bool   // Delete an existing destination instead of exiting.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.

	// Overrides captured during flag parsing, resolved by Validate.
	CRFOverride    string // --crf value; empty means codec default.
	PixFmtOverride string // --pix-fmt value; empty means codec default.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Codec:         CodecH265,
		Preset:        "slow",
		X265Params:    DefaultX265Params,
		X264Params:    DefaultX264Params,
		Threads:       0,
		AudioBitrate:  "192k",
		SegmentLength: 5,
		ColorMode:     ColorAuto,
	}
}

// Validate checks enum and numeric fields, resolves codec-specific CRF and
// pixel-format defaults, and normalizes the audio bitrate. When not in
// CheckOnly mode it also requires the positional paths and rejects
// input == output.
func (c *Config) Validate() error {
	switch c.Codec {
	case CodecH265, CodecH264:
		// valid
	default:
		return errors.New("invalid codec (use 'h265' or 'h264')")
	}

	if !validPresets[c.Preset] {
		return fmt.Errorf("invalid preset %q (use ultrafast..placebo)", c.Preset)
	}

	if err := c.resolveCRF(); err != nil {
		return err
	}
	c.resolvePixFmt()

	normalized, err := normalizeAudioBitrate(c.AudioBitrate)
	if err != nil {
		return err
	}
	c.AudioBitrate = normalized

	if c.Threads < 0 {
		return errors.New("--threads must be >= 0 (0 = auto)")
	}
	if c.Codec == CodecH265 && c.Threads > 0 &&
		strings.Contains(strings.ToLower(c.X265Params), "pools=") {
		return errors.New("cannot combine --threads with 'pools=' in --x265-params")
	}
	if c.SegmentLength <= 0 {
		return errors.New("--segment-length must be > 0")
	}

	if c.CheckOnly {
		return nil
	}

	if c.Framerate <= 0 {
		return errors.New("--framerate is required and must be > 0")
	}
	if c.InputPath == "" || c.OutputPath == "" {
		return errors.New("need exactly input and output file paths")
	}
	if sameCleanPath(c.InputPath, c.OutputPath) {
		return errors.New("input and output file paths cannot be the same")
	}
	return nil
}

// resolveCRF applies the --crf override or the codec default.
func (c *Config) resolveCRF() error {
	if c.CRFOverride == "" {
		if c.Codec == CodecH264 {
			c.CRF = DefaultH264CRF
		} else {
			c.CRF = DefaultH265CRF
		}
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(c.CRFOverride))
	if err != nil || n < 0 || n > 51 {
		return fmt.Errorf("invalid CRF %q (use 0-51)", c.CRFOverride)
	}
	c.CRF = n
	return nil
}

// resolvePixFmt applies the --pix-fmt override or the codec default.
func (c *Config) resolvePixFmt() {
	if c.PixFmtOverride != "" {
		c.PixFmt = c.PixFmtOverride
		return
	}
	if c.Codec == CodecH264 {
		c.PixFmt = DefaultH264PixFmt
	} else {
		c.PixFmt = DefaultH265PixFmt
	}
}

// normalizeAudioBitrate validates and canonicalizes user bitrate input.
// Accepted forms: "192", "192k", "192K", "192kbps". Output is "<n>k".
func normalizeAudioBitrate(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", errors.New("audio bitrate must not be empty")
	}
	if strings.HasSuffix(s, "kbps") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "kbps"))
	} else if strings.HasSuffix(s, "k") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid audio bitrate %q (use positive Kbps value, e.g. 192k)", raw)
	}
	return fmt.Sprintf("%dk", n), nil
}

// sameCleanPath reports whether two paths are identical after cleaning.
// Symlink resolution happens later in main; this catches the obvious case
// before any work starts.
func sameCleanPath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
