package ffmpeg

import (
	"fmt"
	"strconv"

	"github.com/jkollasch/segenc/internal/config"
	"github.com/jkollasch/segenc/internal/segment"
)

// logLevel keeps ffmpeg quiet except for warnings and errors; the supervisor
// filters the merged output down to those lines anyway.
const logLevel = "warning"

// BuildSegmentArgs constructs the complete ffmpeg argument slice for one
// segment encode, writing to partialPath. The command normalizes input
// timestamps to constant framerate (-vsync cfr plus an fps filter and output
// -r), which is what makes independently encoded segments concatenate
// cleanly even from variable-framerate sources.
func BuildSegmentArgs(cfg *config.Config, seg segment.Segment, partialPath string, hasAudio bool) []string {
	args := make([]string, 0, 48)

	args = append(args,
		"ffmpeg", "-hide_banner", "-loglevel", logLevel, "-y",
		"-vsync", "cfr",
		"-i", cfg.InputPath,
		"-ss", fmt.Sprintf("%.6f", seg.Start),
		"-t", fmt.Sprintf("%.6f", seg.Duration()),
	)

	args = append(args,
		"-vf", fmt.Sprintf("fps=%d:round=near,format=%s", cfg.Framerate, cfg.PixFmt),
		"-r", strconv.Itoa(cfg.Framerate),
		"-preset", cfg.Preset,
		"-crf", strconv.Itoa(cfg.CRF),
		"-color_primaries", "bt709", "-color_trc", "bt709",
		"-colorspace", "bt709", "-color_range", "tv",
		"-movflags", "+faststart", "-reset_timestamps", "1",
	)

	args = appendVideoCodec(args, cfg)

	if hasAudio {
		// Audio is re-encoded, never copied: segment cut points rarely land
		// on source audio frame boundaries, and CFR output shifts video
		// timing, so copied audio would drift.
		args = append(args, "-c:a", "aac", "-b:a", cfg.AudioBitrate)
	} else {
		args = append(args, "-an")
	}

	args = append(args, "-f", "mp4", partialPath)
	return args
}

// appendVideoCodec adds the codec-specific arguments for the video stream.
func appendVideoCodec(args []string, cfg *config.Config) []string {
	switch cfg.Codec {
	case config.CodecH264:
		args = append(args,
			"-c:v", "libx264",
			"-x264-params", cfg.X264Params,
		)
		if cfg.Threads > 0 {
			args = append(args, "-threads", strconv.Itoa(cfg.Threads))
		}

	default: // h265
		params := cfg.X265Params
		if cfg.Threads > 0 {
			// x265 ignores -threads; its pool size rides in the params string.
			params = fmt.Sprintf("pools=%d:%s", cfg.Threads, params)
		}
		args = append(args,
			"-c:v", "libx265",
			"-x265-params", params,
			"-tag:v", "hvc1",
		)
	}
	return args
}

// BuildConcatArgs constructs the ffmpeg command that joins the segment
// artifacts listed in manifestPath into destPath via the concat demuxer in
// stream-copy mode. +genpts regenerates container timestamps across the
// segment boundaries.
func BuildConcatArgs(manifestPath, destPath string) []string {
	return []string{
		"ffmpeg", "-hide_banner", "-loglevel", logLevel, "-y",
		"-f", "concat", "-safe", "0",
		"-i", manifestPath,
		"-c", "copy", "-movflags", "+faststart",
		"-fflags", "+genpts",
		destPath,
	}
}

// BuildOnePassArgs constructs the single-pass H.265 re-encode command used
// by the onepass utility: tuned x265 parameters, BT.709 tags, audio stream
// copy.
func BuildOnePassArgs(input, output string, crf, framerate int) []string {
	return []string{
		"ffmpeg",
		"-i", input,
		"-vf", fmt.Sprintf("fps=%d,format=%s", framerate, config.DefaultH265PixFmt),
		"-c:v", "libx265",
		"-preset", "slow",
		"-crf", strconv.Itoa(crf),
		"-x265-params", config.DefaultX265Params,
		"-threads", "0",
		"-color_primaries", "bt709",
		"-color_trc", "bt709",
		"-colorspace", "bt709",
		"-color_range", "tv",
		"-tag:v", "hvc1",
		"-c:a", "copy",
		"-movflags", "+faststart",
		output,
	}
}
