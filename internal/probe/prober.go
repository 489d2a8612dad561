// Package probe wraps ffprobe for media introspection: duration and
// stream-presence queries against a single file.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Timeout bounds every ffprobe invocation. A probe that takes longer than
// this is treated as failed rather than blocking the run.
const Timeout = 30 * time.Second

// StreamKind selects which stream ffprobe inspects.
type StreamKind string

const (
	StreamVideo StreamKind = "v"
	StreamAudio StreamKind = "a"
)

// StreamInfo runs a single ffprobe JSON call against path, selecting the
// first stream of the given kind, and returns the parsed result. A non-zero
// ffprobe exit usually means no stream of that kind exists; that is reported
// as an error the caller may treat as "absent".
func StreamInfo(path string, kind StreamKind) (*Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-loglevel", "warning",
		"-select_streams", string(kind)+":0",
		"-show_streams", "-show_format",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("ffprobe timed out for %q (stream %s)", path, kind)
		}
		return nil, fmt.Errorf("ffprobe %q (stream %s): %w", path, kind, err)
	}
	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a Result.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// Duration returns the container duration of path in seconds, trying the
// video stream first and falling back to audio. Returns -1 when the duration
// cannot be determined.
func Duration(path string) float64 {
	for _, kind := range []StreamKind{StreamVideo, StreamAudio} {
		res, err := StreamInfo(path, kind)
		if err != nil {
			continue
		}
		if res.Format.Duration > 0 {
			return res.Format.Duration
		}
	}
	return -1
}

// HasAudio reports whether path contains at least one audio stream.
func HasAudio(path string) bool {
	res, err := StreamInfo(path, StreamAudio)
	if err != nil {
		return false
	}
	return len(res.Streams) > 0
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	PixFmt       string `json:"pix_fmt"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Channels     int    `json:"channels"`
	SampleRate   string `json:"sample_rate"`
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) *Result {
	res := &Result{
		Format: FormatInfo{
			Filename:   raw.Format.Filename,
			FormatName: raw.Format.FormatName,
			Duration:   parseFloat(raw.Format.Duration),
			Size:       parseInt64(raw.Format.Size),
			BitRate:    parseInt64(raw.Format.BitRate),
		},
	}
	for i := range raw.Streams {
		s := &raw.Streams[i]
		res.Streams = append(res.Streams, Stream{
			Index:        s.Index,
			Codec:        s.CodecName,
			Type:         s.CodecType,
			PixFmt:       s.PixFmt,
			Width:        s.Width,
			Height:       s.Height,
			AvgFrameRate: s.AvgFrameRate,
			Channels:     s.Channels,
			SampleRate:   parseInt(s.SampleRate),
		})
	}
	return res
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	n, _ := strconv.Atoi(s)
	return n
}
