package ffmpeg

import (
	"strings"
	"testing"

	"github.com/jkollasch/segenc/internal/config"
	"github.com/jkollasch/segenc/internal/segment"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InputPath = "/in/source.mkv"
	cfg.OutputPath = "/out/final.mp4"
	cfg.Framerate = 60
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return &cfg
}

// argValue returns the argument following the first occurrence of flag.
func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestBuildSegmentArgs_TimeRange(t *testing.T) {
	cfg := testConfig(t)
	seg := segment.Segment{Index: 3, Start: 10, End: 12}

	args := BuildSegmentArgs(cfg, seg, "/tmp/part.mp4.part", true)

	if args[0] != "ffmpeg" {
		t.Errorf("args[0] = %q", args[0])
	}
	if got := argValue(args, "-ss"); got != "10.000000" {
		t.Errorf("-ss = %q, want 10.000000", got)
	}
	if got := argValue(args, "-t"); got != "2.000000" {
		t.Errorf("-t = %q, want 2.000000", got)
	}
	if got := argValue(args, "-i"); got != "/in/source.mkv" {
		t.Errorf("-i = %q", got)
	}
	if args[len(args)-1] != "/tmp/part.mp4.part" {
		t.Errorf("output = %q, want partial path last", args[len(args)-1])
	}
	if got := argValue(args, "-f"); got != "mp4" {
		t.Errorf("-f = %q, want mp4", got)
	}
}

func TestBuildSegmentArgs_H265Defaults(t *testing.T) {
	cfg := testConfig(t)
	args := BuildSegmentArgs(cfg, segment.Segment{Index: 1, Start: 0, End: 5}, "p", true)

	if got := argValue(args, "-c:v"); got != "libx265" {
		t.Errorf("-c:v = %q", got)
	}
	if got := argValue(args, "-crf"); got != "19" {
		t.Errorf("-crf = %q, want 19", got)
	}
	if got := argValue(args, "-tag:v"); got != "hvc1" {
		t.Errorf("-tag:v = %q", got)
	}
	if got := argValue(args, "-vf"); got != "fps=60:round=near,format=yuv420p10le" {
		t.Errorf("-vf = %q", got)
	}
	if got := argValue(args, "-x265-params"); got != config.DefaultX265Params {
		t.Errorf("-x265-params = %q", got)
	}
	if got := argValue(args, "-c:a"); got != "aac" {
		t.Errorf("-c:a = %q", got)
	}
	if got := argValue(args, "-b:a"); got != "192k" {
		t.Errorf("-b:a = %q", got)
	}
}

func TestBuildSegmentArgs_H265ThreadPools(t *testing.T) {
	cfg := testConfig(t)
	cfg.Threads = 4
	args := BuildSegmentArgs(cfg, segment.Segment{Index: 1, Start: 0, End: 5}, "p", true)

	got := argValue(args, "-x265-params")
	if !strings.HasPrefix(got, "pools=4:") {
		t.Errorf("-x265-params = %q, want pools=4: prefix", got)
	}
	if argValue(args, "-threads") != "" {
		t.Error("h265 must not pass -threads; pools ride in x265-params")
	}
}

func TestBuildSegmentArgs_H264(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Codec = config.CodecH264
	cfg.InputPath = "/in/a.mkv"
	cfg.OutputPath = "/out/b.mp4"
	cfg.Framerate = 30
	cfg.Threads = 8
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	args := BuildSegmentArgs(&cfg, segment.Segment{Index: 1, Start: 0, End: 5}, "p", true)

	if got := argValue(args, "-c:v"); got != "libx264" {
		t.Errorf("-c:v = %q", got)
	}
	if got := argValue(args, "-crf"); got != "18" {
		t.Errorf("-crf = %q, want h264 default 18", got)
	}
	if got := argValue(args, "-threads"); got != "8" {
		t.Errorf("-threads = %q", got)
	}
	if got := argValue(args, "-vf"); got != "fps=30:round=near,format=yuv420p" {
		t.Errorf("-vf = %q", got)
	}
	for _, a := range args {
		if a == "-tag:v" {
			t.Error("h264 must not tag hvc1")
		}
	}
}

func TestBuildSegmentArgs_NoAudio(t *testing.T) {
	cfg := testConfig(t)
	args := BuildSegmentArgs(cfg, segment.Segment{Index: 1, Start: 0, End: 5}, "p", false)

	var hasAn bool
	for _, a := range args {
		if a == "-an" {
			hasAn = true
		}
		if a == "-c:a" {
			t.Error("-c:a present despite no audio")
		}
	}
	if !hasAn {
		t.Error("-an missing for source without audio")
	}
}

func TestBuildSegmentArgs_FractionalStart(t *testing.T) {
	cfg := testConfig(t)
	seg := segment.Segment{Index: 2, Start: 7.5, End: 12.25}
	args := BuildSegmentArgs(cfg, seg, "p", true)

	if got := argValue(args, "-ss"); got != "7.500000" {
		t.Errorf("-ss = %q", got)
	}
	if got := argValue(args, "-t"); got != "4.750000" {
		t.Errorf("-t = %q", got)
	}
}

func TestBuildConcatArgs(t *testing.T) {
	args := BuildConcatArgs("/tmp/list.txt", "/out/final.mp4")

	if got := argValue(args, "-f"); got != "concat" {
		t.Errorf("-f = %q", got)
	}
	if got := argValue(args, "-i"); got != "/tmp/list.txt" {
		t.Errorf("-i = %q", got)
	}
	if got := argValue(args, "-c"); got != "copy" {
		t.Errorf("-c = %q, want stream copy", got)
	}
	if got := argValue(args, "-fflags"); got != "+genpts" {
		t.Errorf("-fflags = %q", got)
	}
	if args[len(args)-1] != "/out/final.mp4" {
		t.Errorf("dest = %q", args[len(args)-1])
	}
}

func TestBuildOnePassArgs(t *testing.T) {
	args := BuildOnePassArgs("in.mp4", "out.mp4", 21, 60)

	if got := argValue(args, "-crf"); got != "21" {
		t.Errorf("-crf = %q", got)
	}
	if got := argValue(args, "-c:a"); got != "copy" {
		t.Errorf("-c:a = %q, want copy", got)
	}
	if got := argValue(args, "-vf"); got != "fps=60,format=yuv420p10le" {
		t.Errorf("-vf = %q", got)
	}
}
