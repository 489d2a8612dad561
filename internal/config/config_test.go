package config

import (
	"testing"
)

// validCfg returns a config that passes Validate, for tests that break one
// field at a time.
func validCfg() Config {
	cfg := DefaultConfig()
	cfg.InputPath = "/media/in.mkv"
	cfg.OutputPath = "/media/out.mp4"
	cfg.Framerate = 30
	return cfg
}

func TestValidate_Codec(t *testing.T) {
	tests := []struct {
		name    string
		codec   Codec
		wantErr bool
	}{
		{"h265 is valid", CodecH265, false},
		{"h264 is valid", CodecH264, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "av1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCfg()
			cfg.Codec = tt.codec
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_CodecDefaults(t *testing.T) {
	tests := []struct {
		name       string
		codec      Codec
		wantCRF    int
		wantPixFmt string
	}{
		{"h265 defaults", CodecH265, DefaultH265CRF, DefaultH265PixFmt},
		{"h264 defaults", CodecH264, DefaultH264CRF, DefaultH264PixFmt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCfg()
			cfg.Codec = tt.codec
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if cfg.CRF != tt.wantCRF {
				t.Errorf("CRF = %d, want %d", cfg.CRF, tt.wantCRF)
			}
			if cfg.PixFmt != tt.wantPixFmt {
				t.Errorf("PixFmt = %q, want %q", cfg.PixFmt, tt.wantPixFmt)
			}
		})
	}
}

func TestValidate_CRFOverride(t *testing.T) {
	tests := []struct {
		name     string
		override string
		wantCRF  int
		wantErr  bool
	}{
		{"explicit value", "23", 23, false},
		{"zero allowed", "0", 0, false},
		{"upper bound", "51", 51, false},
		{"above range", "52", 0, true},
		{"negative", "-1", 0, true},
		{"not a number", "abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCfg()
			cfg.CRFOverride = tt.override
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.CRF != tt.wantCRF {
				t.Errorf("CRF = %d, want %d", cfg.CRF, tt.wantCRF)
			}
		})
	}
}

func TestValidate_PixFmtOverride(t *testing.T) {
	cfg := validCfg()
	cfg.PixFmtOverride = "yuv444p"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.PixFmt != "yuv444p" {
		t.Errorf("PixFmt = %q, want override to win", cfg.PixFmt)
	}
}

func TestNormalizeAudioBitrate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"192", "192k", false},
		{"192k", "192k", false},
		{"192K", "192k", false},
		{"320kbps", "320k", false},
		{" 128k ", "128k", false},
		{"", "", true},
		{"0", "", true},
		{"-5k", "", true},
		{"lots", "", true},
	}
	for _, tt := range tests {
		got, err := normalizeAudioBitrate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("normalizeAudioBitrate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeAudioBitrate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate_FramerateRequired(t *testing.T) {
	cfg := validCfg()
	cfg.Framerate = 0
	if err := cfg.Validate(); err == nil {
		t.Error("missing framerate must fail validation")
	}

	cfg = validCfg()
	cfg.Framerate = 0
	cfg.CheckOnly = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("check mode must not require framerate, got %v", err)
	}
}

func TestValidate_SegmentLength(t *testing.T) {
	cfg := validCfg()
	cfg.SegmentLength = 0
	if err := cfg.Validate(); err == nil {
		t.Error("segment length 0 must fail validation")
	}
}

func TestValidate_ThreadsPoolsConflict(t *testing.T) {
	cfg := validCfg()
	cfg.Threads = 4
	cfg.X265Params = "pools=2:" + DefaultX265Params
	if err := cfg.Validate(); err == nil {
		t.Error("--threads with pools= in x265 params must fail")
	}

	// No conflict for h264: pools is an x265 concept.
	cfg = validCfg()
	cfg.Codec = CodecH264
	cfg.Threads = 4
	cfg.X265Params = "pools=2"
	if err := cfg.Validate(); err != nil {
		t.Errorf("h264 with threads should validate, got %v", err)
	}
}

func TestValidate_SamePaths(t *testing.T) {
	cfg := validCfg()
	cfg.OutputPath = cfg.InputPath
	if err := cfg.Validate(); err == nil {
		t.Error("input == output must fail validation")
	}

	cfg = validCfg()
	cfg.OutputPath = "/media/./in.mkv"
	if err := cfg.Validate(); err == nil {
		t.Error("paths equal after cleaning must fail validation")
	}
}

func TestValidate_MissingPaths(t *testing.T) {
	cfg := validCfg()
	cfg.OutputPath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing output path must fail validation")
	}
}
