package probe

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64
	Size       int64
	BitRate    int64
}

// Stream holds the parsed properties of a single stream.
type Stream struct {
	Index        int
	Codec        string
	Type         string
	PixFmt       string
	Width        int
	Height       int
	AvgFrameRate string
	Channels     int
	SampleRate   int
}

// Result is the fully parsed output of a single ffprobe JSON call.
type Result struct {
	Format  FormatInfo
	Streams []Stream
}
