package ffmpeg

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Concatenate losslessly joins the ordered segment artifacts into destPath
// using the concat demuxer in stream-copy mode. exec runs the ffmpeg
// invocation (normally [Supervisor.Run]). The manifest is a temporary file
// next to the destination, removed whether or not the join succeeds. Call
// only when every planned segment has a valid final artifact.
func Concatenate(log Logger, exec func(args []string, prefix string) bool, artifacts []string, destPath string) bool {
	if len(artifacts) == 0 {
		log.Error("no segment files to concatenate")
		return false
	}

	stem := strings.TrimSuffix(filepath.Base(destPath), filepath.Ext(destPath))
	manifestPath := filepath.Join(filepath.Dir(destPath), stem+"_filelist_temp.txt")

	if err := writeManifest(manifestPath, artifacts); err != nil {
		log.Error("cannot write concat manifest: %v", err)
		return false
	}
	defer func() {
		if err := os.Remove(manifestPath); err != nil && !os.IsNotExist(err) {
			log.Warn("could not delete temp manifest %s: %v", manifestPath, err)
		}
	}()

	log.Info("Concatenating %d segments into %s", len(artifacts), destPath)
	return exec(BuildConcatArgs(manifestPath, destPath), "concat")
}

// writeManifest writes the concat demuxer file list: one "file <path>" line
// per artifact, in order, with paths escaped so that spaces and quotes
// round-trip.
func writeManifest(path string, artifacts []string) error {
	var b strings.Builder
	for _, a := range artifacts {
		abs, err := filepath.Abs(a)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "file %s\n", quoteConcatPath(abs))
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// quoteConcatPath escapes a path for the concat demuxer. The demuxer parses
// single-quoted strings with '\'' as the escaped quote; on Windows it also
// wants forward slashes.
func quoteConcatPath(p string) string {
	if runtime.GOOS == "windows" {
		p = strings.ReplaceAll(p, `\`, "/")
	}
	return "'" + strings.ReplaceAll(p, "'", `'\''`) + "'"
}
