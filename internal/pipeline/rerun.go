package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// rerunFileName is written into the segments directory so that anyone (or
// any script) finding a half-finished staging dir can see the exact command
// that resumes it.
const rerunFileName = "rerun_command.txt"

// writeRerunCommand records the current invocation, shell-quoted, in the
// segments directory.
func writeRerunCommand(segDir string) error {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	parts := []string{shellQuote(exe)}
	for _, a := range os.Args[1:] {
		parts = append(parts, shellQuote(a))
	}
	line := strings.Join(parts, " ") + "\n"
	return os.WriteFile(filepath.Join(segDir, rerunFileName), []byte(line), 0o644)
}

// shellQuote quotes s for a POSIX shell. Plain words pass through unchanged.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`&|;<>()*?[]#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
