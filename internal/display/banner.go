package display

import (
	"fmt"
	"os"

	"github.com/jkollasch/segenc/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` ____             _____
/ ___|  ___  __ _| ____|_ __   ___
\___ \ / _ \/ _`+"`"+` |  _| | '_ \ / __|
 ___) |  __/ (_| | |___| | | | (__
|____/ \___|\__, |_____|_| |_|\___|
            |___/
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
