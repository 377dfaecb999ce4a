// Command ringtail keeps the last N lines of a stream in a fixed-size ring.
package main

import (
	"fmt"
	"os"

	"github.com/Iron-Ham/ringtail/internal/cmd"
	"github.com/Iron-Ham/ringtail/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ringtail: %s: %v\n", errors.GetSeverity(err), err)
		os.Exit(1)
	}
}
