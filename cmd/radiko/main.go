// radiko splits words into morphemes against a stored or inline lexicon.
// Single binary: CLI, in-process decomposition, or a per-workspace daemon.
package main

import (
	"fmt"
	"os"

	"github.com/corey/radiko/cmd/radiko/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
