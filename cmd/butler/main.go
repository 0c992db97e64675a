// System Butler - queued file copy/move operations with a background worker.
package main

import (
	"fmt"
	"os"

	"github.com/sysbutler/butler/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
