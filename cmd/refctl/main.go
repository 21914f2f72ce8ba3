// Command refctl inspects a reference table file from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/afamplan/internal/core"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		os.Exit(1)
	}
}
