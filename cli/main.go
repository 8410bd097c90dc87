package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/trebuchet-org/treb-l2/internal/cli"
	"github.com/trebuchet-org/treb-l2/internal/cli/render"
	"github.com/trebuchet-org/treb-l2/internal/config"
)

// Set through -ldflags at release time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	rootCmd := cli.NewRootCmd()
	if err := cli.Execute(rootCmd); err != nil {
		if !errors.Is(err, cli.ErrAlreadyReported) {
			fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		}
		os.Exit(1)
	}
}
