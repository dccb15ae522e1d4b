// Package main is the entrypoint for the querybridge CLI.
package main

import (
	"os"

	"github.com/querybridge/querybridge/internal/cli"
)

// Build metadata, overridden via -ldflags at release time.
var (
	version   = ""
	gitCommit = ""
	buildDate = ""
)

func main() {
	cli.SetVersionInfo(version, gitCommit, buildDate)
	os.Exit(cli.New().Execute())
}
