// Package main implements the flakelint CLI.
// It provides commands for analyzing JS/TS test files for flaky-test
// patterns, applying safe mechanical fixes, and managing configuration.
package main

import (
	"os"

	"github.com/tigredonorte/flakelint/cmd/flakelint/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.SetVersionTemplate(`flakelint version {{.Version}}
`)
	commands.RootCmd.Version = version

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
