// Package main is the entry point for the dsinstall CLI.
//
// dsinstall provisions directory server instances on the local host: it
// validates an instance configuration, lays out the instance directories,
// writes control scripts and configuration files, and starts the server.
//
// Commands: init, create, update, validate, paths, version.
//
// For detailed usage information, run:
//
//	dsinstall --help
package main

import (
	"fmt"
	"os"

	"github.com/dsforge/dsinstall/cmd/dsinstall/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
