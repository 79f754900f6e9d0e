// Package main provides the entry point for the droid CLI.
package main

import (
	"context"
	"os"

	"github.com/android-clojure/droid/internal/cli"
)

//nolint:gochecknoglobals // set via -ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	os.Exit(cli.Execute(context.Background(), info, os.Args[1:], os.Stdout, os.Stderr))
}
