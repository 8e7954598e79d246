package main

import (
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/clambin/warmup-bridge/internal/cmd"
)

var (
	// overridden during build
	version = "change-me"
)

func main() {
	if version == "change-me" {
		version = versioninfo.Short()
	}
	cmd.RootCmd.Version = version
	if err := cmd.RootCmd.Execute(); err != nil {
		slog.Error("failed to start", "err", err)
		os.Exit(1)
	}
}
