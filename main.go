package main

import (
	"github.com/ytget/cargo-manager/internal/cli"
)

// Set during build via -ldflags "-X main.version=X.Y.Z -X main.commit=... -X main.buildDate=..."
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

func main() {
	cli.Execute(version, commit, buildDate)
}
