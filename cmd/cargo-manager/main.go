package main

import (
	"github.com/ytget/cargo-manager/internal/cli"
)

var version = "dev"

func main() {
	cli.Execute(version, "", "")
}
