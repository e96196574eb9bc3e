package main

import (
	"os"

	"github.com/zephir-project/zephir/internal/cmd"
)

// zephirVersion is overridden at build time via -ldflags "-X main.zephirVersion=...".
var zephirVersion = "dev"

func main() {
	os.Exit(cmd.RunWithArgs(os.Args[1:], zephirVersion))
}
