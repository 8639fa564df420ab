// Package main is the entry point for the skyunit CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/skyunit/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
