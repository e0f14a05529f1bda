package main

import (
	"os"

	"github.com/temirov/daybegin/cmd/cli"
)

// main executes the daybegin command-line application.
func main() {
	os.Exit(cli.Run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
