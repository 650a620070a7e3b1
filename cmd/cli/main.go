// Package main is the entry point for the gitapp CLI.
// The CLI is the developer terminal tool for interacting with the gitapp API.
package main

import (
	"gitapp/cmd/cli/cmd"
	"os"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
