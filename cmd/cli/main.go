// Package main is the entry point for the phone-bill CLI.
package main

import (
	"os"

	"phone-bill/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
