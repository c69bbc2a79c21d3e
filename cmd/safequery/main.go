// Package main is the entry point for the safequery CLI.
package main

import (
	"os"

	"github.com/satishbabariya/safequery/cmd/safequery/commands"
	"github.com/satishbabariya/safequery/internal/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
}
