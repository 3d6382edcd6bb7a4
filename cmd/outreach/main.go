package main

import (
	"os"

	"github.com/hekax/outreach-intel/cmd/outreach/commands"
)

// main is the entry point for the outreach-intel CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
