package main

import (
	"os"

	"buildaq/cmd/buildaq/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
