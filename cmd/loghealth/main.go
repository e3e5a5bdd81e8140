package main

import (
	"os"

	"loghealth/cmd/loghealth/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
