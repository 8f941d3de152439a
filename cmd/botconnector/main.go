// Package main provides the entry point for the bot-connector CLI.
package main

import (
	"os"

	"github.com/genesys-ai/botconnector/cmd/botconnector/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
