// Package commands provides the CLI commands for the bot connector.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	logLevel   string
	prettyLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "botconnector",
	Short: "Genesys bot-connector bridge to the OpenAI Responses API",
	Long: `botconnector bridges the Genesys bot-connector protocol to the OpenAI
Responses API: it receives conversational turns from Genesys, keeps
per-session continuity through a pluggable session store, and translates
completion results back into bot-connector reply envelopes.

Run 'botconnector serve' to start the HTTP server.`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty-logs", false, "Human-readable console log output")

	rootCmd.SetVersionTemplate(fmt.Sprintf("botconnector %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
