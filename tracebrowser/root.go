package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "tracebrowser",
	Short: "Tracebrowser explores line-delimited JSON execution traces " +
		"recorded with the capture probes.",
	Long: `Tracebrowser explores line-delimited JSON execution traces ` +
		`recorded with the capture probes. It can serve an interactive ` +
		`timeline for a trace file, convert traces to SQLite, and print ` +
		`per-thread statistics.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is fine.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
