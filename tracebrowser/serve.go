package main

import (
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tracelab/tracebrowser/browser"
)

const defaultPort = 3001

var serveCmd = &cobra.Command{
	Use:   "serve [trace file]",
	Short: "Serve the interactive timeline for a trace file.",
	Long: "`serve trace.ndjson` loads the trace and opens the timeline " +
		"in the default browser. Files ending in .sqlite3 are read as " +
		"recorded databases.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tail, _ := cmd.Flags().GetInt("tail")
		port, _ := cmd.Flags().GetInt("port")
		noOpen, _ := cmd.Flags().GetBool("no-open")

		if port == 0 {
			port = portFromEnv()
		}

		store, err := loadStore(args[0], tail)
		if err != nil {
			log.Fatalf("Error loading trace: %v", err)
		}

		server := browser.NewServer(store).
			WithPortNumber(port).
			WithBrowserLaunch(!noOpen)

		err = server.Run()
		if err != nil {
			log.Fatalf("Error serving trace: %v", err)
		}
	},
}

func portFromEnv() int {
	str := os.Getenv("TRACEBROWSER_PORT")
	if str == "" {
		return defaultPort
	}

	port, err := strconv.Atoi(str)
	if err != nil {
		log.Fatalf("Invalid TRACEBROWSER_PORT: %s", str)
	}

	return port
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("tail", "n", 1000,
		"number of records to include from the end of the file")
	serveCmd.Flags().Int("port", 0,
		"port to listen on (default $TRACEBROWSER_PORT or 3001)")
	serveCmd.Flags().Bool("no-open", false,
		"do not open the browser")
}
