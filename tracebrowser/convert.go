package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracelab/tracebrowser/trace"
)

var convertCmd = &cobra.Command{
	Use:   "convert [in.ndjson] [out]",
	Short: "Convert a newline-delimited JSON trace to a SQLite database.",
	Long: "`convert trace.ndjson trace` reads the whole NDJSON trace and " +
		"stores it in trace.sqlite3.",
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		res, err := trace.LoadFile(args[0], 0)
		if err != nil {
			log.Fatalf("Error loading trace: %v", err)
		}

		out := strings.TrimSuffix(args[1], ".sqlite3")

		writer := trace.NewSQLiteTraceWriter(out)
		writer.Init()

		for _, r := range res.Records {
			writer.RecordEvent(r)
		}
		writer.Flush()

		fmt.Printf("Converted %d records", len(res.Records))
		if res.Malformed > 0 {
			fmt.Printf(" (%d malformed lines skipped)", res.Malformed)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
