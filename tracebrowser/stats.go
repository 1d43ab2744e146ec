package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tracelab/tracebrowser/browser"
)

var statsCmd = &cobra.Command{
	Use:   "stats [trace file]",
	Short: "Print per-thread statistics for a trace file.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := loadStore(args[0], 0)
		if err != nil {
			log.Fatalf("Error loading trace: %v", err)
		}

		printSummary(store.Summary())
	},
}

func printSummary(s browser.StoreSummary) {
	fmt.Printf("%d records, %.6fs span\n",
		s.NumRecords, s.EndTime-s.StartTime)
	if s.MalformedLines > 0 {
		fmt.Printf("%d malformed lines skipped\n", s.MalformedLines)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "THREAD\tEVENTS\tMAX DEPTH\tSPAN")

	for _, t := range s.Threads {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.6fs\n",
			t.Thread,
			eventCounts(t.Events),
			t.MaxDepth,
			t.EndTime-t.StartTime,
		)
	}

	w.Flush()
}

func eventCounts(events map[string]int) string {
	names := make([]string, 0, len(events))
	for name := range events {
		names = append(names, name)
	}
	sort.Strings(names)

	out := ""
	for i, name := range names {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%d", name, events[name])
	}

	return out
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
