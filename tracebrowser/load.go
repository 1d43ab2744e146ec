package main

import (
	"context"
	"strings"

	"github.com/tracelab/tracebrowser/browser"
	"github.com/tracelab/tracebrowser/trace"
)

// loadStore loads a trace file into a browser store. Files ending in
// .sqlite3 are read as recorded databases, everything else as
// newline-delimited JSON. A positive tail keeps only the last tail records.
func loadStore(path string, tail int) (*browser.Store, error) {
	if strings.HasSuffix(path, ".sqlite3") {
		reader := trace.NewSQLiteTraceReader(path)
		reader.Init()
		defer reader.Close()

		records, err := reader.ListRecords(
			context.Background(), trace.RecordQuery{})
		if err != nil {
			return nil, err
		}

		if tail > 0 && len(records) > tail {
			records = records[len(records)-tail:]
		}

		return browser.NewStore(records, 0), nil
	}

	res, err := trace.LoadFile(path, tail)
	if err != nil {
		return nil, err
	}

	return browser.NewStore(res.Records, res.Malformed), nil
}
