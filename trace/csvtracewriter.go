package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVTraceWriter stores trace records in a CSV file. Records are buffered
// and flushed in batches.
type CSVTraceWriter struct {
	path string
	file *os.File

	lock       sync.Mutex
	records    []Record
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Init creates the CSV file and writes the header. It refuses to overwrite
// an existing file.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "trace_" + xid.New().String()
	}

	filename := t.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file,
		"Timestamp, Event, Arg, Thread, Filename, Lineno, CoName, Depth, Locals\n")

	atexit.Register(func() {
		t.Flush()
		err := t.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// RecordEvent buffers one record, flushing when the buffer is full.
func (t *CSVTraceWriter) RecordEvent(r Record) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.records = append(t.records, r)
	if len(t.records) >= t.bufferSize {
		t.flushLocked()
	}
}

// Flush writes the buffered records to the CSV file.
func (t *CSVTraceWriter) Flush() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.flushLocked()
}

func (t *CSVTraceWriter) flushLocked() {
	for _, r := range t.records {
		fmt.Fprintf(t.file, "%.6f, %s, %q, %s, %s, %d, %s, %d, %q\n",
			r.Timestamp,
			r.Event,
			r.Arg,
			r.Thread,
			r.Filename,
			r.Lineno,
			r.FuncName,
			r.Depth,
			localsAsJSON(r.Locals),
		)
	}

	t.records = nil
}

func localsAsJSON(locals map[string]string) string {
	if len(locals) == 0 {
		return ""
	}

	b, err := json.Marshal(locals)
	if err != nil {
		panic(err)
	}

	return string(b)
}
